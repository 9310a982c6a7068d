package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractJSONObject pulls a JSON object out of free-form model text. It
// tries the span from the first '{' to the last '}', then a fenced code
// block. Anything else is UnparsableResponse.
func ExtractJSONObject(raw string) ([]byte, error) {
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		span := raw[start : end+1]
		if json.Valid([]byte(span)) {
			return []byte(span), nil
		}
	}

	for _, m := range fencedBlockRe.FindAllStringSubmatch(raw, -1) {
		block := strings.TrimSpace(m[1])
		if strings.HasPrefix(block, "{") && json.Valid([]byte(block)) {
			return []byte(block), nil
		}
	}

	return nil, newError(KindUnparsableResponse, "extract", fmt.Errorf("no JSON object in response (%d chars)", len(raw)))
}
