package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var requiredOutputFields = []string{
	"credibilityScore",
	"factCheckVerdict",
	"verifiedSummary",
	"evidenceSources",
	"biasEmotionAnalysis",
	"emotionBiasProfile",
	"aiGenerated",
	"aiGenerationConfidence",
	"aiGenerationIndicators",
}

// DecodeAnalysisOutput turns a JSON object into a validated AnalysisOutput.
// The input must already be syntactically valid JSON; every error returned
// here means the object does not match the output schema.
func DecodeAnalysisOutput(raw []byte) (*AnalysisOutput, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	for _, name := range requiredOutputFields {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, fmt.Errorf("missing required field %q", name)
		}
	}

	var out AnalysisOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("field type mismatch: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
