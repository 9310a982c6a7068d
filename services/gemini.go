package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/grlcodee/credify.ai/models"
)

// GeminiClient calls the Gemini API through the official genai SDK.
type GeminiClient struct {
	cli     *genai.Client
	model   string
	tracker *RateLimitTracker
}

func NewGeminiClient(ctx context.Context, apiKey, model string, tracker *RateLimitTracker) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{cli: cli, model: model, tracker: tracker}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

func (g *GeminiClient) Generate(ctx context.Context, req LLMRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Image != nil {
		data, err := base64.StdEncoding.DecodeString(stripDataURL(req.Image.Base64))
		if err != nil {
			return "", newError(KindInvalidInput, "gemini", fmt.Errorf("decode image: %w", err))
		}
		parts = append(parts, genai.NewPartFromBytes(data, req.Image.MimeType))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
		TopP:        genai.Ptr[float32](0.8),
		TopK:        genai.Ptr[float32](40),
	}
	if req.JSONSchema {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = analysisOutputSchema()
	}

	log.Printf("[GEMINI] 📤 %s (prompt %d chars, image=%t, json=%t)", g.model, len(req.Prompt), req.Image != nil, req.JSONSchema)
	start := time.Now()

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}},
		cfg,
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			g.tracker.Update("gemini", nil, apiErr.Code)
			if apiErr.Code == http.StatusTooManyRequests || strings.EqualFold(apiErr.Status, "RESOURCE_EXHAUSTED") {
				return "", newError(KindRateLimited, "gemini", err)
			}
		}
		log.Printf("[GEMINI] ❌ %v", err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	g.tracker.Update("gemini", nil, http.StatusOK)

	text := resp.Text()
	log.Printf("[GEMINI] ✓ %d chars in %.2fs", len(text), time.Since(start).Seconds())
	return text, nil
}

// stripDataURL removes a "data:<mime>;base64," prefix if present.
func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

func enumSchema(values []string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Enum: values}
}

func percentSchema(fields ...string) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}, Required: fields}
	for _, f := range fields {
		s.Properties[f] = &genai.Schema{Type: genai.TypeNumber}
	}
	return s
}

func analysisOutputSchema() *genai.Schema {
	verdicts := make([]string, 0, len(models.Verdicts))
	for _, v := range models.Verdicts {
		verdicts = append(verdicts, string(v))
	}
	str := &genai.Schema{Type: genai.TypeString}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"credibilityScore":    {Type: genai.TypeInteger},
			"factCheckVerdict":    enumSchema(verdicts),
			"verifiedSummary":     str,
			"evidenceSources":     {Type: genai.TypeArray, Items: str},
			"biasEmotionAnalysis": str,
			"emotionBiasProfile": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"sentenceLevelAnalysis": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"sentence": str,
								"emotion":  enumSchema(models.Emotions),
								"biasType": enumSchema(models.BiasTypes),
							},
							Required: []string{"sentence", "emotion", "biasType"},
						},
					},
					"articleLevelSummary": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"dominantEmotion":     enumSchema(models.Emotions),
							"emotionDistribution": percentSchema("anger", "fear", "neutral", "joy"),
							"dominantBiasType":    enumSchema(models.BiasTypes),
							"biasDistribution":    percentSchema("cherryPicking", "sensationalism", "exaggeration", "loadedLanguage", "none"),
							"overallBiasScore":    {Type: genai.TypeNumber},
							"overallEmotionScore": {Type: genai.TypeNumber},
						},
						Required: []string{"dominantEmotion", "emotionDistribution", "dominantBiasType", "biasDistribution", "overallBiasScore", "overallEmotionScore"},
					},
				},
				Required: []string{"sentenceLevelAnalysis", "articleLevelSummary"},
			},
			"aiGenerated":            {Type: genai.TypeBoolean},
			"aiGenerationConfidence": {Type: genai.TypeNumber},
			"aiGenerationIndicators": {Type: genai.TypeArray, Items: str},
		},
		Required: []string{
			"credibilityScore", "factCheckVerdict", "verifiedSummary", "evidenceSources",
			"biasEmotionAnalysis", "emotionBiasProfile", "aiGenerated",
			"aiGenerationConfidence", "aiGenerationIndicators",
		},
	}
}
