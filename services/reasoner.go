package services

import (
	"context"
	"fmt"
	"log"

	"github.com/grlcodee/credify.ai/models"
)

// Reasoner turns content plus research evidence into a validated verdict.
type Reasoner struct {
	llm   LLMClient
	retry RetryPolicy
}

func NewReasoner(llm LLMClient, retry RetryPolicy) *Reasoner {
	return &Reasoner{llm: llm, retry: retry}
}

// Reason returns a fully valid AnalysisOutput or an error. Text requests use
// the backend's structured JSON mode. Image requests are answered in free
// text and the JSON object is extracted from it.
func (r *Reasoner) Reason(ctx context.Context, content string, research models.ResearchResult, languageName string, image *models.ImagePayload) (*models.AnalysisOutput, error) {
	withImage := image != nil && image.Base64 != ""
	req := LLMRequest{
		Prompt:     BuildVerdictPrompt(content, research.Sources, languageName, withImage),
		JSONSchema: !withImage,
	}
	if withImage {
		req.Image = image
	}

	mode := "text"
	if withImage {
		mode = "multimodal"
	}
	log.Printf("[REASONER] 🧠 %s mode via %s with %d sources", mode, r.llm.Name(), len(research.Sources))

	raw, err := r.retry.Do(ctx, "reason", func(ctx context.Context) (string, error) {
		return r.llm.Generate(ctx, req)
	})
	if err != nil {
		log.Printf("[REASONER] ❌ Backend failed: %v", err)
		return nil, asAnalysisFailure("reason", err)
	}

	out, err := parseVerdict(raw)
	if err != nil {
		log.Printf("[REASONER] ❌ %v", err)
		return nil, asAnalysisFailure("reason", err)
	}

	log.Printf("[REASONER] ✓ Verdict %q, score %d", out.FactCheckVerdict, out.CredibilityScore)
	return out, nil
}

func parseVerdict(raw string) (*models.AnalysisOutput, error) {
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	out, err := models.DecodeAnalysisOutput(obj)
	if err != nil {
		log.Printf("[REASONER] ⚠ Rejected verdict: %v", err)
		return nil, newError(KindSchemaValidation, "reason", fmt.Errorf("invalid verdict: %w", err))
	}
	return out, nil
}

// MergeEvidence backfills evidenceSources from research when the model
// cited nothing. Every other field is left untouched.
func MergeEvidence(out *models.AnalysisOutput, research models.ResearchResult) *models.AnalysisOutput {
	if len(out.EvidenceSources) == 0 && len(research.Sources) > 0 {
		out.EvidenceSources = research.URLs(maxBackfillSources)
		log.Printf("[REASONER] 🔗 Backfilled %d evidence sources", len(out.EvidenceSources))
	}
	return out
}

const maxBackfillSources = 5
