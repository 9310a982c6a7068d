package services

import (
	"context"

	"github.com/grlcodee/credify.ai/models"
)

// LLMRequest is a single generation call. JSONSchema asks the backend for
// structured JSON output; Image, when set, is sent inline with the prompt.
type LLMRequest struct {
	Prompt     string
	JSONSchema bool
	Image      *models.ImagePayload
}

// LLMClient is a reasoning backend returning the raw model text.
type LLMClient interface {
	Name() string
	Generate(ctx context.Context, req LLMRequest) (string, error)
}
