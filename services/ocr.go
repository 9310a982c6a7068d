package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/grlcodee/credify.ai/models"
)

const (
	ocrPrompt     = "Extract all text from this image. Return only the extracted text, preserving the structure and layout as much as possible. If there's no readable text, respond with 'NO_TEXT_FOUND'."
	ocrNoText     = "NO_TEXT_FOUND"
	ocrConfidence = 0.85
)

// ErrNoText is returned when the image holds no readable text.
var ErrNoText = errors.New("No text found in the image")

type OCRResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// OCRService transcribes images through the reasoning backend.
type OCRService struct {
	llm   LLMClient
	retry RetryPolicy
}

func NewOCRService(llm LLMClient, retry RetryPolicy) *OCRService {
	return &OCRService{llm: llm, retry: retry}
}

func (s *OCRService) Extract(ctx context.Context, imageBase64, mimeType string) (OCRResult, error) {
	if imageBase64 == "" || mimeType == "" {
		return OCRResult{}, newError(KindInvalidInput, "ocr", fmt.Errorf("imageBase64 and mimeType are required"))
	}

	req := LLMRequest{
		Prompt: ocrPrompt,
		Image:  &models.ImagePayload{Base64: imageBase64, MimeType: mimeType},
	}
	text, err := s.retry.Do(ctx, "ocr", func(ctx context.Context) (string, error) {
		return s.llm.Generate(ctx, req)
	})
	if err != nil {
		log.Printf("[OCR] ❌ %v", err)
		return OCRResult{}, asAnalysisFailure("ocr", err)
	}

	text = strings.TrimSpace(text)
	if text == "" || text == ocrNoText {
		return OCRResult{Error: ErrNoText.Error()}, ErrNoText
	}
	log.Printf("[OCR] ✓ Extracted %d chars", len(text))
	return OCRResult{Text: text, Confidence: ocrConfidence}, nil
}
