package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Known OpenAI-compatible endpoints selectable by name in OPENAI_BASE_URL.
var openAIBaseURLs = map[string]string{
	"groq":       "https://api.groq.com/openai/v1",
	"openrouter": "https://openrouter.ai/api/v1",
	"lmstudio":   "http://localhost:1234/v1",
}

// OpenAIClient talks to any OpenAI-compatible chat completion API: Groq,
// OpenRouter, OpenAI or a local LM Studio server.
type OpenAIClient struct {
	cli     *openai.Client
	model   string
	tracker *RateLimitTracker
}

func NewOpenAIClient(apiKey, baseURL, model string, tracker *RateLimitTracker) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if known, ok := openAIBaseURLs[baseURL]; ok {
		baseURL = known
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{cli: openai.NewClientWithConfig(cfg), model: model, tracker: tracker}
}

func (c *OpenAIClient) Name() string { return "openai:" + c.model }

func (c *OpenAIClient) Generate(ctx context.Context, req LLMRequest) (string, error) {
	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.Image != nil {
		msg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:" + req.Image.MimeType + ";base64," + stripDataURL(req.Image.Base64),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	} else {
		msg.Content = req.Prompt
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{msg},
		Temperature: 0.2,
		TopP:        0.8,
	}
	if req.JSONSchema {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	log.Printf("[OPENAI] 📤 %s (prompt %d chars, image=%t, json=%t)", c.model, len(req.Prompt), req.Image != nil, req.JSONSchema)
	start := time.Now()

	resp, err := c.cli.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		status := statusFromOpenAIError(err)
		if status != 0 {
			c.tracker.Update("openai", nil, status)
		}
		if status == http.StatusTooManyRequests {
			return "", newError(KindRateLimited, "openai", err)
		}
		log.Printf("[OPENAI] ❌ %v", err)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	c.tracker.Update("openai", resp.Header(), http.StatusOK)

	if len(resp.Choices) == 0 {
		return "", newError(KindUnparsableResponse, "openai", fmt.Errorf("response has no choices"))
	}
	text := resp.Choices[0].Message.Content
	log.Printf("[OPENAI] ✓ %d chars in %.2fs, tokens %d (prompt %d, completion %d)",
		len(text), time.Since(start).Seconds(),
		resp.Usage.TotalTokens, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return text, nil
}

func statusFromOpenAIError(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
