package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCRExtract(t *testing.T) {
	llm := &fakeLLM{respond: func(int, LLMRequest) (string, error) { return "  BREAKING NEWS\nStay indoors  ", nil }}
	res, err := NewOCRService(llm, testRetry()).Extract(context.Background(), "aGk=", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "BREAKING NEWS\nStay indoors", res.Text)
	assert.Equal(t, 0.85, res.Confidence)
	require.NotNil(t, llm.reqs[0].Image)
	assert.Equal(t, "image/png", llm.reqs[0].Image.MimeType)
	assert.False(t, llm.reqs[0].JSONSchema)
}

func TestOCRNoText(t *testing.T) {
	for _, reply := range []string{"NO_TEXT_FOUND", "   "} {
		llm := &fakeLLM{respond: func(int, LLMRequest) (string, error) { return reply, nil }}
		res, err := NewOCRService(llm, testRetry()).Extract(context.Background(), "aGk=", "image/png")
		assert.ErrorIs(t, err, ErrNoText)
		assert.Equal(t, "No text found in the image", res.Error)
		assert.Zero(t, res.Confidence)
	}
}

func TestOCRRequiresImage(t *testing.T) {
	llm := &fakeLLM{}
	_, err := NewOCRService(llm, testRetry()).Extract(context.Background(), "", "image/png")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Zero(t, llm.callCount())
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct{ in, code, name string }{
		{"hi", "hi", "Hindi"},
		{"ta-IN", "ta", "Tamil"},
		{"pa", "pa", "Punjabi"},
		{"en", "en", "English"},
		{"fr", "en", "English"},
		{"", "en", "English"},
		{"???", "en", "English"},
	}
	for _, tt := range tests {
		code, name := ResolveLanguage(tt.in)
		assert.Equal(t, tt.code, code, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
	}
}

func TestRateLimitTracker(t *testing.T) {
	tr := NewRateLimitTracker()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return base }

	h := http.Header{}
	h.Set("X-Ratelimit-Limit-Requests", "30")
	h.Set("X-Ratelimit-Remaining-Requests", "29")
	h.Set("X-Ratelimit-Reset-Requests", "2s")
	tr.Update("openai", h, http.StatusOK)
	tr.Update("gemini", nil, http.StatusTooManyRequests)

	tr.now = func() time.Time { return base.Add(90 * time.Second) }
	snap := tr.Snapshot()

	require.Contains(t, snap, "openai")
	assert.Equal(t, 30, snap["openai"].LimitRequests)
	assert.Equal(t, 29, snap["openai"].RemainingRequests)
	assert.Equal(t, -1, snap["openai"].LimitTokens)
	require.NotNil(t, snap["openai"].ResetRequestsAt)
	assert.Equal(t, base.Add(2*time.Second).UnixMilli(), *snap["openai"].ResetRequestsAt)
	assert.Equal(t, "1m ago", snap["openai"].UpdatedAgo)

	assert.True(t, snap["gemini"].Throttled)
	assert.Equal(t, -1, snap["gemini"].RemainingRequests)
}
