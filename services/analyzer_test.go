package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grlcodee/credify.ai/models"
)

// evidenceModel answers like a model that follows the verdict guidelines:
// two or more debunking sources give False with a low score.
func evidenceModel(t *testing.T) *fakeLLM {
	return &fakeLLM{respond: func(_ int, req LLMRequest) (string, error) {
		if strings.Count(strings.ToLower(req.Prompt), "debunk") >= 2 {
			return outputJSON(t, validOutput(models.VerdictFalse, 8)), nil
		}
		return outputJSON(t, validOutput(models.VerdictNotEnough, 50)), nil
	}}
}

func newTestAnalyzer(s Searcher, llm LLMClient) *AnalyzerService {
	return NewAnalyzerService(
		NewNormalizer(&fakeFetcher{}),
		NewResearchAgent(sequentialRunner(s)),
		NewReasoner(llm, testRetry()),
	)
}

func TestAnalyzeMoonLandingHoax(t *testing.T) {
	s := &fakeSearcher{all: []SearchHit{
		{URL: "https://nasa.gov/apollo", Title: "Apollo 11 debunk of hoax claims", Content: "Moon landing hoax theories debunked.", Score: 0.9},
		{URL: "https://factcheck.org/moon", Title: "Fact check: moon landing was real", Content: "Experts debunk the conspiracy.", Score: 0.8},
		{URL: "https://history.com/apollo", Title: "Apollo program history", Content: "Six crewed landings.", Score: 0.7},
	}}
	llm := evidenceModel(t)

	var progress []string
	out, err := newTestAnalyzer(s, llm).Analyze(context.Background(),
		models.AnalysisInput{Content: "The moon landing was faked"},
		func(msg string) { progress = append(progress, msg) })
	require.NoError(t, err)

	assert.Equal(t, models.VerdictFalse, out.FactCheckVerdict)
	assert.GreaterOrEqual(t, out.CredibilityScore, 0)
	assert.LessOrEqual(t, out.CredibilityScore, 30)
	assert.Equal(t, []string{"https://nasa.gov/apollo", "https://factcheck.org/moon", "https://history.com/apollo"}, out.EvidenceSources)
	assert.Equal(t, 4, s.callCount())
	assert.Equal(t, 1, llm.callCount())
	assert.NotEmpty(t, progress)
}

func TestAnalyzeEmptyInputFailsBeforeAnyCall(t *testing.T) {
	s := &fakeSearcher{}
	llm := evidenceModel(t)
	for _, content := range []string{"", "   \n\t"} {
		_, err := newTestAnalyzer(s, llm).Analyze(context.Background(), models.AnalysisInput{Content: content}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyContent))
	}
	assert.Zero(t, s.callCount())
	assert.Zero(t, llm.callCount())
}

func TestAnalyzeRejectsHalfImage(t *testing.T) {
	_, err := newTestAnalyzer(&fakeSearcher{}, evidenceModel(t)).Analyze(context.Background(),
		models.AnalysisInput{Content: "x", Image: &models.ImagePayload{Base64: "aGk="}}, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestAnalyzePaused(t *testing.T) {
	a := newTestAnalyzer(&fakeSearcher{}, evidenceModel(t))
	a.IsPaused.Store(true)
	_, err := a.Analyze(context.Background(), models.AnalysisInput{Content: "x"}, nil)
	assert.ErrorIs(t, err, ErrPaused)
}

func TestAnalyzeReasonerFailureIsAnalysisFailure(t *testing.T) {
	llm := &fakeLLM{respond: func(int, LLMRequest) (string, error) { return "not json", nil }}
	_, err := newTestAnalyzer(&fakeSearcher{}, llm).Analyze(context.Background(), models.AnalysisInput{Content: "claim"}, nil)
	require.Error(t, err)
	assert.Equal(t, KindAnalysisFailure, KindOf(err))
}

type memoryVerdictCache struct {
	mu   sync.Mutex
	data map[string]*models.AnalysisOutput
}

func (c *memoryVerdictCache) Get(_ context.Context, key string) (*models.AnalysisOutput, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, ok := c.data[key]
	return out, ok
}

func (c *memoryVerdictCache) Set(_ context.Context, key string, out *models.AnalysisOutput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = out
}

type recordingRecorder struct {
	logged  []string
	domains []string
}

func (r *recordingRecorder) LogAnalysis(_ context.Context, content, _ string, _ *models.AnalysisOutput) error {
	r.logged = append(r.logged, content)
	return nil
}

func (r *recordingRecorder) RecordDomainScore(_ context.Context, rawURL string, _ int) error {
	r.domains = append(r.domains, rawURL)
	return nil
}

func TestAnalyzeUsesCacheAndRecorder(t *testing.T) {
	s := &fakeSearcher{}
	llm := evidenceModel(t)
	rec := &recordingRecorder{}
	a := newTestAnalyzer(s, llm).
		WithCache(&memoryVerdictCache{data: map[string]*models.AnalysisOutput{}}).
		WithRecorder(rec)

	in := models.AnalysisInput{Content: "Water boils at 100C at sea level", Language: "hi"}
	first, err := a.Analyze(context.Background(), in, nil)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), in, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, llm.callCount())
	assert.Len(t, rec.logged, 1)
	assert.Empty(t, rec.domains, "plain text has no domain")
	assert.Contains(t, llm.reqs[0].Prompt, "Respond ENTIRELY in Hindi")
}

func TestAnalyzeLanguageInstructionOnlyWhenRequested(t *testing.T) {
	tests := []struct {
		name   string
		input  models.AnalysisInput
		expect string
	}{
		{"none", models.AnalysisInput{Content: "Water is wet"}, ""},
		{"code", models.AnalysisInput{Content: "Water is wet", Language: "hi"}, "Respond ENTIRELY in Hindi"},
		{"unknown code", models.AnalysisInput{Content: "Water is wet", Language: "fr"}, "Respond ENTIRELY in English"},
		{"name", models.AnalysisInput{Content: "Water is wet", LanguageName: "Tamil"}, "Respond ENTIRELY in Tamil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := evidenceModel(t)
			_, err := newTestAnalyzer(&fakeSearcher{}, llm).Analyze(context.Background(), tt.input, nil)
			require.NoError(t, err)
			require.Len(t, llm.reqs, 1)
			if tt.expect == "" {
				assert.NotContains(t, llm.reqs[0].Prompt, "Respond ENTIRELY")
			} else {
				assert.Contains(t, llm.reqs[0].Prompt, tt.expect)
			}
		})
	}
}
