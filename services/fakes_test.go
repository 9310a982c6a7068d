package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grlcodee/credify.ai/models"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]SearchHit
	errs    map[string]error
	all     []SearchHit
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ SearchOptions) ([]SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	if hits, ok := f.results[query]; ok {
		return hits, nil
	}
	return f.all, nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	reqs    []LLMRequest
	respond func(call int, req LLMRequest) (string, error)
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Generate(ctx context.Context, req LLMRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.respond(call, req)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeFetcher struct {
	pages map[string]string
	err   error
	calls int
}

func (f *fakeFetcher) FetchHTML(_ context.Context, url string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	page, ok := f.pages[url]
	if !ok {
		return "", newError(KindFetchFailure, "fetch", fmt.Errorf("no page for %s", url))
	}
	return page, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

// testRetry never sleeps and has no jitter.
func testRetry() RetryPolicy {
	p := DefaultRetryPolicy(time.Second, 3)
	p.Sleep = noSleep
	p.Jitter = func(time.Duration) time.Duration { return 0 }
	return p
}

func sequentialRunner(s Searcher) *QueryRunner {
	r := NewQueryRunner(s, Sequential)
	r.sleep = noSleep
	return r
}

func validOutput(verdict models.Verdict, score int) models.AnalysisOutput {
	return models.AnalysisOutput{
		CredibilityScore:    score,
		FactCheckVerdict:    verdict,
		VerifiedSummary:     "summary",
		EvidenceSources:     []string{},
		BiasEmotionAnalysis: "neutral reporting",
		EmotionBiasProfile: models.EmotionBiasProfile{
			SentenceLevelAnalysis: []models.SentenceAnalysis{
				{Sentence: "The claim.", Emotion: "neutral", BiasType: "none"},
			},
			ArticleLevelSummary: models.ArticleSummary{
				DominantEmotion:     "neutral",
				EmotionDistribution: models.EmotionDistribution{Neutral: 100},
				DominantBiasType:    "none",
				BiasDistribution:    models.BiasDistribution{None: 100},
			},
		},
		AIGenerationIndicators: []string{},
	}
}

func outputJSON(t *testing.T, out models.AnalysisOutput) string {
	t.Helper()
	data, err := json.Marshal(out)
	require.NoError(t, err)
	return string(data)
}
