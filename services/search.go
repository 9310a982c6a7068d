package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
)

type SearchDepth string

const (
	DepthBasic    SearchDepth = "basic"
	DepthAdvanced SearchDepth = "advanced"
)

type SearchOptions struct {
	MaxResults int
	Depth      SearchDepth
}

// SearchHit is one web result. Score is the provider's relevance, higher is
// better.
type SearchHit struct {
	URL     string
	Title   string
	Content string
	Score   float64
}

// Searcher is a web search provider.
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchHit, error)
}

// LimitedSearcher throttles a provider and bounds every call with a
// deadline. Deadline expiry while the caller is still waiting is reported as
// Timeout.
type LimitedSearcher struct {
	next    Searcher
	limiter *rate.Limiter
	timeout time.Duration
}

func NewLimitedSearcher(next Searcher, rps float64, timeout time.Duration) *LimitedSearcher {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	return &LimitedSearcher{next: next, limiter: rate.NewLimiter(limit, burst), timeout: timeout}
}

func (s *LimitedSearcher) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchHit, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, newError(KindSearchQueryFailure, "search", err)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	hits, err := s.next.Search(callCtx, query, opts)
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, newError(KindTimeout, "search", fmt.Errorf("query %q exceeded %s", query, s.timeout))
		}
		return nil, err
	}
	return hits, nil
}

// MultiSearcher queries every provider and concatenates their hits. A
// provider failure is logged and skipped; the call fails only when all
// providers fail.
type MultiSearcher struct {
	searchers []Searcher
}

func NewMultiSearcher(searchers ...Searcher) *MultiSearcher {
	return &MultiSearcher{searchers: searchers}
}

func (m *MultiSearcher) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchHit, error) {
	var (
		all     []SearchHit
		lastErr error
		failed  int
	)
	for _, s := range m.searchers {
		hits, err := s.Search(ctx, query, opts)
		if err != nil {
			log.Printf("[SEARCH] ⚠ provider failed for %q: %v", query, err)
			lastErr = err
			failed++
			continue
		}
		all = append(all, hits...)
	}
	if len(m.searchers) > 0 && failed == len(m.searchers) {
		return nil, lastErr
	}
	return all, nil
}
