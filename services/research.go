package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/grlcodee/credify.ai/models"
)

// ExecutionMode controls whether a query set runs one at a time or
// concurrently.
type ExecutionMode string

const (
	Sequential ExecutionMode = "sequential"
	Parallel   ExecutionMode = "parallel"
)

func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch ExecutionMode(strings.ToLower(strings.TrimSpace(s))) {
	case Sequential:
		return Sequential, nil
	case Parallel:
		return Parallel, nil
	}
	return "", fmt.Errorf("unknown execution mode %q", s)
}

const (
	maxQueryClaimRunes = 250
	researchPerQuery   = 5
	researchKeep       = 10
	snippetChars       = 300
	queryDelay         = 300 * time.Millisecond
)

// SanitizeClaim strips control characters, collapses whitespace and caps the
// claim so it is safe to embed in search queries.
func SanitizeClaim(claim string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, claim)
	return truncate(collapseWhitespace(cleaned), maxQueryClaimRunes)
}

// BuildQueries returns the four verification queries for a claim.
func BuildQueries(claim string) []string {
	c := SanitizeClaim(claim)
	return []string{
		c,
		c + " fact check",
		c + " debunk",
		c + " verified news",
	}
}

// QueryResult is the outcome of one query. Err is set when the query failed
// and Hits is then empty.
type QueryResult struct {
	Query string
	Hits  []SearchHit
	Err   error
}

// QueryRunner executes a query set against a Searcher. Results are always
// returned in query order.
type QueryRunner struct {
	searcher Searcher
	mode     ExecutionMode
	delay    time.Duration
	sleep    func(context.Context, time.Duration) error
}

func NewQueryRunner(searcher Searcher, mode ExecutionMode) *QueryRunner {
	r := &QueryRunner{searcher: searcher, mode: mode, sleep: sleepContext}
	if mode == Sequential {
		r.delay = queryDelay
	}
	return r
}

func (r *QueryRunner) Run(ctx context.Context, queries []string, opts SearchOptions) []QueryResult {
	results := make([]QueryResult, len(queries))

	if r.mode == Parallel {
		var wg sync.WaitGroup
		for i, q := range queries {
			wg.Add(1)
			go func(i int, q string) {
				defer wg.Done()
				results[i] = r.runOne(ctx, q, opts)
			}(i, q)
		}
		wg.Wait()
		return results
	}

	for i, q := range queries {
		if i > 0 && r.delay > 0 {
			if err := r.sleep(ctx, r.delay); err != nil {
				for j := i; j < len(queries); j++ {
					results[j] = QueryResult{Query: queries[j], Err: err}
				}
				return results
			}
		}
		results[i] = r.runOne(ctx, q, opts)
	}
	return results
}

func (r *QueryRunner) runOne(ctx context.Context, query string, opts SearchOptions) QueryResult {
	hits, err := r.searcher.Search(ctx, query, opts)
	if err != nil {
		err = newError(KindSearchQueryFailure, "search", err)
		log.Printf("[RESEARCH] ⚠ Query %q failed: %v", query, err)
		return QueryResult{Query: query, Err: err}
	}
	return QueryResult{Query: query, Hits: hits}
}

// ResearchAgent gathers ranked, de-duplicated evidence for a claim.
type ResearchAgent struct {
	runner *QueryRunner
}

func NewResearchAgent(runner *QueryRunner) *ResearchAgent {
	return &ResearchAgent{runner: runner}
}

// Research never fails. When every query fails the result is empty but
// still lists the attempted queries.
func (a *ResearchAgent) Research(ctx context.Context, claim string) models.ResearchResult {
	queries := BuildQueries(claim)
	log.Printf("[RESEARCH] 🔎 Researching %q with %d queries", truncate(queries[0], 80), len(queries))

	results := a.runner.Run(ctx, queries, SearchOptions{MaxResults: researchPerQuery, Depth: DepthAdvanced})

	seen := make(map[string]bool)
	sources := []models.ResearchSource{}
	for _, res := range results {
		for _, hit := range res.Hits {
			if hit.URL == "" || seen[hit.URL] {
				continue
			}
			seen[hit.URL] = true
			sources = append(sources, toResearchSource(hit))
		}
	}

	sort.SliceStable(sources, func(i, j int) bool { return sources[i].Score > sources[j].Score })
	total := len(sources)
	if len(sources) > researchKeep {
		sources = sources[:researchKeep]
	}

	log.Printf("[RESEARCH] ✓ %d unique sources, %d kept", total, len(sources))
	return models.ResearchResult{
		Sources:           sources,
		TotalSourcesFound: total,
		SearchQueries:     queries,
	}
}

func toResearchSource(hit SearchHit) models.ResearchSource {
	title := hit.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	return models.ResearchSource{
		URL:     hit.URL,
		Title:   title,
		Content: hit.Content,
		Snippet: truncate(hit.Content, snippetChars),
		Score:   hit.Score,
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
