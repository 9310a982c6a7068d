package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

const serperEndpoint = "https://google.serper.dev/search"

// SerperClient searches Google through serper.dev. Serper returns no
// relevance score, so hits are scored by rank.
type SerperClient struct {
	apiKey   string
	endpoint string
	gl, hl   string
	client   *http.Client
}

type serperRequest struct {
	Q   string `json:"q"`
	Gl  string `json:"gl,omitempty"`
	Hl  string `json:"hl,omitempty"`
	Num int    `json:"num,omitempty"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic"`
	News    []serperResult `json:"news"`
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
}

func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{apiKey: apiKey, endpoint: serperEndpoint, gl: "in", hl: "en", client: &http.Client{}}
}

func (s *SerperClient) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchHit, error) {
	log.Printf("[SERPER] 🔍 %q (max=%d)", query, opts.MaxResults)

	jsonData, err := json.Marshal(serperRequest{Q: query, Gl: s.gl, Hl: s.hl, Num: opts.MaxResults})
	if err != nil {
		return nil, fmt.Errorf("marshal serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create serper request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read serper response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse serper response: %w", err)
	}

	results := append(parsed.Organic, parsed.News...)
	if opts.MaxResults > 0 && len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}

	hits := make([]SearchHit, 0, len(results))
	for i, r := range results {
		content := r.Snippet
		if r.Date != "" {
			content = r.Date + " - " + content
		}
		hits = append(hits, SearchHit{
			URL:     r.Link,
			Title:   r.Title,
			Content: content,
			Score:   1 - float64(i)/float64(len(results)),
		})
	}
	log.Printf("[SERPER] ✓ %d results", len(hits))
	return hits, nil
}
