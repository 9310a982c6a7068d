package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
)

const (
	factCheckEndpoint = "https://factchecktools.googleapis.com/v1alpha1/claims:search"
	// published reviews beyond the first few rarely match the claim
	maxFactChecks = 3
)

// FactCheckClient searches published fact checks through the Google Fact
// Check Tools API. Each hit is the first review of a matching claim, scored
// by rank.
type FactCheckClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type factCheckResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			ReviewDate    string `json:"reviewDate"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

func NewFactCheckClient(apiKey string) *FactCheckClient {
	return &FactCheckClient{apiKey: apiKey, endpoint: factCheckEndpoint, client: &http.Client{}}
}

func (c *FactCheckClient) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchHit, error) {
	limit := maxFactChecks
	if opts.MaxResults > 0 && opts.MaxResults < limit {
		limit = opts.MaxResults
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	params.Set("pageSize", strconv.Itoa(limit*2))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create fact check request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fact check request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read fact check response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fact check returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed factCheckResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse fact check response: %w", err)
	}

	var hits []SearchHit
	for _, claim := range parsed.Claims {
		if len(hits) >= limit {
			break
		}
		if len(claim.ClaimReview) == 0 || claim.ClaimReview[0].URL == "" {
			continue
		}
		review := claim.ClaimReview[0]
		title := review.Title
		if title == "" {
			title = claim.Text
		}
		hits = append(hits, SearchHit{
			URL:     review.URL,
			Title:   fmt.Sprintf("%s (%s)", title, review.Publisher.Name),
			Content: fmt.Sprintf("Claim: %s. Rating: %s.", claim.Text, review.TextualRating),
		})
	}
	for i := range hits {
		hits[i].Score = 1 - float64(i)/float64(len(hits))
	}
	log.Printf("[FACT CHECK] ✓ %d reviews for %q", len(hits), query)
	return hits, nil
}
