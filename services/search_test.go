package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilySearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "key", req.APIKey)
		assert.Equal(t, "moon landing", req.Query)
		assert.Equal(t, 5, req.MaxResults)
		assert.Equal(t, "advanced", req.SearchDepth)
		w.Write([]byte(`{"results":[{"url":"https://a","title":"A","content":"body","score":0.7}]}`))
	}))
	defer srv.Close()

	c := NewTavilyClient("key")
	c.endpoint = srv.URL
	hits, err := c.Search(context.Background(), "moon landing", SearchOptions{MaxResults: 5, Depth: DepthAdvanced})
	require.NoError(t, err)
	assert.Equal(t, []SearchHit{{URL: "https://a", Title: "A", Content: "body", Score: 0.7}}, hits)
}

func TestTavilyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewTavilyClient("key")
	c.endpoint = srv.URL
	_, err := c.Search(context.Background(), "q", SearchOptions{MaxResults: 1})
	assert.ErrorContains(t, err, "429")
}

func TestSerperSearchScoresByRank(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("X-API-KEY"))
		w.Write([]byte(`{"organic":[{"title":"A","link":"https://a","snippet":"sa"},{"title":"B","link":"https://b","snippet":"sb"}],
			"news":[{"title":"C","link":"https://c","snippet":"sc","date":"1 hour ago"}]}`))
	}))
	defer srv.Close()

	c := NewSerperClient("key")
	c.endpoint = srv.URL
	hits, err := c.Search(context.Background(), "q", SearchOptions{MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Greater(t, hits[1].Score, hits[2].Score)
	assert.Equal(t, "1 hour ago - sc", hits[2].Content)
}

type slowSearcher struct{}

func (slowSearcher) Search(ctx context.Context, _ string, _ SearchOptions) ([]SearchHit, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLimitedSearcherDeadlineIsTimeout(t *testing.T) {
	s := NewLimitedSearcher(slowSearcher{}, 0, 10*time.Millisecond)
	_, err := s.Search(context.Background(), "q", SearchOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestLimitedSearcherPassesThrough(t *testing.T) {
	inner := &fakeSearcher{all: []SearchHit{{URL: "https://a"}}}
	s := NewLimitedSearcher(inner, 100, time.Second)
	for i := 0; i < 3; i++ {
		hits, err := s.Search(context.Background(), "q", SearchOptions{})
		require.NoError(t, err)
		assert.Len(t, hits, 1)
	}
	assert.Equal(t, 3, inner.callCount())
}

func TestFactCheckSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5g covid", r.URL.Query().Get("query"))
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"claims":[
			{"text":"5G spreads covid","claimReview":[{"publisher":{"name":"FactCheck.org"},"url":"https://fc/1","title":"No, 5G does not spread covid","textualRating":"False"}]},
			{"text":"no review"},
			{"text":"Towers cause illness","claimReview":[{"publisher":{"name":"AFP"},"url":"https://fc/2","textualRating":"Misleading"}]}
		]}`))
	}))
	defer srv.Close()

	c := NewFactCheckClient("key")
	c.endpoint = srv.URL
	hits, err := c.Search(context.Background(), "5g covid", SearchOptions{MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "https://fc/1", hits[0].URL)
	assert.Equal(t, "No, 5G does not spread covid (FactCheck.org)", hits[0].Title)
	assert.Equal(t, "Claim: 5G spreads covid. Rating: False.", hits[0].Content)
	assert.Equal(t, 1.0, hits[0].Score)
	assert.Equal(t, "Towers cause illness (AFP)", hits[1].Title)
	assert.Equal(t, 0.5, hits[1].Score)
}

func TestMultiSearcher(t *testing.T) {
	web := &fakeSearcher{all: []SearchHit{{URL: "https://web"}}}
	down := &fakeSearcher{errs: map[string]error{"q": errors.New("down")}}

	hits, err := NewMultiSearcher(web, down).Search(context.Background(), "q", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []SearchHit{{URL: "https://web"}}, hits)

	_, err = NewMultiSearcher(down, down).Search(context.Background(), "q", SearchOptions{})
	assert.EqualError(t, err, "down")
}
