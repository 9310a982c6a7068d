package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxPageBytes     = 5 << 20
)

// ContentFetcher downloads pages with a browser user agent and a bounded
// timeout. Bodies are transcoded to UTF-8.
type ContentFetcher struct {
	client *http.Client
}

func NewContentFetcher(timeout time.Duration) *ContentFetcher {
	if timeout <= 0 || timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	return &ContentFetcher{client: &http.Client{Timeout: timeout}}
}

// FetchHTML returns the page body. Non-2xx statuses are reported as a
// FetchFailure so callers can fall back.
func (f *ContentFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	log.Printf("[FETCHER] 🌐 GET %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", newError(KindFetchFailure, "fetch", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("[FETCHER] ❌ %s: %v", url, err)
		return "", newError(KindFetchFailure, "fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[FETCHER] ⚠ %s returned status %d", url, resp.StatusCode)
		return "", newError(KindFetchFailure, "fetch", fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", newError(KindFetchFailure, "fetch", err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", newError(KindFetchFailure, "fetch", err)
	}

	log.Printf("[FETCHER] ✓ %d bytes from %s", len(data), url)
	return string(data), nil
}

// collapseWhitespace joins words with single spaces. Unicode spaces such as
// &nbsp; count as separators.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
