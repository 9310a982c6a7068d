package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grlcodee/credify.ai/models"
)

const (
	NewsFeedLimit = 20

	reliableScore = 90
	neutralScore  = 50
	estimateChars = 300
)

var (
	reliableDomains   = []string{"bbc.com", "reuters.com", "apnews.com", "pti.in", "thehindu.com"}
	emotionalKeywords = []string{"outrage", "shocking", "alarming", "fury", "panic", "crisis"}
	leadingNumber     = regexp.MustCompile(`^[+-]?\d+`)
)

// NewsFeed lists current headlines with a quick credibility estimate. Links
// from reliable outlets skip the model; the rest get a single numeric rating.
type NewsFeed struct {
	feed  FeedSource
	llm   LLMClient
	retry RetryPolicy
	now   func() time.Time
}

func NewNewsFeed(feed FeedSource, llm LLMClient, retry RetryPolicy) *NewsFeed {
	return &NewsFeed{feed: feed, llm: llm, retry: retry, now: time.Now}
}

func (n *NewsFeed) Items(ctx context.Context) ([]models.NewsItem, error) {
	entries, err := n.feed.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > NewsFeedLimit {
		entries = entries[:NewsFeedLimit]
	}

	now := n.now()
	items := make([]models.NewsItem, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e models.TrendingItem) {
			defer wg.Done()
			title := e.Title
			if strings.TrimSpace(title) == "" {
				title = "Untitled"
			}
			score := n.estimate(ctx, e)
			items[i] = models.NewsItem{
				ID:        fmt.Sprintf("news-%d-%d", i, now.UnixMilli()),
				Title:     title,
				Score:     score,
				Verdict:   VerdictForScore(score),
				Sentiment: sentimentOf(title),
				Region:    "India",
				Language:  "English",
				Timestamp: relativeTime(now, time.UnixMilli(e.Timestamp)),
				Link:      e.Link,
			}
		}(i, e)
	}
	wg.Wait()

	log.Printf("[NEWSFEED] ✓ %d headlines rated", len(items))
	return items, nil
}

func (n *NewsFeed) estimate(ctx context.Context, e models.TrendingItem) int {
	for _, d := range reliableDomains {
		if strings.Contains(e.Link, d) {
			return reliableScore
		}
	}

	text := truncate(strings.TrimSpace(e.Title+" "+e.Content), estimateChars)
	prompt := "Rate credibility 0-100. Consider: source reliability, sensationalism, factual language. Return ONLY a number.\n\nText: " + text
	raw, err := n.retry.Do(ctx, "newsfeed", func(ctx context.Context) (string, error) {
		return n.llm.Generate(ctx, LLMRequest{Prompt: prompt})
	})
	if err != nil {
		log.Printf("[NEWSFEED] ⚠ Estimate failed for %q: %v", truncate(e.Title, 60), err)
		return neutralScore
	}
	return parseRating(raw)
}

// parseRating reads the leading integer of a model reply, clamped to 0..100.
// Replies without one rate as neutral.
func parseRating(raw string) int {
	m := leadingNumber.FindString(strings.TrimSpace(raw))
	score, err := strconv.Atoi(m)
	if err != nil {
		return neutralScore
	}
	return max(0, min(100, score))
}

func VerdictForScore(score int) models.Verdict {
	switch {
	case score >= 70:
		return models.VerdictTrue
	case score >= 40:
		return models.VerdictMisleading
	default:
		return models.VerdictFalse
	}
}

func sentimentOf(title string) string {
	lower := strings.ToLower(title)
	for _, kw := range emotionalKeywords {
		if strings.Contains(lower, kw) {
			return "Emotional"
		}
	}
	return "Neutral"
}

func relativeTime(now, t time.Time) string {
	mins := int(now.Sub(t) / time.Minute)
	if mins < 1 {
		return "Just now"
	}
	if mins < 60 {
		return fmt.Sprintf("%d min ago", mins)
	}
	hours := mins / 60
	if hours < 24 {
		return plural(hours, "hour") + " ago"
	}
	return plural(hours/24, "day") + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
