package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/grlcodee/credify.ai/models"
)

const feedPlatform = "Google News"

// FeedSource yields the current trending items.
type FeedSource interface {
	Fetch(ctx context.Context) ([]models.TrendingItem, error)
}

// RSSFeed reads an RSS or Atom feed with gofeed.
type RSSFeed struct {
	url    string
	limit  int
	parser *gofeed.Parser
	now    func() time.Time
}

func NewRSSFeed(url string, limit int, timeout time.Duration) *RSSFeed {
	if limit <= 0 {
		limit = 10
	}
	p := gofeed.NewParser()
	p.UserAgent = browserUserAgent
	p.Client = &http.Client{Timeout: timeout}
	return &RSSFeed{url: url, limit: limit, parser: p, now: time.Now}
}

func (f *RSSFeed) Fetch(ctx context.Context) ([]models.TrendingItem, error) {
	log.Printf("[TRENDING] 📡 Fetching feed %s", f.url)
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := feed.Items
	if len(entries) > f.limit {
		entries = entries[:f.limit]
	}

	items := make([]models.TrendingItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, f.toItem(e))
	}
	log.Printf("[TRENDING] ✓ %d items from %q", len(items), feed.Title)
	return items, nil
}

func (f *RSSFeed) toItem(e *gofeed.Item) models.TrendingItem {
	content := stripHTML(e.Description)
	if content == "" {
		content = stripHTML(e.Content)
	}

	ts := f.now()
	if e.PublishedParsed != nil {
		ts = *e.PublishedParsed
	}

	return models.TrendingItem{
		ID:        "gn-" + e.GUID,
		Title:     e.Title,
		Content:   content,
		Link:      e.Link,
		Platform:  feedPlatform,
		Timestamp: ts.UnixMilli(),
	}
}

// stripHTML returns the visible text of an HTML fragment.
func stripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return collapseWhitespace(doc.Text())
}
