package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/grlcodee/credify.ai/models"
)

// PageFetcher is the subset of ContentFetcher the normalizer needs.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

type InputKind string

const (
	InputText    InputKind = "text"
	InputArticle InputKind = "article"
	InputVideo   InputKind = "video"
)

// Normalized is the analyzable text plus the claim used to seed research.
type Normalized struct {
	Kind      InputKind
	Content   string
	Claim     string
	SourceURL string
	Fetched   bool
}

const (
	claimWords         = 50
	maxClaimChars      = 300
	minArticleChars    = 100
	minMainChars       = 100
	minVideoMetaChars  = 50
	minTitleChars      = 8
	maxVideoDescChars  = 200
	stripSelectors     = "script, style, noscript, iframe, img, svg, header, footer, nav, aside"
	mainContentChoices = "main, article, #main, #content, .post, .article-body, .entry-content"
)

var videoHosts = []string{"youtube.com", "youtu.be", "vimeo.com"}

type Normalizer struct {
	fetcher PageFetcher
}

func NewNormalizer(fetcher PageFetcher) *Normalizer {
	return &Normalizer{fetcher: fetcher}
}

// Normalize turns raw input into content and claim. It returns an
// EmptyContent error before any network call when the input is blank.
func (n *Normalizer) Normalize(ctx context.Context, input models.AnalysisInput) (*Normalized, error) {
	raw := strings.TrimSpace(input.Content)
	if raw == "" {
		return nil, newError(KindEmptyContent, "normalize", fmt.Errorf("input content is empty"))
	}

	var out *Normalized
	if u, ok := parseWebURL(raw); ok {
		if isVideoURL(u) {
			log.Printf("[NORMALIZER] 🎬 Video URL: %s", raw)
			out = n.normalizeVideo(ctx, raw, u)
		} else {
			log.Printf("[NORMALIZER] 📰 Article URL: %s", raw)
			out = n.normalizeArticle(ctx, raw)
		}
	} else {
		log.Printf("[NORMALIZER] 📝 Plain text (%d chars)", len(raw))
		out = &Normalized{Kind: InputText, Content: input.Content, Claim: FirstWords(raw, claimWords)}
	}

	if strings.TrimSpace(out.Content) == "" {
		return nil, newError(KindEmptyContent, "normalize", fmt.Errorf("no analyzable text could be extracted"))
	}
	return out, nil
}

// parseWebURL accepts absolute http(s) URLs with a host and no spaces.
func parseWebURL(s string) (*url.URL, bool) {
	if strings.ContainsAny(s, " \t\n\r") {
		return nil, false
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}

func isVideoURL(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	for _, h := range videoHosts {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

func isYouTube(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}

// FirstWords returns the first n whitespace-separated tokens joined by a
// single space.
func FirstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

var (
	ytTitleRe   = regexp.MustCompile(`"title":"([^"]+)"`)
	ytDescRe    = regexp.MustCompile(`"description":"([^"]+)"`)
	ytViewsRe   = regexp.MustCompile(`"viewCount":"(\d+)"`)
	ytChannelRe = regexp.MustCompile(`"channelId":"([^"]+)"`)
)

func (n *Normalizer) normalizeVideo(ctx context.Context, raw string, u *url.URL) *Normalized {
	meta := n.videoMetadata(ctx, raw, u)
	return &Normalized{
		Kind:      InputVideo,
		Content:   meta,
		Claim:     truncate(meta, maxClaimChars),
		SourceURL: raw,
		Fetched:   meta != videoFallback(raw),
	}
}

func videoFallback(raw string) string {
	return "Video URL: " + raw
}

func (n *Normalizer) videoMetadata(ctx context.Context, raw string, u *url.URL) string {
	page, err := n.fetcher.FetchHTML(ctx, raw)
	if err != nil {
		return videoFallback(raw)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return videoFallback(raw)
	}

	var b strings.Builder
	b.WriteString("Video URL: " + raw + "\n")

	if isYouTube(u) {
		if m := ytTitleRe.FindStringSubmatch(page); m != nil {
			b.WriteString("Title: " + m[1] + "\n")
		}
		if m := ytDescRe.FindStringSubmatch(page); m != nil {
			b.WriteString("Description: " + truncate(m[1], maxVideoDescChars) + "\n")
		}
		if m := ytViewsRe.FindStringSubmatch(page); m != nil {
			b.WriteString("Views: " + m[1] + "\n")
		}
		if m := ytChannelRe.FindStringSubmatch(page); m != nil {
			b.WriteString("Channel ID: " + m[1] + "\n")
		}
		if desc := metaContent(doc, `meta[name="description"]`); desc != "" {
			b.WriteString("Meta Description: " + desc + "\n")
		}
	} else {
		title := metaContent(doc, `meta[property="og:title"]`)
		if title == "" {
			title = doc.Find("title").First().Text()
		}
		desc := metaContent(doc, `meta[property="og:description"]`)
		if desc == "" {
			desc = metaContent(doc, `meta[name="description"]`)
		}
		if title != "" {
			b.WriteString("Title: " + title + "\n")
		}
		if desc != "" {
			b.WriteString("Description: " + desc + "\n")
		}
		if d := metaContent(doc, `meta[itemprop="duration"]`); d != "" {
			b.WriteString("Duration: " + d + "\n")
		}
	}

	meta := b.String()
	if len([]rune(meta)) <= minVideoMetaChars {
		return videoFallback(raw)
	}
	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return v
}

func (n *Normalizer) normalizeArticle(ctx context.Context, raw string) *Normalized {
	fallback := &Normalized{
		Kind:      InputArticle,
		Content:   fmt.Sprintf("Could not retrieve content from URL: %s. Please analyze the URL itself.", raw),
		Claim:     raw,
		SourceURL: raw,
	}

	page, err := n.fetcher.FetchHTML(ctx, raw)
	if err != nil {
		log.Printf("[NORMALIZER] ⚠ Using placeholder for %s: %v", raw, err)
		return fallback
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return fallback
	}

	// the title is read before stripping, headers often hold the only <h1>
	title := articleTitle(doc)

	text := articleText(doc)
	if len([]rune(text)) < minArticleChars {
		log.Printf("[NORMALIZER] ⚠ Only %d usable chars at %s", len([]rune(text)), raw)
		return fallback
	}

	out := &Normalized{
		Kind:      InputArticle,
		Content:   text,
		Claim:     FirstWords(text, claimWords),
		SourceURL: raw,
		Fetched:   true,
	}
	if title != "" {
		out.Claim = title
	}
	log.Printf("[NORMALIZER] ✓ Article text %d chars, claim %q", len([]rune(text)), truncate(out.Claim, 80))
	return out
}

func articleText(doc *goquery.Document) string {
	doc.Find(stripSelectors).Remove()

	main := doc.Find(mainContentChoices).First().Text()
	if len([]rune(strings.TrimSpace(main))) > minMainChars {
		return collapseWhitespace(main)
	}
	return collapseWhitespace(doc.Find("body").Text())
}

// articleTitle prefers og:title, then twitter:title, <title>, first <h1>.
func articleTitle(doc *goquery.Document) string {
	candidates := []string{
		metaContent(doc, `meta[property="og:title"]`),
		metaContent(doc, `meta[name="twitter:title"]`),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		title := collapseWhitespace(c)
		if len([]rune(title)) > minTitleChars {
			return truncate(title, maxClaimChars)
		}
		return ""
	}
	return ""
}
