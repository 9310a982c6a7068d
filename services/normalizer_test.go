package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grlcodee/credify.ai/models"
)

var longBody = strings.Repeat("Officials confirmed the bridge reopened after inspection. ", 10)

func TestNormalizePlainTextClaimIsFirstFiftyTokens(t *testing.T) {
	words := make([]string, 80)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	text := strings.Join(words, "  \n ")

	fetcher := &fakeFetcher{}
	n := NewNormalizer(fetcher)
	out, err := n.Normalize(context.Background(), models.AnalysisInput{Content: text})
	require.NoError(t, err)

	assert.Equal(t, InputText, out.Kind)
	assert.Equal(t, strings.Join(words[:50], " "), out.Claim)
	assert.Equal(t, text, out.Content)
	assert.Zero(t, fetcher.calls)
}

func TestNormalizeEmptyContent(t *testing.T) {
	fetcher := &fakeFetcher{}
	_, err := NewNormalizer(fetcher).Normalize(context.Background(), models.AnalysisInput{Content: " \n\t "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyContent))
	assert.Zero(t, fetcher.calls)
}

func TestNormalizeVideoNeverExtractsMainContent(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc123"
	page := `<html><head><meta name="description" content="A video about bridges"></head><body>
		<script>var d = {"title":"Bridge collapse footage","viewCount":"12345","channelId":"UC42"};</script>
		<article>` + longBody + `</article></body></html>`

	out, err := NewNormalizer(&fakeFetcher{pages: map[string]string{url: page}}).
		Normalize(context.Background(), models.AnalysisInput{Content: url})
	require.NoError(t, err)

	assert.Equal(t, InputVideo, out.Kind)
	assert.True(t, strings.HasPrefix(out.Content, "Video URL: "+url+"\n"))
	assert.Contains(t, out.Content, "Title: Bridge collapse footage")
	assert.Contains(t, out.Content, "Views: 12345")
	assert.Contains(t, out.Content, "Channel ID: UC42")
	assert.Contains(t, out.Content, "Meta Description: A video about bridges")
	assert.NotContains(t, out.Content, "Officials confirmed")
	assert.LessOrEqual(t, len([]rune(out.Claim)), 300)
}

func TestNormalizeVideoFallback(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
	}{
		{"fetch failure", &fakeFetcher{err: errors.New("boom")}},
		{"sparse metadata", &fakeFetcher{pages: map[string]string{"https://vimeo.com/1": "<html><body>" + longBody + "</body></html>"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewNormalizer(tt.fetcher).Normalize(context.Background(), models.AnalysisInput{Content: "https://vimeo.com/1"})
			require.NoError(t, err)
			assert.Equal(t, "Video URL: https://vimeo.com/1", out.Content)
			assert.Equal(t, out.Content, out.Claim)
		})
	}
}

func TestNormalizeArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/story":
			fmt.Fprintf(w, `<html><head>
				<meta property="og:title" content="  Bridge   reopens after repairs ">
				<title>Site name</title><style>.x{}</style></head>
				<body><nav>Home News Sport</nav><header><h1>Header</h1></header>
				<main>%s</main><footer>Copyright</footer><script>track()</script></body></html>`, longBody)
		case "/short":
			fmt.Fprint(w, `<html><body><p>Too short.</p></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	n := NewNormalizer(NewContentFetcher(5 * time.Second))

	t.Run("extracts main content and title", func(t *testing.T) {
		out, err := n.Normalize(context.Background(), models.AnalysisInput{Content: srv.URL + "/story"})
		require.NoError(t, err)
		assert.Equal(t, InputArticle, out.Kind)
		assert.True(t, out.Fetched)
		assert.Equal(t, "Bridge reopens after repairs", out.Claim)
		assert.Contains(t, out.Content, "Officials confirmed the bridge reopened")
		assert.NotContains(t, out.Content, "Home News Sport")
		assert.NotContains(t, out.Content, "track()")
		assert.NotContains(t, out.Content, "Copyright")
	})

	for _, path := range []string{"/short", "/missing"} {
		t.Run("placeholder for "+path, func(t *testing.T) {
			url := srv.URL + path
			out, err := n.Normalize(context.Background(), models.AnalysisInput{Content: url})
			require.NoError(t, err)
			assert.Equal(t, "Could not retrieve content from URL: "+url+". Please analyze the URL itself.", out.Content)
			assert.Equal(t, url, out.Claim)
			assert.False(t, out.Fetched)
		})
	}
}

func TestArticleClaimFallsBackToFirstWords(t *testing.T) {
	url := "https://news.example.com/a"
	page := "<html><head><title>Short</title></head><body><article>" + longBody + "</article></body></html>"
	out, err := NewNormalizer(&fakeFetcher{pages: map[string]string{url: page}}).
		Normalize(context.Background(), models.AnalysisInput{Content: url})
	require.NoError(t, err)
	assert.Equal(t, FirstWords(longBody, 50), out.Claim)
}

func TestParseWebURL(t *testing.T) {
	for in, want := range map[string]bool{
		"https://example.com/a":     true,
		"http://example.com":        true,
		"ftp://example.com/file":    false,
		"example.com":               false,
		"https://":                  false,
		"see https://example.com/a": false,
	} {
		_, ok := parseWebURL(in)
		assert.Equal(t, want, ok, in)
	}
}
