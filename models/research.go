package models

type ResearchSource struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

type ResearchResult struct {
	Sources           []ResearchSource `json:"sources"`
	TotalSourcesFound int              `json:"totalSourcesFound"`
	SearchQueries     []string         `json:"searchQueries"`
}

// URLs returns up to limit source URLs in ranked order.
func (r ResearchResult) URLs(limit int) []string {
	n := len(r.Sources)
	if limit >= 0 && limit < n {
		n = limit
	}
	urls := make([]string, 0, n)
	for _, s := range r.Sources[:n] {
		urls = append(urls, s.URL)
	}
	return urls
}
