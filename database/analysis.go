package database

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/grlcodee/credify.ai/models"
)

// LogAnalysis records a finished verdict. sourceURL is empty for text input.
func (db *DB) LogAnalysis(ctx context.Context, content, sourceURL string, out *models.AnalysisOutput) error {
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	if len([]rune(content)) > 2000 {
		content = string([]rune(content)[:2000])
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO analysis_results (content, url, verdict, score, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		content, sourceURL, string(out.FactCheckVerdict), out.CredibilityScore, string(raw), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("log analysis: %w", err)
	}
	return nil
}

type HistoryItem struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Verdict   string `json:"verdict"`
	Score     int    `json:"score"`
	CreatedAt int64  `json:"created_at"`
}

type Stats struct {
	TotalRequests  int            `json:"total_requests"`
	AverageScore   float64        `json:"average_score"`
	Verdicts       map[string]int `json:"verdicts"`
	RecentRequests []HistoryItem  `json:"recent_requests"`
}

func (db *DB) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Verdicts: map[string]int{}, RecentRequests: []HistoryItem{}}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0) FROM analysis_results`).
		Scan(&stats.TotalRequests, &stats.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT verdict, COUNT(*) FROM analysis_results GROUP BY verdict`)
	if err != nil {
		return nil, fmt.Errorf("group verdicts: %w", err)
	}
	for rows.Next() {
		var verdict string
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			rows.Close()
			return nil, err
		}
		stats.Verdicts[verdict] = n
	}
	rows.Close()

	rows, err = db.QueryContext(ctx,
		`SELECT id, COALESCE(url, ''), verdict, score, created_at
		 FROM analysis_results ORDER BY id DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("recent analyses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item HistoryItem
		if err := rows.Scan(&item.ID, &item.URL, &item.Verdict, &item.Score, &item.CreatedAt); err != nil {
			return nil, err
		}
		stats.RecentRequests = append(stats.RecentRequests, item)
	}
	return stats, rows.Err()
}

// NormalizeDomain extracts the host from a URL, lowercased, without www.
// prefix or port.
func NormalizeDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

type DomainStats struct {
	Domain         string  `json:"domain"`
	TotalAnalyses  int     `json:"total_analyses"`
	AvgScore       float64 `json:"avg_score"`
	Verdict        string  `json:"verdict"`
	LastAnalyzedAt int64   `json:"last_analyzed_at"`
}

// reputation buckets use the same cut-offs as the credibility score bands.
func reputation(avg float64) string {
	switch {
	case avg >= 70:
		return "reliable"
	case avg >= 40:
		return "mixed"
	default:
		return "unreliable"
	}
}

func (db *DB) RecordDomainScore(ctx context.Context, rawURL string, score int) error {
	domain := NormalizeDomain(rawURL)
	if domain == "" {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO domain_stats (domain, total_analyses, sum_scores, last_analyzed_at)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (domain) DO UPDATE SET
			total_analyses   = domain_stats.total_analyses + 1,
			sum_scores       = domain_stats.sum_scores + excluded.sum_scores,
			last_analyzed_at = excluded.last_analyzed_at`,
		domain, score, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record domain %s: %w", domain, err)
	}
	return nil
}

func (db *DB) Domain(ctx context.Context, domain string) (*DomainStats, error) {
	var s DomainStats
	var sum int
	err := db.QueryRowContext(ctx,
		`SELECT domain, total_analyses, sum_scores, last_analyzed_at FROM domain_stats WHERE domain = $1`,
		domain).Scan(&s.Domain, &s.TotalAnalyses, &sum, &s.LastAnalyzedAt)
	if err != nil {
		return nil, err
	}
	s.AvgScore = float64(sum) / float64(s.TotalAnalyses)
	s.Verdict = reputation(s.AvgScore)
	return &s, nil
}

func (db *DB) TopDomains(ctx context.Context, limit int) ([]DomainStats, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT domain, total_analyses, sum_scores, last_analyzed_at
		 FROM domain_stats ORDER BY total_analyses DESC, domain LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []DomainStats{}
	for rows.Next() {
		var s DomainStats
		var sum int
		if err := rows.Scan(&s.Domain, &s.TotalAnalyses, &sum, &s.LastAnalyzedAt); err != nil {
			return nil, err
		}
		s.AvgScore = float64(sum) / float64(s.TotalAnalyses)
		s.Verdict = reputation(s.AvgScore)
		list = append(list, s)
	}
	return list, rows.Err()
}
