package services

import (
	"context"
	"log"
	"strings"

	"github.com/grlcodee/credify.ai/models"
)

const (
	verifyPerQuery        = 3
	verificationSources   = 3
	contradictionRequired = 2
	alertRiskThreshold    = 60
	highSeverityThreshold = 80
)

// Verifier searches for independent coverage of a trending claim and counts
// contradicting results.
type Verifier struct {
	runner *QueryRunner
	terms  []string
}

func NewVerifier(runner *QueryRunner, contradictionTerms []string) *Verifier {
	return &Verifier{runner: runner, terms: contradictionTerms}
}

// Verify never fails. Failed queries contribute no results.
func (v *Verifier) Verify(ctx context.Context, claim string) models.Verification {
	results := v.runner.Run(ctx, BuildQueries(claim), SearchOptions{MaxResults: verifyPerQuery, Depth: DepthBasic})

	var hits []SearchHit
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		hits = append(hits, r.Hits...)
	}

	ver := models.Verification{SourceCount: len(hits), Sources: []models.VerificationSource{}}
	for _, h := range hits {
		if v.contradicts(h) {
			ver.ContradictoryCount++
		}
	}
	ver.ContradictoryEvidence = ver.ContradictoryCount >= contradictionRequired

	switch {
	case failed == len(results):
		ver.Reliability = "unknown"
	case ver.SourceCount > 0:
		ver.Reliability = "verified"
	default:
		ver.Reliability = "unverified"
	}

	for i, h := range hits {
		if i == verificationSources {
			break
		}
		ver.Sources = append(ver.Sources, models.VerificationSource{Title: h.Title, URL: h.URL, Score: h.Score})
	}

	log.Printf("[VERIFIER] ✓ %q: %d sources, %d contradicting (%s)", truncate(claim, 60), ver.SourceCount, ver.ContradictoryCount, ver.Reliability)
	return ver
}

func (v *Verifier) contradicts(h SearchHit) bool {
	text := strings.ToLower(h.Title + " " + h.Content)
	for _, term := range v.terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// BuildAlert materializes an alert for a scored item, or returns false when
// the item is below the alert threshold.
func BuildAlert(item models.TrendingItem, ver models.Verification) (models.Alert, bool) {
	if item.RiskLevel <= alertRiskThreshold && !ver.ContradictoryEvidence {
		return models.Alert{}, false
	}

	severity := models.SeverityLow
	switch {
	case item.RiskLevel > highSeverityThreshold:
		severity = models.SeverityHigh
	case item.RiskLevel > alertRiskThreshold:
		severity = models.SeverityMedium
	}

	verification := ver
	return models.Alert{
		Claim:        item.Claim,
		Title:        item.Title,
		RiskLevel:    item.RiskLevel,
		Type:         item.AlertType,
		Reason:       alertReason(item.AlertType, ver.ContradictoryEvidence),
		Platforms:    []string{item.Platform},
		Source:       item.Link,
		Verification: &verification,
		Severity:     severity,
	}, true
}

func alertReason(t models.AlertType, contradictory bool) string {
	var parts []string
	if contradictory {
		parts = append(parts, "Contradictory evidence found")
	}
	typ := string(t)
	if strings.Contains(typ, "VOLUME") {
		parts = append(parts, "Volume spike detected")
	}
	if strings.Contains(typ, "SENSITIVE") {
		parts = append(parts, "Sensitive topic")
	}
	if strings.Contains(typ, "RUMOR") {
		parts = append(parts, "Rumor pattern detected")
	}
	if len(parts) == 0 {
		return "Multiple risk factors"
	}
	return strings.Join(parts, " + ")
}
