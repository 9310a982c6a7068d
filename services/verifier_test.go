package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grlcodee/credify.ai/config"
	"github.com/grlcodee/credify.ai/models"
)

func newTestVerifier(s Searcher) *Verifier {
	return NewVerifier(NewQueryRunner(s, Parallel), config.DefaultRiskRules().ContradictionTerms)
}

func TestVerifyCountsContradictions(t *testing.T) {
	s := &fakeSearcher{all: []SearchHit{
		{URL: "https://1", Title: "Claim DEBUNKED by experts"},
		{URL: "https://2", Title: "Officials", Content: "The story is fake"},
		{URL: "https://3", Title: "Neutral coverage"},
	}}
	ver := newTestVerifier(s).Verify(context.Background(), "claim")

	assert.Equal(t, 4, s.callCount())
	assert.Equal(t, 12, ver.SourceCount)
	assert.Equal(t, 8, ver.ContradictoryCount)
	assert.True(t, ver.ContradictoryEvidence)
	assert.Equal(t, "verified", ver.Reliability)
	require.Len(t, ver.Sources, 3)
	assert.Equal(t, "https://1", ver.Sources[0].URL)
}

func TestVerifyReliability(t *testing.T) {
	empty := newTestVerifier(&fakeSearcher{}).Verify(context.Background(), "claim")
	assert.Equal(t, "unverified", empty.Reliability)
	assert.False(t, empty.ContradictoryEvidence)
	assert.Equal(t, []models.VerificationSource{}, empty.Sources)

	q := BuildQueries("claim")
	errs := map[string]error{}
	for _, query := range q {
		errs[query] = errors.New("down")
	}
	failed := newTestVerifier(&fakeSearcher{errs: errs}).Verify(context.Background(), "claim")
	assert.Equal(t, "unknown", failed.Reliability)
	assert.Zero(t, failed.SourceCount)
}

func TestBuildAlert(t *testing.T) {
	item := models.TrendingItem{Title: "t", Claim: "t", Link: "https://news/1", Platform: "Google News"}

	tests := []struct {
		name          string
		risk          int
		alertType     models.AlertType
		contradictory bool
		create        bool
		severity      models.Severity
		reason        string
	}{
		{"below threshold", 60, models.AlertGeneral, false, false, "", ""},
		{"medium", 65, models.AlertRumorPattern, false, true, models.SeverityMedium, "Rumor pattern detected"},
		{"high", 85, models.AlertSensitiveRumor, false, true, models.SeverityHigh, "Sensitive topic + Rumor pattern detected"},
		{"contradiction only", 50, models.AlertGeneral, true, true, models.SeverityLow, "Contradictory evidence found"},
		{"critical with contradiction", 95, models.AlertCriticalMisinfoSpike, true, true, models.SeverityHigh, "Contradictory evidence found"},
		{"volume", 65, models.AlertVolumeSpike, false, true, models.SeverityMedium, "Volume spike detected"},
		{"general", 70, models.AlertGeneral, false, true, models.SeverityMedium, "Multiple risk factors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := item
			it.RiskLevel = tt.risk
			it.AlertType = tt.alertType
			alert, ok := BuildAlert(it, models.Verification{ContradictoryEvidence: tt.contradictory})
			assert.Equal(t, tt.create, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.severity, alert.Severity)
			assert.Equal(t, tt.reason, alert.Reason)
			assert.Equal(t, []string{"Google News"}, alert.Platforms)
			assert.Equal(t, "https://news/1", alert.Source)
			require.NotNil(t, alert.Verification)
		})
	}
}
