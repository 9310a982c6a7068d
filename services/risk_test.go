package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grlcodee/credify.ai/cache"
	"github.com/grlcodee/credify.ai/config"
	"github.com/grlcodee/credify.ai/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDetector() (*VolumeDetector, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	d := NewVolumeDetector(cache.NewMemoryClaimStore(100, time.Hour))
	d.now = clock.now
	return d, clock
}

func TestVolumeSpikeOnFourthSubmission(t *testing.T) {
	d, clock := newTestDetector()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		spike, err := d.Observe(ctx, "Same Claim")
		require.NoError(t, err)
		assert.False(t, spike, "submission %d", i)
		clock.advance(30 * time.Second)
	}
	spike, err := d.Observe(ctx, "  same claim ")
	require.NoError(t, err)
	assert.True(t, spike)
}

func TestVolumeWindowResets(t *testing.T) {
	d, clock := newTestDetector()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := d.Observe(ctx, "claim")
		require.NoError(t, err)
	}
	clock.advance(5*time.Minute + time.Second)

	spike, err := d.Observe(ctx, "claim")
	require.NoError(t, err)
	assert.False(t, spike)
}

func TestRiskScoring(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		content   string
		repeats   int
		risk      int
		alertType models.AlertType
		triggered bool
	}{
		{"plain", "Local team wins match", "Great game", 1, 50, models.AlertGeneral, false},
		{"sensitive", "Election results delayed", "Counting continues", 1, 70, models.AlertGeneral, true},
		{"rumor", "Celebrity news", "Sources say the star quit", 1, 65, models.AlertRumorPattern, true},
		{"sensitive rumor", "Vaccine recall", "BREAKING: unconfirmed reports", 1, 85, models.AlertSensitiveRumor, true},
		{"volume", "Same headline", "nothing", 4, 65, models.AlertVolumeSpike, true},
		{"critical", "Riot in city centre", "🚨 allegedly spreading", 4, 95, models.AlertCriticalMisinfoSpike, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDetector()
			scorer, err := NewRiskScorer(config.DefaultRiskRules(), d)
			require.NoError(t, err)

			var got models.TrendingItem
			for i := 0; i < tt.repeats; i++ {
				got = scorer.Score(context.Background(), models.TrendingItem{Title: tt.title, Content: tt.content})
			}
			assert.Equal(t, tt.title, got.Claim)
			assert.Equal(t, tt.risk, got.RiskLevel)
			assert.Equal(t, tt.alertType, got.AlertType)
			assert.Equal(t, tt.triggered, got.AlertTriggered)
		})
	}
}

func TestRiskRumorPatternsMatchContentOnly(t *testing.T) {
	scorer, err := NewRiskScorer(config.DefaultRiskRules(), nil)
	require.NoError(t, err)
	got := scorer.Score(context.Background(), models.TrendingItem{Title: "Reportedly a rumor", Content: "calm text"})
	assert.False(t, got.RumorAlert)
}

func TestRiskScorerRejectsBadPattern(t *testing.T) {
	rules := config.DefaultRiskRules()
	rules.RumorPatterns = []string{"("}
	_, err := NewRiskScorer(rules, nil)
	assert.Error(t, err)
}
