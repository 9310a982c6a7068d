package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/grlcodee/credify.ai/database"
	"github.com/grlcodee/credify.ai/models"
)

// CycleResult summarizes one alert processing run.
type CycleResult struct {
	Success       bool           `json:"success"`
	AlertsCreated int            `json:"alertsCreated"`
	Alerts        []models.Alert `json:"alerts"`
	Processed     int            `json:"processed"`
}

// AlertProcessor scores the trending feed, verifies triggered items and
// stores the resulting alerts.
type AlertProcessor struct {
	feed     FeedSource
	scorer   *RiskScorer
	verifier *Verifier
	store    database.AlertStore
	notifier Notifier

	// one cycle at a time, scheduled and on-demand runs share it
	cycleMu sync.Mutex
}

func NewAlertProcessor(feed FeedSource, scorer *RiskScorer, verifier *Verifier, store database.AlertStore) *AlertProcessor {
	return &AlertProcessor{feed: feed, scorer: scorer, verifier: verifier, store: store}
}

func (p *AlertProcessor) WithNotifier(n Notifier) *AlertProcessor {
	p.notifier = n
	return p
}

// Trending fetches the feed and scores every item.
func (p *AlertProcessor) Trending(ctx context.Context) ([]models.TrendingItem, error) {
	items, err := p.feed.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	scored := make([]models.TrendingItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, p.scorer.Score(ctx, item))
	}
	return scored, nil
}

// ProcessCycle runs one full cycle. Failing items are logged and skipped;
// only a feed failure fails the cycle.
func (p *AlertProcessor) ProcessCycle(ctx context.Context) (*CycleResult, error) {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	log.Printf("[ALERTS] 🔄 Starting alert cycle")
	items, err := p.Trending(ctx)
	if err != nil {
		log.Printf("[ALERTS] ❌ Feed unavailable: %v", err)
		return nil, fmt.Errorf("fetch trending: %w", err)
	}

	result := &CycleResult{Success: true, Alerts: []models.Alert{}, Processed: len(items)}
	for _, item := range items {
		if !item.AlertTriggered {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		ver := p.verifier.Verify(ctx, item.Claim)
		alert, ok := BuildAlert(item, ver)
		if !ok {
			continue
		}

		saved, err := p.store.Append(ctx, alert)
		if err != nil {
			log.Printf("[ALERTS] ⚠ Could not store alert for %q: %v", truncate(item.Title, 60), err)
			continue
		}
		log.Printf("[ALERTS] 🚨 %s %s (risk %d): %s", saved.Severity, saved.Type, saved.RiskLevel, truncate(saved.Title, 80))
		result.Alerts = append(result.Alerts, saved)
		p.notify(ctx, saved)
	}
	result.AlertsCreated = len(result.Alerts)

	log.Printf("[ALERTS] ✅ Cycle done: %d processed, %d alerts created", result.Processed, result.AlertsCreated)
	return result, nil
}

func (p *AlertProcessor) notify(ctx context.Context, alert models.Alert) {
	if p.notifier == nil || alert.Severity != models.SeverityHigh {
		return
	}
	if err := p.notifier.Notify(ctx, alert); err != nil {
		log.Printf("[NOTIFY] ⚠ %v", err)
	}
}

// Schedule registers the cycle on c with the given spec, e.g. "@every 15m".
func (p *AlertProcessor) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		log.Printf("[CRON] ⏰ Scheduled alert cycle")
		if _, err := p.ProcessCycle(ctx); err != nil {
			log.Printf("[CRON] ⚠ Alert cycle failed: %v", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule alert cycle %q: %w", spec, err)
	}
	log.Printf("[CRON] ✓ Alert cycle scheduled: %s", spec)
	return id, nil
}
