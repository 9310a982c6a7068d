package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/grlcodee/credify.ai/config"
	"github.com/grlcodee/credify.ai/models"
)

// RiskScorer applies the risk rule table to trending items.
type RiskScorer struct {
	rules    config.RiskRules
	patterns []*regexp.Regexp
	volume   *VolumeDetector
}

func NewRiskScorer(rules config.RiskRules, volume *VolumeDetector) (*RiskScorer, error) {
	patterns := make([]*regexp.Regexp, 0, len(rules.RumorPatterns))
	for _, p := range rules.RumorPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("rumor pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &RiskScorer{rules: rules, patterns: patterns, volume: volume}, nil
}

func (s *RiskScorer) sensitive(claim string) bool {
	lower := strings.ToLower(claim)
	for _, kw := range s.rules.SensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (s *RiskScorer) rumor(content string) bool {
	for _, re := range s.patterns {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

// Score fills the risk fields of item. A volume store failure is logged and
// counted as no spike.
func (s *RiskScorer) Score(ctx context.Context, item models.TrendingItem) models.TrendingItem {
	item.Claim = item.Title

	signals := map[config.Signal]bool{
		config.SignalSensitive: s.sensitive(item.Claim),
		config.SignalRumor:     s.rumor(item.Content),
	}
	if s.volume != nil {
		spike, err := s.volume.Observe(ctx, item.Claim)
		if err != nil {
			log.Printf("[TRENDING] ⚠ Volume check failed for %q: %v", truncate(item.Claim, 60), err)
		}
		signals[config.SignalVolume] = spike
	}

	item.SensitiveAlert = signals[config.SignalSensitive]
	item.RumorAlert = signals[config.SignalRumor]
	item.VolumeAlert = signals[config.SignalVolume]

	risk := s.rules.BaseRisk
	for sig, on := range signals {
		if on {
			risk += s.rules.Weights[sig]
		}
	}
	if risk > s.rules.MaxRisk {
		risk = s.rules.MaxRisk
	}
	item.RiskLevel = risk

	item.AlertType = models.AlertType(s.rules.FallbackType)
	for _, rule := range s.rules.TypeRules {
		if matchesAll(signals, rule.Requires) {
			item.AlertType = models.AlertType(rule.Type)
			break
		}
	}
	item.AlertTriggered = item.SensitiveAlert || item.RumorAlert || item.VolumeAlert
	return item
}

func matchesAll(signals map[config.Signal]bool, required []config.Signal) bool {
	for _, sig := range required {
		if !signals[sig] {
			return false
		}
	}
	return len(required) > 0
}
