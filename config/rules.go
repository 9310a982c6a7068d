package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Signal names a risk heuristic a rule can require.
type Signal string

const (
	SignalSensitive Signal = "sensitive"
	SignalRumor     Signal = "rumor"
	SignalVolume    Signal = "volume"
)

// TypeRule maps a set of required signals to an alert type. Rules are
// evaluated in order and the first full match wins.
type TypeRule struct {
	Requires []Signal `yaml:"requires"`
	Type     string   `yaml:"type"`
}

type RiskRules struct {
	BaseRisk           int            `yaml:"base_risk"`
	MaxRisk            int            `yaml:"max_risk"`
	Weights            map[Signal]int `yaml:"weights"`
	SensitiveKeywords  []string       `yaml:"sensitive_keywords"`
	RumorPatterns      []string       `yaml:"rumor_patterns"`
	ContradictionTerms []string       `yaml:"contradiction_terms"`
	TypeRules          []TypeRule     `yaml:"type_rules"`
	FallbackType       string         `yaml:"fallback_type"`
}

func DefaultRiskRules() RiskRules {
	return RiskRules{
		BaseRisk: 50,
		MaxRisk:  95,
		Weights: map[Signal]int{
			SignalSensitive: 20,
			SignalRumor:     15,
			SignalVolume:    15,
		},
		SensitiveKeywords: []string{
			"election", "violence", "riot", "scam", "disease", "inflation",
			"pandemic", "vaccine", "fraud", "attack", "murder", "rape",
		},
		RumorPatterns: []string{
			`(?i)forwarded many times`,
			`(?i)urgent!!!`,
			`(?i)^breaking[:\s]`,
			`(?i)sources say`,
			`(?i)unconfirmed`,
			`🚨`,
			`⚠️`,
			`(?i)allegedly`,
			`(?i)reportedly`,
		},
		ContradictionTerms: []string{"false", "debunk", "fake", "misleading", "incorrect", "untrue"},
		TypeRules: []TypeRule{
			{Requires: []Signal{SignalVolume, SignalSensitive}, Type: "CRITICAL_MISINFO_SPIKE"},
			{Requires: []Signal{SignalVolume}, Type: "VOLUME_SPIKE"},
			{Requires: []Signal{SignalSensitive, SignalRumor}, Type: "SENSITIVE_RUMOR"},
			{Requires: []Signal{SignalRumor}, Type: "RUMOR_PATTERN"},
		},
		FallbackType: "GENERAL_ALERT",
	}
}

// LoadRiskRules reads a YAML rule table. Sections missing from the file keep
// their default values. An empty path returns the defaults.
func LoadRiskRules(path string) (RiskRules, error) {
	rules := DefaultRiskRules()
	if path == "" {
		return rules, nil
	}

	log.Printf("[CONFIG] Loading risk rules from: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read risk rules: %w", err)
	}

	var fromFile RiskRules
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return rules, fmt.Errorf("parse risk rules: %w", err)
	}
	rules.merge(fromFile)

	if rules.MaxRisk < rules.BaseRisk {
		return rules, fmt.Errorf("max_risk %d is below base_risk %d", rules.MaxRisk, rules.BaseRisk)
	}
	log.Printf("[CONFIG] ✓ Risk rules: %d keywords, %d patterns, %d type rules",
		len(rules.SensitiveKeywords), len(rules.RumorPatterns), len(rules.TypeRules))
	return rules, nil
}

func (r *RiskRules) merge(o RiskRules) {
	if o.BaseRisk != 0 {
		r.BaseRisk = o.BaseRisk
	}
	if o.MaxRisk != 0 {
		r.MaxRisk = o.MaxRisk
	}
	for sig, w := range o.Weights {
		r.Weights[sig] = w
	}
	if len(o.SensitiveKeywords) > 0 {
		r.SensitiveKeywords = o.SensitiveKeywords
	}
	if len(o.RumorPatterns) > 0 {
		r.RumorPatterns = o.RumorPatterns
	}
	if len(o.ContradictionTerms) > 0 {
		r.ContradictionTerms = o.ContradictionTerms
	}
	if len(o.TypeRules) > 0 {
		r.TypeRules = o.TypeRules
	}
	if o.FallbackType != "" {
		r.FallbackType = o.FallbackType
	}
}
