package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("SEARCH_PROVIDER", "")
	t.Setenv("ALERT_STORE", "")
	t.Setenv("FETCH_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "tavily", cfg.SearchProvider)
	assert.Equal(t, "sequential", cfg.ResearchExecutionMode)
	assert.Equal(t, "parallel", cfg.VerifierExecutionMode)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, 3, cfg.LLMMaxAttempts)
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_TIMEOUT", "2500")
	t.Setenv("SEARCH_TIMEOUT", "3s")
	t.Setenv("FEED_LIMIT", "25")
	t.Setenv("SEARCH_PROVIDER", "serper")
	t.Setenv("SERPER_API_KEY", "k")
	t.Setenv("ALERT_STORE", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 2500*time.Millisecond, cfg.LLMTimeout)
	assert.Equal(t, 3*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 25, cfg.FeedLimit)
	assert.Equal(t, "k", cfg.SearchAPIKey())
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	t.Setenv("ALERT_STORE", "postgres")
	t.Setenv("DB_URL", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ALERT_STORE", "file")
	t.Setenv("LLM_PROVIDER", "llama")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRiskRulesDefaults(t *testing.T) {
	rules, err := LoadRiskRules("")
	require.NoError(t, err)
	assert.Equal(t, 50, rules.BaseRisk)
	assert.Equal(t, 95, rules.MaxRisk)
	assert.Len(t, rules.SensitiveKeywords, 12)
	assert.Equal(t, "CRITICAL_MISINFO_SPIKE", rules.TypeRules[0].Type)
}

func TestLoadRiskRulesShippedFileMatchesDefaults(t *testing.T) {
	rules, err := LoadRiskRules("risk_rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultRiskRules(), rules)
}

func TestLoadRiskRulesPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  rumor: 30\nsensitive_keywords: [hoax]\n"), 0o644))

	rules, err := LoadRiskRules(path)
	require.NoError(t, err)
	assert.Equal(t, 30, rules.Weights[SignalRumor])
	assert.Equal(t, 20, rules.Weights[SignalSensitive])
	assert.Equal(t, []string{"hoax"}, rules.SensitiveKeywords)
	assert.Len(t, rules.RumorPatterns, 9)
}

func TestLoadRiskRulesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_risk: 90\nmax_risk: 60\n"), 0o644))
	_, err := LoadRiskRules(path)
	assert.Error(t, err)
}
