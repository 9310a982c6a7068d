package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	LLMProvider    string
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	LLMTimeout     time.Duration
	LLMMaxAttempts int

	SearchProvider        string
	TavilyAPIKey          string
	SerperAPIKey          string
	FactCheckAPIKey       string
	SearchTimeout         time.Duration
	SearchRPS             float64
	ResearchExecutionMode string
	VerifierExecutionMode string

	FetchTimeout time.Duration
	FeedURL      string
	FeedLimit    int

	AlertStore     string
	AlertsFile     string
	DbUrl          string
	SQLitePath     string
	RedisUrl       string
	ClaimStoreSize int
	VerdictTTL     time.Duration

	RiskRulesPath string
	AlertCron     string
	AdminToken    string

	DiscordBotToken     string
	DiscordAlertChannel string
}

const DefaultFeedURL = "https://news.google.com/rss?hl=en-IN&gl=IN&ceid=IN:en"

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),

		LLMProvider:    strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:   firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		GeminiModel:    getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:    getEnvOrDefault("OPENAI_MODEL", "llama-3.3-70b-versatile"),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		LLMMaxAttempts: getEnvInt("LLM_MAX_ATTEMPTS", 3),

		SearchProvider:        strings.ToLower(getEnvOrDefault("SEARCH_PROVIDER", "tavily")),
		TavilyAPIKey:          os.Getenv("TAVILY_API_KEY"),
		SerperAPIKey:          os.Getenv("SERPER_API_KEY"),
		FactCheckAPIKey:       os.Getenv("GOOGLE_FACTCHECK_API_KEY"),
		SearchTimeout:         getEnvDuration("SEARCH_TIMEOUT", 15*time.Second),
		SearchRPS:             getEnvFloat("SEARCH_RPS", 5),
		ResearchExecutionMode: strings.ToLower(getEnvOrDefault("RESEARCH_EXECUTION_MODE", "sequential")),
		VerifierExecutionMode: strings.ToLower(getEnvOrDefault("VERIFIER_EXECUTION_MODE", "parallel")),

		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		FeedURL:      getEnvOrDefault("FEED_URL", DefaultFeedURL),
		FeedLimit:    getEnvInt("FEED_LIMIT", 10),

		AlertStore:     strings.ToLower(getEnvOrDefault("ALERT_STORE", "file")),
		AlertsFile:     getEnvOrDefault("ALERTS_FILE", "data/alerts.json"),
		DbUrl:          os.Getenv("DB_URL"),
		SQLitePath:     getEnvOrDefault("SQLITE_PATH", "data/credify.db"),
		RedisUrl:       os.Getenv("REDIS_URL"),
		ClaimStoreSize: getEnvInt("CLAIM_STORE_SIZE", 10000),
		VerdictTTL:     getEnvDuration("VERDICT_CACHE_TTL", 6*time.Hour),

		RiskRulesPath: os.Getenv("RISK_RULES_PATH"),
		AlertCron:     getEnvOrDefault("ALERT_CRON", "@every 15m"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),

		DiscordBotToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordAlertChannel: os.Getenv("DISCORD_ALERT_CHANNEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("LLM_PROVIDER must be gemini or openai, got %q", c.LLMProvider)
	}
	switch c.SearchProvider {
	case "tavily", "serper":
	default:
		return fmt.Errorf("SEARCH_PROVIDER must be tavily or serper, got %q", c.SearchProvider)
	}
	switch c.AlertStore {
	case "file", "sqlite":
	case "postgres":
		if c.DbUrl == "" {
			return fmt.Errorf("ALERT_STORE=postgres requires DB_URL")
		}
	default:
		return fmt.Errorf("ALERT_STORE must be file, postgres or sqlite, got %q", c.AlertStore)
	}
	if c.LLMMaxAttempts < 1 {
		return fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// SearchAPIKey returns the key for the configured search provider.
func (c *Config) SearchAPIKey() string {
	if c.SearchProvider == "serper" {
		return c.SerperAPIKey
	}
	return c.TavilyAPIKey
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or a bare number of milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
