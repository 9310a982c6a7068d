package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/grlcodee/credify.ai/cache"
	"github.com/grlcodee/credify.ai/config"
	"github.com/grlcodee/credify.ai/database"
	"github.com/grlcodee/credify.ai/handlers"
	"github.com/grlcodee/credify.ai/logger"
	"github.com/grlcodee/credify.ai/services"
)

func main() {
	log.SetOutput(logger.GetWriter())
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("🚀 Starting Credify...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Config error: ", err)
	}
	log.Printf("✓ Config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules, err := config.LoadRiskRules(cfg.RiskRulesPath)
	if err != nil {
		log.Fatal("❌ Risk rules: ", err)
	}

	db, alertStore := openStores(ctx, cfg)
	if db != nil {
		defer db.Close()
	}

	rdb := cache.InitRedis(ctx, cfg.RedisUrl)
	var claims cache.ClaimStore = cache.NewMemoryClaimStore(cfg.ClaimStoreSize, services.ClaimRetention)
	if rdb != nil {
		defer rdb.Close()
		claims = cache.NewRedisClaimStore(rdb, services.ClaimRetention)
	}

	tracker := services.NewRateLimitTracker()
	llm, err := newLLM(ctx, cfg, tracker)
	if err != nil {
		log.Fatal("❌ Reasoning backend: ", err)
	}
	searcher := newSearcher(cfg)
	// fact checks feed analysis evidence only, never alert verification
	evidence := searcher
	if cfg.FactCheckAPIKey != "" {
		evidence = services.NewMultiSearcher(searcher,
			services.NewLimitedSearcher(services.NewFactCheckClient(cfg.FactCheckAPIKey), cfg.SearchRPS, cfg.SearchTimeout))
		log.Println("✓ Google Fact Check enabled")
	}

	researchMode, err := services.ParseExecutionMode(cfg.ResearchExecutionMode)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	verifierMode, err := services.ParseExecutionMode(cfg.VerifierExecutionMode)
	if err != nil {
		log.Fatal("❌ ", err)
	}

	retry := services.DefaultRetryPolicy(cfg.LLMTimeout, cfg.LLMMaxAttempts)
	analyzer := services.NewAnalyzerService(
		services.NewNormalizer(services.NewContentFetcher(cfg.FetchTimeout)),
		services.NewResearchAgent(services.NewQueryRunner(evidence, researchMode)),
		services.NewReasoner(llm, retry),
	)
	if rdb != nil {
		analyzer.WithCache(cache.NewVerdictCache(rdb, cfg.VerdictTTL))
	}
	// a nil *DB stored in the interface would not compare equal to nil
	if db != nil {
		analyzer.WithRecorder(db)
	}

	scorer, err := services.NewRiskScorer(rules, services.NewVolumeDetector(claims))
	if err != nil {
		log.Fatal("❌ Risk rules: ", err)
	}
	processor := services.NewAlertProcessor(
		services.NewRSSFeed(cfg.FeedURL, cfg.FeedLimit, cfg.FetchTimeout),
		scorer,
		services.NewVerifier(services.NewQueryRunner(searcher, verifierMode), rules.ContradictionTerms),
		alertStore,
	)
	if cfg.DiscordBotToken != "" && cfg.DiscordAlertChannel != "" {
		notifier, err := services.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordAlertChannel)
		if err != nil {
			log.Printf("⚠ Discord notifier disabled: %v", err)
		} else {
			processor.WithNotifier(notifier)
			log.Printf("✓ Discord alerts -> channel %s", cfg.DiscordAlertChannel)
		}
	}

	scheduler := cron.New()
	if _, err := processor.Schedule(ctx, scheduler, cfg.AlertCron); err != nil {
		log.Fatal("❌ Alert schedule: ", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.Printf("✓ Alert cycle scheduled (%s)", cfg.AlertCron)

	router := handlers.NewRouter(handlers.Handlers{
		Analyzer: handlers.NewAnalyzerHandler(analyzer, tracker),
		Alerts: handlers.NewAlertsHandler(processor, alertStore,
			services.NewNewsFeed(services.NewRSSFeed(cfg.FeedURL, services.NewsFeedLimit, cfg.FetchTimeout), llm, retry)),
		OCR:    handlers.NewOCRHandler(services.NewOCRService(llm, retry)),
		Domain: handlers.NewDomainHandler(db),
		Admin:  handlers.NewAdminHandler(cfg.AdminToken, analyzer, db),
	})
	if cfg.AdminToken == "" {
		log.Println("⚠ ADMIN_TOKEN not set, admin API disabled")
	}

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Printf("🎯 Server listening on http://localhost%s\n", addr)
	fmt.Printf("🧠 Reasoner: %s | 🔎 Search: %s | 🗄 Alerts: %s\n", llm.Name(), cfg.SearchProvider, cfg.AlertStore)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf(`   curl -X POST http://localhost%s/api/analyze -H "Content-Type: application/json" -d '{"content": "..."}'`+"\n", addr)
	fmt.Println(strings.Repeat("=", 50) + "\n")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Println("✓ Ready to accept requests...")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("❌ Server error: ", err)
	}
	log.Println("👋 Shutdown complete")
}

// openStores picks the alert store. The SQL database, when there is one, also
// backs admin stats and domain reputation.
func openStores(ctx context.Context, cfg *config.Config) (*database.DB, database.AlertStore) {
	switch cfg.AlertStore {
	case "postgres":
		db, err := database.Open(ctx, database.Postgres, cfg.DbUrl)
		if err != nil {
			log.Fatal("❌ Postgres: ", err)
		}
		return db, database.NewSQLAlertStore(db)
	case "sqlite":
		db, err := database.Open(ctx, database.SQLite, cfg.SQLitePath)
		if err != nil {
			log.Fatal("❌ SQLite: ", err)
		}
		return db, database.NewSQLAlertStore(db)
	default:
		log.Printf("✓ Alerts stored in %s", cfg.AlertsFile)
		store := database.NewFileAlertStore(cfg.AlertsFile)
		if cfg.DbUrl == "" {
			return nil, store
		}
		db, err := database.Open(ctx, database.Postgres, cfg.DbUrl)
		if err != nil {
			log.Printf("⚠ Stats database unavailable: %v", err)
			return nil, store
		}
		return db, store
	}
}

func newLLM(ctx context.Context, cfg *config.Config, tracker *services.RateLimitTracker) (services.LLMClient, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL != "lmstudio" {
			return nil, errors.New("OPENAI_API_KEY is not set")
		}
		return services.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, tracker), nil
	default:
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		return services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, tracker)
	}
}

func newSearcher(cfg *config.Config) services.Searcher {
	if cfg.SearchAPIKey() == "" {
		log.Printf("⚠ No %s API key, research will find no evidence", cfg.SearchProvider)
	}
	var next services.Searcher
	if cfg.SearchProvider == "serper" {
		next = services.NewSerperClient(cfg.SerperAPIKey)
	} else {
		next = services.NewTavilyClient(cfg.TavilyAPIKey)
	}
	return services.NewLimitedSearcher(next, cfg.SearchRPS, cfg.SearchTimeout)
}
