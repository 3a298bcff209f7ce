package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"hermes/internal/adapters/config"
	"hermes/internal/adapters/errors/noop"
	"hermes/internal/adapters/errors/sentry"
	"hermes/internal/adapters/huggingface"
	"hermes/internal/adapters/postgres"
	"hermes/internal/adapters/redis"
	"hermes/internal/agents"
	"hermes/internal/domain/sentiment"
	"hermes/internal/metrics"
	"hermes/internal/notify"
	"hermes/internal/providers"
	"hermes/internal/providers/ebay"
	"hermes/internal/providers/serpapi"
	"hermes/internal/repository"
	"hermes/internal/tools"
	"hermes/internal/workers"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

func main() {
	query := flag.String("query", "", "product search query")
	budget := flag.Float64("budget", 0, "budget in the provider currency, 0 means no budget")
	maxResults := flag.Int("max-results", 10, "maximum results per provider")
	noSentiment := flag.Bool("no-sentiment", false, "skip review sentiment analysis")
	watch := flag.Bool("watch", false, "run the background price watcher instead of a one-shot search")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pgClient.Close()

	provs := initProviders(cfg, log)
	if len(provs) == 0 {
		log.Fatal("No search providers configured, set EBAY_CLIENT_ID/EBAY_CLIENT_SECRET or SERPAPI_API_KEY")
	}

	history := repository.NewPriceHistoryRepository(pgClient.DB())

	searchAgent := agents.NewSearchAgent(provs)
	priceAgent := agents.NewPriceComparisonAgent(history)
	reviewAgent := agents.NewReviewAnalysisAgent(initAnalyzer(cfg, *noSentiment, log))
	recoAgent := agents.NewRecommendationAgent()

	registry := tools.NewRegistry()
	tools.RegisterPipelineTools(registry, searchAgent, priceAgent, reviewAgent, recoAgent)

	if *watch {
		runWatchMode(cfg, searchAgent, priceAgent, errorTracker, log)
		return
	}

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: hermes -query \"wireless headphones\" [-budget 100] [-max-results 10]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	orchestrator := agents.NewOrchestrator(searchAgent, priceAgent, reviewAgent, recoAgent)

	result, err := orchestrator.Run(context.Background(), *query, *budget, *maxResults)
	if err != nil {
		if errors.Is(err, errors.ErrNoResults) {
			fmt.Printf("No products found for %q. Try a broader query.\n", *query)
			return
		}
		log.Fatalf("Pipeline failed: %v", err)
	}

	printResult(result)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initProviders builds the configured search providers, wrapping each
// in a Redis cache when caching is enabled
func initProviders(cfg *config.Config, log *logger.Logger) []providers.Provider {
	var provs []providers.Provider

	if cfg.Ebay.Enabled() {
		provs = append(provs, ebay.NewClient(cfg.Ebay))
		log.Info("eBay provider enabled")
	}
	if cfg.SerpApi.Enabled() {
		provs = append(provs, serpapi.NewClient(cfg.SerpApi))
		log.Info("SerpApi provider enabled")
	}

	if !cfg.Redis.Enabled {
		return provs
	}

	cache, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Warnf("Failed to connect to Redis, search caching disabled: %v", err)
		return provs
	}

	cached := make([]providers.Provider, 0, len(provs))
	for _, p := range provs {
		cached = append(cached, providers.NewCachedProvider(p, cache, cfg.Redis.CacheTTL))
	}
	log.Infof("Search caching enabled (TTL %s)", cfg.Redis.CacheTTL)
	return cached
}

// initAnalyzer returns the sentiment analyzer or nil when disabled
func initAnalyzer(cfg *config.Config, noSentiment bool, log *logger.Logger) sentiment.Analyzer {
	if noSentiment {
		log.Info("Sentiment analysis disabled by flag")
		return nil
	}
	if !cfg.HuggingFace.Enabled() {
		log.Info("Sentiment analysis disabled, set HF_API_TOKEN to enable")
		return nil
	}

	log.Infof("Sentiment analysis enabled (model %s)", cfg.HuggingFace.Model)
	return huggingface.NewClient(cfg.HuggingFace)
}

// runWatchMode starts the price-watch scheduler and blocks until a
// shutdown signal arrives
func runWatchMode(
	cfg *config.Config,
	search *agents.SearchAgent,
	price *agents.PriceComparisonAgent,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	if len(cfg.Watch.Queries) == 0 {
		log.Fatal("Watch mode requires WATCH_QUERIES, e.g. WATCH_QUERIES=\"ssd 2tb,mechanical keyboard\"")
	}

	var notifier notify.Notifier
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Warnf("Failed to initialize Telegram notifier: %v", err)
		} else {
			notifier = tg
			log.Info("Telegram price-drop alerts enabled")
		}
	}

	if cfg.Metrics.Enabled {
		go func() {
			log.Infof("Metrics listening on %s", cfg.Metrics.Addr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	watcher := workers.NewPriceWatchWorker(
		search, price, notifier,
		cfg.Watch.Queries, cfg.Watch.Interval, cfg.Watch.MaxResults,
	)

	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(watcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	waitForShutdown(cancel, scheduler, errorTracker, log)
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(
	cancel context.CancelFunc,
	scheduler *workers.Scheduler,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	cancel()

	if err := scheduler.Stop(); err != nil {
		log.Warnf("Scheduler shutdown: %v", err)
	}

	if errorTracker != nil {
		// The run context is cancelled by now; the flush gets its own
		// deadline so pending events still go out.
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()

		if err := errorTracker.Flush(flushCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}

// printResult renders the ranked recommendations and per-group price
// statistics as plain-text tables
func printResult(result *agents.Result) {
	fmt.Printf("\nResults for %q", result.Query)
	if result.Budget > 0 {
		fmt.Printf(" (budget %.2f)", result.Budget)
	}
	fmt.Printf(" in %s\n\n", result.Elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCORE\tPRICE\tSENTIMENT\tRETAILER\tTITLE")
	for i, rec := range result.Ranked {
		price := fmt.Sprintf("%.2f %s", rec.Product.Price, rec.Product.Currency)
		if rec.Product.PriceUnknown {
			price = "n/a"
		}
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%.3f\t%s\t%s\n",
			i+1, rec.Score, price, rec.SentimentPos, rec.Product.Retailer, rec.Product.Title)
	}
	w.Flush()

	fmt.Println("\nPrice groups:")
	for key, group := range result.Summary {
		fmt.Printf("  %s: %d offers, min %.2f / avg %.2f / max %.2f, best at %s\n",
			key, group.Count, group.MinPrice, group.AvgPrice, group.MaxPrice, group.BestDeal.Retailer)

		entries := group.History[group.BestDeal.ID]
		if len(entries) > 1 {
			prev := entries[1]
			fmt.Printf("    previously seen at %.2f %s\n", prev.Price, humanize.Time(prev.SeenAt))
		}
	}
}
