package commands

import (
	"fmt"
	"time"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/internal/marketdata"
	"github.com/ksfraser/stock-analysis/internal/scan"
	"github.com/ksfraser/stock-analysis/internal/store"
	"github.com/ksfraser/stock-analysis/pkg/config"
	"github.com/ksfraser/stock-analysis/pkg/database"
	"github.com/ksfraser/stock-analysis/pkg/httputil"
	"github.com/ksfraser/stock-analysis/pkg/logger"
	"github.com/ksfraser/stock-analysis/pkg/redis"
)

// services holds the wired application graph shared by the commands.
type services struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	redis   *redis.Client
	repo    *store.Repository
	scanner *scan.Service
}

// close releases held connections.
func (s *services) close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}

// bootstrap loads config and wires the provider chain, analysis engine
// and persistence. With requireDB false a database failure degrades to
// running without persistence instead of aborting.
func bootstrap(requireDB bool) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	s := &services{cfg: cfg, log: log}

	db, err := database.New(cfg)
	if err != nil {
		if requireDB {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		log.WithError(err).Warn("Database unavailable, results will not be persisted")
	} else {
		s.db = db
		s.repo = store.NewRepository(db, log)
		log.Info("Connected to database")
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
		redisClient = disabledRedis(cfg)
	}
	s.redis = redisClient

	provider := buildProviderChain(cfg, log, redisClient)

	weights := engine.Weights{
		Fundamental: cfg.Analysis.FundamentalWeight,
		Technical:   cfg.Analysis.TechnicalWeight,
		Momentum:    cfg.Analysis.MomentumWeight,
		Sentiment:   cfg.Analysis.SentimentWeight,
	}

	analyzer, err := engine.NewAnalyzer(weights, log)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("create analyzer: %w", err)
	}

	var resultStore scan.ResultStore
	if s.repo != nil {
		resultStore = s.repo
	}

	s.scanner = scan.New(provider, analyzer, resultStore, log,
		cfg.Analysis.ScanWorkers, cfg.Providers.LookbackDays)

	return s, nil
}

// buildProviderChain wires the provider fallback order: Yahoo first,
// Stooq as the price fallback, Finviz as the fundamentals fallback.
func buildProviderChain(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) marketdata.Provider {
	limiter := redis.NewRateLimiter(redisClient, "providers")
	rps := float64(cfg.Providers.RateLimit)

	yahooClient := httputil.NewWithTimeout(cfg, log, 20*time.Second).
		WithLimit(rps, cfg.Providers.RateLimit).
		WithRateLimiter(limiter, redis.YahooRateLimit)
	stooqClient := httputil.NewWithTimeout(cfg, log, 20*time.Second).
		WithLimit(rps, cfg.Providers.RateLimit).
		WithRateLimiter(limiter, redis.StooqRateLimit)
	finvizClient := httputil.NewWithTimeout(cfg, log, 20*time.Second).
		WithLimit(rps, cfg.Providers.RateLimit).
		WithRateLimiter(limiter, redis.FinvizRateLimit)

	chain := marketdata.NewChain(log,
		marketdata.NewYahooProvider(cfg, yahooClient, log),
		marketdata.NewStooqProvider(cfg, stooqClient, log),
		marketdata.NewFinvizProvider(cfg, finvizClient, log),
	)

	if !redisClient.Enabled() {
		return chain
	}

	cache := redis.NewCache(redisClient, "marketdata")
	return marketdata.NewCachedProvider(chain, cache, log)
}

// disabledRedis returns a no-op client when the real one is unreachable.
func disabledRedis(cfg *config.Config) *redis.Client {
	disabled := *cfg
	disabled.Redis.Enabled = false
	client, _ := redis.New(&disabled)
	return client
}
