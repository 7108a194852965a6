package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/stocks")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.Providers.LookbackDays != 400 {
		t.Errorf("LookbackDays = %d, want 400", cfg.Providers.LookbackDays)
	}
	if cfg.Analysis.FundamentalWeight != 0.40 {
		t.Errorf("FundamentalWeight = %f, want 0.40", cfg.Analysis.FundamentalWeight)
	}
	if cfg.Analysis.ScanWorkers != 4 {
		t.Errorf("ScanWorkers = %d, want 4", cfg.Analysis.ScanWorkers)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without DATABASE_URL")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "testing")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject unknown ENV")
	}
}

func TestLoad_WeightsMustSum(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEIGHT_FUNDAMENTAL", "0.50")
	t.Setenv("WEIGHT_TECHNICAL", "0.50")
	t.Setenv("WEIGHT_MOMENTUM", "0.50")
	t.Setenv("WEIGHT_SENTIMENT", "0.50")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject weights that do not sum to 1.0")
	}
}

func TestLoad_CustomWeights(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEIGHT_FUNDAMENTAL", "0.25")
	t.Setenv("WEIGHT_TECHNICAL", "0.25")
	t.Setenv("WEIGHT_MOMENTUM", "0.25")
	t.Setenv("WEIGHT_SENTIMENT", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Analysis.TechnicalWeight != 0.25 {
		t.Errorf("TechnicalWeight = %f, want 0.25", cfg.Analysis.TechnicalWeight)
	}
}

func TestLoad_InvalidScanWorkers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCAN_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject SCAN_WORKERS below 1")
	}
}

func TestLoad_Watchlist(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WATCHLIST", "AAPL, MSFT ,GOOG,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"AAPL", "MSFT", "GOOG"}
	if len(cfg.Analysis.Watchlist) != len(want) {
		t.Fatalf("Watchlist = %v, want %v", cfg.Analysis.Watchlist, want)
	}
	for i, symbol := range want {
		if cfg.Analysis.Watchlist[i] != symbol {
			t.Errorf("Watchlist[%d] = %s, want %s", i, cfg.Analysis.Watchlist[i], symbol)
		}
	}
}

func TestLoad_Durations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONN_LIFETIME", "2h")
	t.Setenv("PROVIDER_CACHE_TTL", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.MaxConnLifetime != 2*time.Hour {
		t.Errorf("MaxConnLifetime = %v, want 2h", cfg.Database.MaxConnLifetime)
	}
	// Unparseable durations fall back to the default
	if cfg.Providers.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", cfg.Providers.CacheTTL)
	}
}
