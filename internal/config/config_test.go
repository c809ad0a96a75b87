package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.DefaultPageSize != 12 || cfg.MaxPageSize != 100 {
		t.Fatalf("page sizes = %d/%d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}
	if cfg.PriceMaxDefault != 100000 {
		t.Fatalf("PriceMaxDefault = %v", cfg.PriceMaxDefault)
	}
	if cfg.SeedDir != "" || cfg.SeedWorkers != 4 {
		t.Fatalf("seed defaults = %q/%d", cfg.SeedDir, cfg.SeedWorkers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DEFAULT_PAGE_SIZE", "24")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("SEED_DIR", "/data/seed")

	cfg := Load()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DefaultPageSize != 24 {
		t.Fatalf("DefaultPageSize = %d", cfg.DefaultPageSize)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
	if cfg.SeedDir != "/data/seed" {
		t.Fatalf("SeedDir = %q", cfg.SeedDir)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_PAGE_SIZE", "lots")
	t.Setenv("PRICE_MAX_DEFAULT", "expensive")
	cfg := Load()
	if cfg.MaxPageSize != 100 || cfg.PriceMaxDefault != 100000 {
		t.Fatalf("malformed env should fall back to defaults, got %d/%v", cfg.MaxPageSize, cfg.PriceMaxDefault)
	}
}
