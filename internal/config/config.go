// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, the catalog engine
// defaults, and the seed loader.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	DefaultPageSize int
	MaxPageSize     int
	PriceMaxDefault float64

	RateLimitRPS   float64
	RateLimitBurst int

	SeedDir     string
	SeedWorkers int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		DefaultPageSize: atoienv("DEFAULT_PAGE_SIZE", 12),
		MaxPageSize:     atoienv("MAX_PAGE_SIZE", 100),
		PriceMaxDefault: floatenv("PRICE_MAX_DEFAULT", 100000),
		RateLimitRPS:    floatenv("RATE_LIMIT_RPS", 50),
		RateLimitBurst:  atoienv("RATE_LIMIT_BURST", 100),
		SeedDir:         getenv("SEED_DIR", ""),
		SeedWorkers:     atoienv("SEED_WORKERS", 4),
	}
}
