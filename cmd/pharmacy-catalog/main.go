// Package main boots the Pharmacy Catalog HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medbazaar/pharmacy-catalog/internal/catalog"
	"github.com/medbazaar/pharmacy-catalog/internal/config"
	httpapi "github.com/medbazaar/pharmacy-catalog/internal/http"
	"github.com/medbazaar/pharmacy-catalog/internal/ingest"
	"github.com/medbazaar/pharmacy-catalog/internal/obs"
	"github.com/medbazaar/pharmacy-catalog/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	products := store.NewProductStore()
	brands := store.NewBrandStore()

	if cfg.SeedDir != "" {
		loader := ingest.NewLoader(cfg, products, brands)
		if err := loader.Run(context.Background(), cfg.SeedDir); err != nil {
			obs.Logger.Error("seed_failed", "dir", cfg.SeedDir, "error", err)
			os.Exit(1)
		}
	}

	eng := catalog.NewEngine(cfg, products, brands, catalog.NewNormalizer())
	app := httpapi.NewApp(cfg, eng, products, brands)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
