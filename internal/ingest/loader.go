// Package ingest seeds the document stores from JSON fixtures at boot.
//
// The catalog engine itself never writes; all store mutation happens here,
// before the HTTP surface starts serving.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/medbazaar/pharmacy-catalog/internal/config"
	"github.com/medbazaar/pharmacy-catalog/internal/model"
	"github.com/medbazaar/pharmacy-catalog/internal/obs"
	"github.com/medbazaar/pharmacy-catalog/internal/store"
)

// Loader decodes seed files with a fixed-size worker pool and upserts them
// into the stores.
type Loader struct {
	products *store.ProductStore
	brands   *store.BrandStore
	workers  int

	productsLoaded atomic.Int64
	vendorsLoaded  atomic.Int64
	filesFailed    atomic.Int64
}

// NewLoader constructs a Loader writing into the given stores.
func NewLoader(cfg config.Config, products *store.ProductStore, brands *store.BrandStore) *Loader {
	w := cfg.SeedWorkers
	if w < 1 {
		w = 1
	}
	return &Loader{products: products, brands: brands, workers: w}
}

// Run loads dir/products.json and every dir/vendors/*.json. Individual file
// failures are logged and counted, not fatal; Run only errors when the seed
// directory itself is unusable.
func (l *Loader) Run(ctx context.Context, dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("seed dir: %w", err)
	}

	paths := []string{filepath.Join(dir, "products.json")}
	vendorFiles, err := filepath.Glob(filepath.Join(dir, "vendors", "*.json"))
	if err != nil {
		return fmt.Errorf("seed dir glob: %w", err)
	}
	paths = append(paths, vendorFiles...)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				l.loadFile(p)
			}
		}()
	}
	for _, p := range paths {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- p:
		}
	}
	close(jobs)
	wg.Wait()

	obs.Logger.Info("seed_complete",
		"products", l.productsLoaded.Load(),
		"vendor_documents", l.vendorsLoaded.Load(),
		"files_failed", l.filesFailed.Load(),
	)
	return nil
}

// Totals reports how many documents the loader wrote and how many files it
// could not read or decode.
func (l *Loader) Totals() (products, vendors, failed int64) {
	return l.productsLoaded.Load(), l.vendorsLoaded.Load(), l.filesFailed.Load()
}

func (l *Loader) loadFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		l.fail(path, err)
		return
	}
	if filepath.Base(path) == "products.json" {
		var docs []model.CanonicalProduct
		if err := json.Unmarshal(raw, &docs); err != nil {
			l.fail(path, err)
			return
		}
		for _, p := range docs {
			l.products.Put(p)
		}
		l.productsLoaded.Add(int64(len(docs)))
		obs.Logger.Info("seed_file_loaded", "path", path, "products", len(docs))
		return
	}
	var doc model.LegacyVendorDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		l.fail(path, err)
		return
	}
	l.brands.Put(doc)
	l.vendorsLoaded.Add(1)
	obs.Logger.Info("seed_file_loaded", "path", path, "vendor", doc.Vendor, "records", len(doc.Products))
}

func (l *Loader) fail(path string, err error) {
	l.filesFailed.Add(1)
	obs.Logger.Error("seed_file_failed", "path", path, "error", err)
}
