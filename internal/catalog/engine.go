package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbazaar/pharmacy-catalog/internal/config"
	"github.com/medbazaar/pharmacy-catalog/internal/model"
	"github.com/medbazaar/pharmacy-catalog/internal/store"
)

// Sentinel errors the HTTP layer maps onto status codes. Store failures are
// returned as-is and surface as opaque 500s.
var (
	ErrInvalidID = errors.New("invalid id")
	ErrNotFound  = errors.New("not found")
)

const (
	suggestionLimit = 10
	legacyAllLimit  = 30
	sampleMax       = 50
)

// Engine is the catalog query engine: stateless reads over the two stores.
// It holds no mutable state and may serve any number of requests
// concurrently.
type Engine struct {
	products *store.ProductStore
	brands   *store.BrandStore
	norm     *Normalizer

	defaultPageSize int
	maxPageSize     int
	priceMaxDefault float64
}

// NewEngine wires the engine to its stores and normalizer with the
// configured paging defaults.
func NewEngine(cfg config.Config, products *store.ProductStore, brands *store.BrandStore, norm *Normalizer) *Engine {
	return &Engine{
		products:        products,
		brands:          brands,
		norm:            norm,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
		priceMaxDefault: cfg.PriceMaxDefault,
	}
}

// Normalizer exposes the engine's field normalizer.
func (e *Engine) Normalizer() *Normalizer { return e.norm }

// Browse executes a paginated browse/search request against one source.
// Count and fetch run against the identical FilterSpec; under concurrent
// writes the total is best-effort.
func (e *Engine) Browse(ctx context.Context, req CatalogQueryRequest, source Source) (model.PagedResult, error) {
	spec := e.Plan(req, source)
	page := clampPage(req.Page)
	size := e.clampPageSize(req.Limit)
	skip := (page - 1) * size

	if source == SourceLegacy {
		return e.browseLegacy(ctx, spec, page, size, skip)
	}

	total, err := e.products.Count(ctx, spec.MatchCanonical)
	if err != nil {
		return model.PagedResult{}, fmt.Errorf("count products: %w", err)
	}
	docs, err := e.products.Find(ctx, spec.MatchCanonical, canonicalLess(spec.Sort), skip, size)
	if err != nil {
		return model.PagedResult{}, fmt.Errorf("fetch products: %w", err)
	}
	items := make([]model.NormalizedProductView, 0, len(docs))
	for _, p := range docs {
		items = append(items, e.norm.FromCanonical(p))
	}
	return model.PagedResult{Items: items, Pagination: buildPagination(page, size, total)}, nil
}

func (e *Engine) browseLegacy(ctx context.Context, spec FilterSpec, page, size, skip int) (model.PagedResult, error) {
	rows, err := e.legacyRows(ctx)
	if err != nil {
		return model.PagedResult{}, err
	}
	filtered := rows[:0:0]
	for _, r := range rows {
		if spec.MatchLegacy(r) {
			filtered = append(filtered, r)
		}
	}
	total := len(filtered)
	e.sortLegacyRows(filtered, spec)

	pageRows := pageWindow(filtered, skip, size)
	items := make([]model.NormalizedProductView, 0, len(pageRows))
	for _, r := range pageRows {
		items = append(items, e.norm.FromLegacy(r))
	}
	return model.PagedResult{Items: items, Pagination: buildPagination(page, size, total)}, nil
}

// GetProduct fetches one canonical product by ObjectID hex.
func (e *Engine) GetProduct(ctx context.Context, idHex string) (model.NormalizedProductView, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return model.NormalizedProductView{}, fmt.Errorf("%w: %q", ErrInvalidID, idHex)
	}
	p, ok, err := e.products.Get(ctx, id)
	if err != nil {
		return model.NormalizedProductView{}, fmt.Errorf("fetch product: %w", err)
	}
	if !ok {
		return model.NormalizedProductView{}, ErrNotFound
	}
	return e.norm.FromCanonical(p), nil
}

// Suggestions runs the capped suggestion search over name, composition, and
// molecule fields. Terms shorter than 2 characters yield nothing.
func (e *Engine) Suggestions(ctx context.Context, q string) ([]model.NormalizedProductView, error) {
	needle := normalizeSearch(q)
	if len(needle) < 2 {
		return []model.NormalizedProductView{}, nil
	}
	pred := func(p model.CanonicalProduct) bool {
		return p.Visible() && suggestionTextMatch(p, needle)
	}
	docs, err := e.products.Find(ctx, pred, canonicalLess(SortName), 0, suggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	out := make([]model.NormalizedProductView, 0, len(docs))
	for _, p := range docs {
		out = append(out, e.norm.FromCanonical(p))
	}
	return out, nil
}

// LegacySearch matches free text against flattened legacy rows. An empty or
// whitespace-only query returns an empty list, never "match all".
func (e *Engine) LegacySearch(ctx context.Context, q string) ([]model.NormalizedProductView, error) {
	needle := normalizeSearch(q)
	if needle == "" {
		return []model.NormalizedProductView{}, nil
	}
	spec := e.Plan(CatalogQueryRequest{Search: needle}, SourceLegacy)
	spec.TierSort = false

	rows, err := e.legacyRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.NormalizedProductView, 0, 16)
	for _, r := range rows {
		if spec.MatchLegacy(r) {
			out = append(out, e.norm.FromLegacy(r))
		}
	}
	return out, nil
}

// LegacyByID resolves a synthesized row id back to its flattened row.
func (e *Engine) LegacyByID(ctx context.Context, rowID string) (model.NormalizedProductView, error) {
	docID, idx, err := ParseRowID(rowID)
	if err != nil {
		return model.NormalizedProductView{}, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	doc, ok, err := e.brands.Get(ctx, docID)
	if err != nil {
		return model.NormalizedProductView{}, fmt.Errorf("fetch vendor document: %w", err)
	}
	if !ok || idx >= len(doc.Products) {
		return model.NormalizedProductView{}, ErrNotFound
	}
	row := model.LegacyRow{DocID: doc.ID, Index: idx, Vendor: doc.Vendor, Record: doc.Products[idx]}
	return e.norm.FromLegacy(row), nil
}

// LegacyAll returns the first rows of the flattened legacy collection,
// unfiltered, capped at a fixed count.
func (e *Engine) LegacyAll(ctx context.Context) ([]model.NormalizedProductView, error) {
	rows, err := e.legacyRows(ctx)
	if err != nil {
		return nil, err
	}
	rows = pageWindow(rows, 0, legacyAllLimit)
	out := make([]model.NormalizedProductView, 0, len(rows))
	for _, r := range rows {
		out = append(out, e.norm.FromLegacy(r))
	}
	return out, nil
}

func (e *Engine) legacyRows(ctx context.Context) ([]model.LegacyRow, error) {
	docs, err := e.brands.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch vendor documents: %w", err)
	}
	return Flatten(docs), nil
}

// normalizeSearch mirrors the planner's treatment of a search term.
func normalizeSearch(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
