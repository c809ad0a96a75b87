package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/medbazaar/pharmacy-catalog/internal/catalog"
	"github.com/medbazaar/pharmacy-catalog/internal/config"
	"github.com/medbazaar/pharmacy-catalog/internal/model"
	"github.com/medbazaar/pharmacy-catalog/internal/store"
)

// App carries the handler dependencies: the engine for queries and the
// stores for size metrics.
type App struct {
	Cfg      config.Config
	Engine   *catalog.Engine
	Products *store.ProductStore
	Brands   *store.BrandStore

	started  time.Time
	requests atomic.Uint64
}

// NewApp constructs the handler set.
func NewApp(cfg config.Config, eng *catalog.Engine, products *store.ProductStore, brands *store.BrandStore) *App {
	return &App{Cfg: cfg, Engine: eng, Products: products, Brands: brands, started: time.Now()}
}

type pagedResponse struct {
	Success    bool                          `json:"success"`
	Data       []model.NormalizedProductView `json:"data"`
	Pagination model.Pagination              `json:"pagination"`
}

type itemResponse struct {
	Success bool                        `json:"success"`
	Data    model.NormalizedProductView `json:"data"`
}

type facetResponse struct {
	Success    bool                    `json:"success"`
	Categories []model.FacetDescriptor `json:"categories"`
}

type suggestionResponse struct {
	Success     bool                          `json:"success"`
	Suggestions []model.NormalizedProductView `json:"suggestions"`
}

// paginatedHandler serves the browse/search listing. The optional source
// parameter switches to the legacy collection.
func (a *App) paginatedHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	req, ok := a.parseQueryRequest(w, r)
	if !ok {
		return
	}
	source := catalog.SourceCanonical
	if strings.EqualFold(r.URL.Query().Get("source"), "legacy") {
		source = catalog.SourceLegacy
	}
	res, err := a.Engine.Browse(r.Context(), req, source)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, pagedResponse{Success: true, Data: emptyIfNil(res.Items), Pagination: res.Pagination})
}

func (a *App) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	facets, err := a.Engine.CanonicalFacets(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, facetResponse{Success: true, Categories: facets})
}

func (a *App) suggestionsHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	views, err := a.Engine.Suggestions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, suggestionResponse{Success: true, Suggestions: emptyIfNil(views)})
}

// catalogByIDHandler resolves /api/catalog/{id}. Registered on the prefix
// route, so everything after the prefix is the id.
func (a *App) catalogByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/catalog/")
	if id == "" || strings.Contains(id, "/") {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	view, err := a.Engine.GetProduct(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, itemResponse{Success: true, Data: view})
}

// legacyMedicinesHandler serves the free-text legacy search. An empty query
// returns an empty array, never the whole collection.
func (a *App) legacyMedicinesHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	views, err := a.Engine.LegacySearch(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, emptyIfNil(views))
}

func (a *App) legacyMedicineByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/legacy/medicines/")
	if id == "" || strings.Contains(id, "/") {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	view, err := a.Engine.LegacyByID(r.Context(), id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

func (a *App) legacyAllHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	views, err := a.Engine.LegacyAll(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, emptyIfNil(views))
}

func (a *App) legacyCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	facets, err := a.Engine.LegacyFacets(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, facetResponse{Success: true, Categories: facets})
}

func (a *App) randomMedHandler(w http.ResponseWriter, r *http.Request) {
	if !a.allowGet(w, r) {
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
			return
		}
		limit = n
	}
	views, err := a.Engine.Sample(r.Context(), limit, r.URL.Query().Get("category"))
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, emptyIfNil(views))
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := map[string]any{
		"requests_total":   a.requests.Load(),
		"products":         a.Products.Len(),
		"vendor_documents": a.Brands.Len(),
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	WriteJSON(w, http.StatusOK, m)
}

// parseQueryRequest validates the numeric browse parameters. Unparseable
// values are a 400, absent ones fall back to engine defaults.
func (a *App) parseQueryRequest(w http.ResponseWriter, r *http.Request) (catalog.CatalogQueryRequest, bool) {
	q := r.URL.Query()
	req := catalog.CatalogQueryRequest{
		Category:     q.Get("category"),
		Search:       q.Get("search"),
		Prescription: q.Get("prescription"),
		SortBy:       q.Get("sortBy"),
	}
	var ok bool
	if req.Page, ok = intParam(w, q.Get("page"), "page"); !ok {
		return req, false
	}
	if req.Limit, ok = intParam(w, q.Get("limit"), "limit"); !ok {
		return req, false
	}
	if req.PriceMin, ok = floatParam(w, q.Get("priceMin"), "priceMin"); !ok {
		return req, false
	}
	if req.PriceMax, ok = floatParam(w, q.Get("priceMax"), "priceMax"); !ok {
		return req, false
	}
	return req, true
}

func intParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_request", name+" must be an integer")
		return 0, false
	}
	return n, true
}

func floatParam(w http.ResponseWriter, raw, name string) (float64, bool) {
	if raw == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_request", name+" must be a number")
		return 0, false
	}
	return f, true
}

// allowGet counts the request and enforces the read-only method contract.
func (a *App) allowGet(w http.ResponseWriter, r *http.Request) bool {
	a.requests.Add(1)
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return false
	}
	return true
}

func emptyIfNil(views []model.NormalizedProductView) []model.NormalizedProductView {
	if views == nil {
		return []model.NormalizedProductView{}
	}
	return views
}
