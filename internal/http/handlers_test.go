package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbazaar/pharmacy-catalog/internal/catalog"
	"github.com/medbazaar/pharmacy-catalog/internal/config"
	"github.com/medbazaar/pharmacy-catalog/internal/model"
	"github.com/medbazaar/pharmacy-catalog/internal/obs"
	"github.com/medbazaar/pharmacy-catalog/internal/store"
)

func testConfig() config.Config {
	return config.Config{
		DefaultPageSize: 12,
		MaxPageSize:     100,
		PriceMaxDefault: 100000,
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
	}
}

func setupApp(t *testing.T, cfg config.Config) (*store.ProductStore, *store.BrandStore, http.Handler) {
	t.Helper()
	obs.InitQuietLogger()
	products := store.NewProductStore()
	brands := store.NewBrandStore()
	eng := catalog.NewEngine(cfg, products, brands, catalog.NewNormalizer())
	app := NewApp(cfg, eng, products, brands)
	return products, brands, NewRouter(app)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPaginatedEnvelope(t *testing.T) {
	products, _, h := setupApp(t, testConfig())
	for _, price := range []float64{50, 10, 30} {
		products.Put(model.CanonicalProduct{Name: "Med", DisplayPrice: price, Category: "Pain Relief"})
	}

	rr := get(t, h, "/api/catalog/paginated?page=1&limit=2&sortBy=price-low")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success    bool                          `json:"success"`
		Data       []model.NormalizedProductView `json:"data"`
		Pagination model.Pagination              `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 10.0, resp.Data[0].Price)
	assert.Equal(t, 30.0, resp.Data[1].Price)
	assert.Equal(t, 3, resp.Pagination.TotalItems)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNextPage)
}

func TestPaginatedRejectsBadNumbers(t *testing.T) {
	_, _, h := setupApp(t, testConfig())
	for _, path := range []string{
		"/api/catalog/paginated?page=abc",
		"/api/catalog/paginated?limit=xyz",
		"/api/catalog/paginated?priceMin=cheap",
		"/api/catalog/paginated?priceMax=1e",
	} {
		rr := get(t, h, path)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "path %s", path)
	}
}

func TestPaginatedEmptyResultKeepsArray(t *testing.T) {
	_, _, h := setupApp(t, testConfig())
	rr := get(t, h, "/api/catalog/paginated")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}

func TestPaginatedLegacySource(t *testing.T) {
	_, brands, h := setupApp(t, testConfig())
	brands.Put(model.LegacyVendorDocument{
		Vendor:   "MediMart",
		Products: []model.LegacyProductRecord{{Name: "Aspirin", Price: "35"}},
	})
	rr := get(t, h, "/api/catalog/paginated?source=legacy")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data []model.NormalizedProductView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "legacy", resp.Data[0].Source)
}

func TestCatalogByID(t *testing.T) {
	products, _, h := setupApp(t, testConfig())
	id := products.Put(model.CanonicalProduct{Name: "Alphadol", DisplayPrice: 50})

	rr := get(t, h, "/api/catalog/"+id.Hex())
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Success bool                        `json:"success"`
		Data    model.NormalizedProductView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Alphadol", resp.Data.Name)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/catalog/not-hex").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/catalog/"+primitive.NewObjectID().Hex()).Code)
}

func TestSuggestionsMinLength(t *testing.T) {
	products, _, h := setupApp(t, testConfig())
	products.Put(model.CanonicalProduct{Name: "Paracetamol", DisplayPrice: 20})

	rr := get(t, h, "/api/catalog/search/suggestions?q=p")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"suggestions":[]`)

	rr = get(t, h, "/api/catalog/search/suggestions?q=para")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Suggestions []model.NormalizedProductView `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Suggestions, 1)
}

func TestLegacyMedicinesEmptyQuery(t *testing.T) {
	_, brands, h := setupApp(t, testConfig())
	brands.Put(model.LegacyVendorDocument{
		Vendor:   "MediMart",
		Products: []model.LegacyProductRecord{{Name: "Aspirin", Price: "35"}},
	})

	rr := get(t, h, "/api/legacy/medicines")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())

	rr = get(t, h, "/api/legacy/medicines?query=aspirin")
	require.Equal(t, http.StatusOK, rr.Code)
	var rows []model.NormalizedProductView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
}

func TestLegacyMedicineByID(t *testing.T) {
	_, brands, h := setupApp(t, testConfig())
	id := brands.Put(model.LegacyVendorDocument{
		Vendor:   "MediMart",
		Products: []model.LegacyProductRecord{{Name: "Aspirin", Price: "35"}},
	})

	rr := get(t, h, "/api/legacy/medicines/"+id.Hex()+"-0")
	require.Equal(t, http.StatusOK, rr.Code)
	var row model.NormalizedProductView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &row))
	assert.Equal(t, "Aspirin", row.Name)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/legacy/medicines/garbage").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/legacy/medicines/"+id.Hex()+"-5").Code)
}

func TestRandomMed(t *testing.T) {
	_, brands, h := setupApp(t, testConfig())
	brands.Put(model.LegacyVendorDocument{
		Vendor: "MediMart",
		Products: []model.LegacyProductRecord{
			{Name: "A", Price: "10", Image: "https://cdn.example.com/a.jpg"},
			{Name: "B", Price: "12"},
		},
	})

	rr := get(t, h, "/api/random/med?limit=5")
	require.Equal(t, http.StatusOK, rr.Code)
	var rows []model.NormalizedProductView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	assert.Len(t, rows, 1, "imageless rows are never sampled")

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/random/med?limit=ten").Code)
}

func TestCategoriesEndpoint(t *testing.T) {
	products, _, h := setupApp(t, testConfig())
	products.Put(model.CanonicalProduct{Category: "Pain Relief", ProductForm: "tablet"})

	rr := get(t, h, "/api/catalog/categories")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Success    bool                    `json:"success"`
		Categories []model.FacetDescriptor `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Categories)
	assert.Equal(t, "All Products", resp.Categories[0].Label)
}

func TestMethodNotAllowed(t *testing.T) {
	_, _, h := setupApp(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/catalog/paginated", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	_, _, h := setupApp(t, cfg)

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/healthz").Code)
}

func TestHealthzOK(t *testing.T) {
	_, _, h := setupApp(t, testConfig())
	rr := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsHandler(t *testing.T) {
	products, _, h := setupApp(t, testConfig())
	products.Put(model.CanonicalProduct{Name: "A"})
	_ = get(t, h, "/api/catalog/paginated")

	rr := get(t, h, "/debug/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.EqualValues(t, 1, m["products"])
	assert.GreaterOrEqual(t, m["requests_total"].(float64), 1.0)
}

func TestOpenAPIServed(t *testing.T) {
	_, _, h := setupApp(t, testConfig())
	rr := get(t, h, "/openapi.yaml")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "openapi:")
}

func TestDocsServed(t *testing.T) {
	_, _, h := setupApp(t, testConfig())
	rr := get(t, h, "/docs")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "swagger-ui")
}
