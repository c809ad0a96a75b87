// Package store implements in-process document stores backing the catalog.
//
// The stores expose the filter/count/sort/skip/limit querying surface the
// engine needs. Count and Find are independent calls: under concurrent writes
// a count may drift a few documents from a subsequent fetch, which callers
// tolerate.
package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

// ProductStore holds the canonical per-SKU product collection.
type ProductStore struct {
	mu   sync.RWMutex
	docs []model.CanonicalProduct
	byID map[primitive.ObjectID]int
}

// NewProductStore creates an empty ProductStore.
func NewProductStore() *ProductStore {
	return &ProductStore{byID: make(map[primitive.ObjectID]int)}
}

// Put inserts or replaces a product by id, assigning an id when absent.
// Only the ingest path and tests write; the engine never calls Put.
func (s *ProductStore) Put(p model.CanonicalProduct) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if i, ok := s.byID[p.ID]; ok {
		s.docs[i] = p
		return p.ID
	}
	s.byID[p.ID] = len(s.docs)
	s.docs = append(s.docs, p)
	return p.ID
}

// Get returns the product with the given id.
func (s *ProductStore) Get(ctx context.Context, id primitive.ObjectID) (model.CanonicalProduct, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.CanonicalProduct{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return model.CanonicalProduct{}, false, nil
	}
	return s.docs[i], true, nil
}

// Count returns the number of documents matching pred.
func (s *ProductStore) Count(ctx context.Context, pred func(model.CanonicalProduct) bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.docs {
		if pred(p) {
			n++
		}
	}
	return n, nil
}

// Find returns matching documents ordered by less, skipping skip and
// returning at most limit. A nil less keeps insertion order. limit < 0 means
// no limit.
func (s *ProductStore) Find(ctx context.Context, pred func(model.CanonicalProduct) bool, less func(a, b model.CanonicalProduct) bool, skip, limit int) ([]model.CanonicalProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]model.CanonicalProduct, 0, 32)
	for _, p := range s.docs {
		if pred(p) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	if less != nil {
		stableSort(matched, less)
	}
	return window(matched, skip, limit), nil
}

// Distinct returns the deduplicated non-empty values of field across all
// documents, in first-seen order.
func (s *ProductStore) Distinct(ctx context.Context, field func(model.CanonicalProduct) string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.docs {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Len reports the document count, used by the metrics endpoint.
func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// window applies skip/limit to an already-ordered slice, copying out so the
// caller never aliases store-internal memory.
func window[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
