package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

// BrandStore holds the legacy vendor-scrape collection. Flattening the nested
// product arrays is the engine's job; the store only hands out document
// snapshots.
type BrandStore struct {
	mu   sync.RWMutex
	docs []model.LegacyVendorDocument
	byID map[primitive.ObjectID]int
}

// NewBrandStore creates an empty BrandStore.
func NewBrandStore() *BrandStore {
	return &BrandStore{byID: make(map[primitive.ObjectID]int)}
}

// Put inserts or replaces a vendor document by id, assigning an id when
// absent.
func (s *BrandStore) Put(d model.LegacyVendorDocument) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if i, ok := s.byID[d.ID]; ok {
		s.docs[i] = d
		return d.ID
	}
	s.byID[d.ID] = len(s.docs)
	s.docs = append(s.docs, d)
	return d.ID
}

// Get returns the vendor document with the given id.
func (s *BrandStore) Get(ctx context.Context, id primitive.ObjectID) (model.LegacyVendorDocument, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.LegacyVendorDocument{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return model.LegacyVendorDocument{}, false, nil
	}
	return s.docs[i], true, nil
}

// All returns a snapshot of every vendor document in insertion order.
func (s *BrandStore) All(ctx context.Context) ([]model.LegacyVendorDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LegacyVendorDocument, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

// DistinctVendors returns the deduplicated non-empty vendor names in
// first-seen order.
func (s *BrandStore) DistinctVendors(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, d := range s.docs {
		if d.Vendor == "" {
			continue
		}
		if _, ok := seen[d.Vendor]; ok {
			continue
		}
		seen[d.Vendor] = struct{}{}
		out = append(out, d.Vendor)
	}
	return out, nil
}

// Len reports the vendor document count, used by the metrics endpoint.
func (s *BrandStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// stableSort orders items by less, preserving input order on ties.
func stableSort[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
