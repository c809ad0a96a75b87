// Package catalog implements the query engine that turns browse/search
// requests into paginated, sorted, normalized product listings over the two
// product stores.
package catalog

import (
	"strings"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

// Source identifies which product collection a query runs against.
type Source int

const (
	SourceCanonical Source = iota
	SourceLegacy
)

func (s Source) String() string {
	if s == SourceLegacy {
		return "legacy"
	}
	return "canonical"
}

// SortKey is one of the supported result orderings.
type SortKey int

const (
	SortName SortKey = iota
	SortPriceAsc
	SortPriceDesc
	SortRatingDesc
	SortNewest
	SortPopularity
)

// PrescriptionFilter narrows results by the stored prescription flag.
type PrescriptionFilter int

const (
	PrescriptionAll PrescriptionFilter = iota
	PrescriptionRequired
	PrescriptionNotRequired
)

// popularReviewThreshold is the static review count above which a legacy
// record counts as "popular". There is no true popularity rank in the data.
const popularReviewThreshold = 10

// FilterSpec is the compiled, store-agnostic form of a catalog query. It is
// produced whole by the planner; nothing mutates it afterwards, so the count
// and fetch of a page always run against identical criteria.
type FilterSpec struct {
	Source       Source
	Category     string // exact category (canonical) or vendor name (legacy)
	ProductForm  string // canonical only, from a "form-" selector
	PopularOnly  bool
	Search       string // trimmed and lowercased; empty imposes no constraint
	PriceMin     float64
	PriceMax     float64
	Prescription PrescriptionFilter
	Sort         SortKey
	TierSort     bool // legacy "all": partition by image quality before sorting
	Flatten      bool // legacy: expand nested arrays into rows before filtering
}

// MatchCanonical reports whether a canonical product satisfies the spec.
func (f FilterSpec) MatchCanonical(p model.CanonicalProduct) bool {
	if !p.Visible() {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.ProductForm != "" && !strings.EqualFold(p.ProductForm, f.ProductForm) {
		return false
	}
	if f.PopularOnly && p.RatingCount < popularReviewThreshold {
		return false
	}
	if p.DisplayPrice < f.PriceMin || p.DisplayPrice > f.PriceMax {
		return false
	}
	switch f.Prescription {
	case PrescriptionRequired:
		if !p.PrescriptionRequired {
			return false
		}
	case PrescriptionNotRequired:
		if p.PrescriptionRequired {
			return false
		}
	}
	if f.Search != "" && !canonicalTextMatch(p, f.Search) {
		return false
	}
	return true
}

// MatchLegacy reports whether a flattened legacy row satisfies the spec.
// Rows with no usable price field are never visible.
func (f FilterSpec) MatchLegacy(r model.LegacyRow) bool {
	price, ok := legacySalePrice(r.Record)
	if !ok {
		return false
	}
	if f.Category != "" && !strings.EqualFold(r.Vendor, f.Category) {
		return false
	}
	if f.PopularOnly && r.Record.Reviews < popularReviewThreshold {
		return false
	}
	if price < f.PriceMin || price > f.PriceMax {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Record.Name), f.Search) {
		return false
	}
	return true
}

// canonicalTextMatch checks a lowercased needle against the searchable text
// fields of a canonical product.
func canonicalTextMatch(p model.CanonicalProduct, needle string) bool {
	for _, hay := range []string{p.Name, p.Composition, p.Brand, p.Manufacturer} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	for _, m := range p.Molecules {
		if strings.Contains(strings.ToLower(m), needle) {
			return true
		}
	}
	return false
}

// suggestionTextMatch is the narrower match used by the suggestion search:
// name, composition, and molecule fields only.
func suggestionTextMatch(p model.CanonicalProduct, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Composition), needle) {
		return true
	}
	for _, m := range p.Molecules {
		if strings.Contains(strings.ToLower(m), needle) {
			return true
		}
	}
	return false
}
