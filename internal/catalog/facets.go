package catalog

import (
	"context"
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

// newFacetCollator builds the locale-aware, case-insensitive collator used
// to order facet values. Collators buffer internally, so each request gets
// its own.
func newFacetCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// CanonicalFacets lists the browse filters for the canonical catalog: the
// synthetic "All Products" entry, then the distinct product forms, then the
// distinct categories, each group behind a divider.
func (e *Engine) CanonicalFacets(ctx context.Context) ([]model.FacetDescriptor, error) {
	forms, err := e.products.Distinct(ctx, func(p model.CanonicalProduct) string { return p.ProductForm })
	if err != nil {
		return nil, fmt.Errorf("distinct product forms: %w", err)
	}
	categories, err := e.products.Distinct(ctx, func(p model.CanonicalProduct) string { return p.Category })
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	coll := newFacetCollator()
	coll.SortStrings(forms)
	coll.SortStrings(categories)

	out := make([]model.FacetDescriptor, 0, len(forms)+len(categories)+3)
	out = append(out, model.FacetDescriptor{Label: "All Products", Value: "all"})
	if len(forms) > 0 {
		out = append(out, model.FacetDescriptor{Label: "Product Forms", Divider: true})
		for _, f := range forms {
			out = append(out, model.FacetDescriptor{Label: f, Value: formSelectorPrefix + f})
		}
	}
	if len(categories) > 0 {
		out = append(out, model.FacetDescriptor{Label: "Categories", Divider: true})
		for _, c := range categories {
			out = append(out, model.FacetDescriptor{Label: c, Value: c})
		}
	}
	return out, nil
}

// LegacyFacets lists the vendor facet of the legacy collection,
// alphabetically sorted behind the synthetic leading entry.
func (e *Engine) LegacyFacets(ctx context.Context) ([]model.FacetDescriptor, error) {
	vendors, err := e.brands.DistinctVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct vendors: %w", err)
	}
	newFacetCollator().SortStrings(vendors)

	out := make([]model.FacetDescriptor, 0, len(vendors)+2)
	out = append(out, model.FacetDescriptor{Label: "All Products", Value: "all"})
	if len(vendors) > 0 {
		out = append(out, model.FacetDescriptor{Label: "Vendors", Divider: true})
		for _, v := range vendors {
			out = append(out, model.FacetDescriptor{Label: v, Value: v})
		}
	}
	return out, nil
}
