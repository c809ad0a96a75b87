package catalog

import "strings"

// CatalogQueryRequest is the user-facing browse/search request after HTTP
// parameter parsing. Zero values mean "not supplied".
type CatalogQueryRequest struct {
	Page         int
	Limit        int
	Category     string
	Search       string
	PriceMin     float64
	PriceMax     float64
	Prescription string
	SortBy       string
}

// formSelectorPrefix marks a category selector that filters on product form
// instead of category.
const formSelectorPrefix = "form-"

// Plan compiles a browse request into the FilterSpec for one source. The
// result is a complete value; executing count and fetch against it always
// uses identical criteria.
func (e *Engine) Plan(req CatalogQueryRequest, source Source) FilterSpec {
	spec := FilterSpec{
		Source:   source,
		Search:   strings.ToLower(strings.TrimSpace(req.Search)),
		PriceMin: req.PriceMin,
		PriceMax: req.PriceMax,
		Sort:     parseSortKey(req.SortBy, source),
		Flatten:  source == SourceLegacy,
	}
	if spec.PriceMin < 0 {
		spec.PriceMin = 0
	}
	if spec.PriceMax <= 0 {
		spec.PriceMax = e.priceMaxDefault
	}

	selector := strings.TrimSpace(req.Category)
	switch {
	case selector == "" || strings.EqualFold(selector, "all"):
		// No category constraint. On the legacy source "all" listings get
		// the image-quality tier ordering.
		spec.TierSort = source == SourceLegacy
	case strings.EqualFold(selector, "popular"):
		spec.PopularOnly = true
	case strings.HasPrefix(selector, formSelectorPrefix):
		if source == SourceCanonical {
			spec.ProductForm = strings.TrimPrefix(selector, formSelectorPrefix)
		}
	default:
		spec.Category = selector
	}

	if source == SourceCanonical {
		switch strings.ToLower(strings.TrimSpace(req.Prescription)) {
		case "required":
			spec.Prescription = PrescriptionRequired
		case "not-required":
			spec.Prescription = PrescriptionNotRequired
		default:
			spec.Prescription = PrescriptionAll
		}
	}
	return spec
}

// parseSortKey maps a sortBy parameter onto a SortKey. Unknown values fall
// back to the per-source default: name for canonical, popularity for legacy.
func parseSortKey(sortBy string, source Source) SortKey {
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "name":
		return SortName
	case "price-low":
		return SortPriceAsc
	case "price-high":
		return SortPriceDesc
	case "rating":
		return SortRatingDesc
	case "newest":
		return SortNewest
	case "popularity":
		return SortPopularity
	}
	if source == SourceLegacy {
		return SortPopularity
	}
	return SortName
}
