package catalog

import (
	"sort"
	"strings"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

// canonicalLess returns the ordering for canonical products under the given
// key. Ties fall through to the document id so every ordering is total and
// deterministic.
func canonicalLess(key SortKey) func(a, b model.CanonicalProduct) bool {
	return func(a, b model.CanonicalProduct) bool {
		switch key {
		case SortPriceAsc:
			if a.DisplayPrice != b.DisplayPrice {
				return a.DisplayPrice < b.DisplayPrice
			}
		case SortPriceDesc:
			if a.DisplayPrice != b.DisplayPrice {
				return a.DisplayPrice > b.DisplayPrice
			}
		case SortRatingDesc:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		case SortNewest:
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt > b.CreatedAt
			}
		case SortPopularity:
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
		default:
			if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
				return c < 0
			}
		}
		return a.ID.Hex() < b.ID.Hex()
	}
}

// sortLegacyRows orders flattened rows in place: image tier first when the
// spec asks for it, then the requested key, then the synthesized row id.
func (e *Engine) sortLegacyRows(rows []model.LegacyRow, spec FilterSpec) {
	less := e.legacyLess(spec)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

func (e *Engine) legacyLess(spec FilterSpec) func(a, b model.LegacyRow) bool {
	return func(a, b model.LegacyRow) bool {
		if spec.TierSort {
			ta := e.norm.ImageTier(a.Record.Image)
			tb := e.norm.ImageTier(b.Record.Image)
			if ta != tb {
				return ta < tb
			}
		}
		switch spec.Sort {
		case SortPriceAsc:
			pa, _ := legacySalePrice(a.Record)
			pb, _ := legacySalePrice(b.Record)
			if pa != pb {
				return pa < pb
			}
		case SortPriceDesc:
			pa, _ := legacySalePrice(a.Record)
			pb, _ := legacySalePrice(b.Record)
			if pa != pb {
				return pa > pb
			}
		case SortRatingDesc:
			if a.Record.Rating != b.Record.Rating {
				return a.Record.Rating > b.Record.Rating
			}
		case SortNewest:
			if a.Record.ScrapedAt != b.Record.ScrapedAt {
				return a.Record.ScrapedAt > b.Record.ScrapedAt
			}
		case SortName:
			na := strings.ToLower(e.norm.CleanName(a.Record.Name))
			nb := strings.ToLower(e.norm.CleanName(b.Record.Name))
			if c := strings.Compare(na, nb); c != 0 {
				return c < 0
			}
		default: // SortPopularity
			if a.Record.Reviews != b.Record.Reviews {
				return a.Record.Reviews > b.Record.Reviews
			}
		}
		return a.RowID() < b.RowID()
	}
}
