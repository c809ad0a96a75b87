package catalog

import (
	"context"
	"math/rand"
	"strings"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

// Sample draws up to count flattened legacy rows uniformly without
// replacement. Rows with missing or placeholder imagery are excluded before
// drawing so the result never under-fills with junk, and an optional vendor
// filter narrows the eligible set. Order is not specified and differs
// between calls.
func (e *Engine) Sample(ctx context.Context, count int, vendor string) ([]model.NormalizedProductView, error) {
	if count < 1 {
		count = 1
	}
	if count > sampleMax {
		count = sampleMax
	}

	rows, err := e.legacyRows(ctx)
	if err != nil {
		return nil, err
	}
	eligible := rows[:0:0]
	for _, r := range rows {
		if !e.norm.UsableImage(r.Record.Image) {
			continue
		}
		if vendor != "" && !strings.EqualFold(r.Vendor, vendor) {
			continue
		}
		eligible = append(eligible, r)
	}

	if count > len(eligible) {
		count = len(eligible)
	}
	// Partial Fisher-Yates: only the drawn prefix needs shuffling.
	for i := 0; i < count; i++ {
		j := i + rand.Intn(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}

	out := make([]model.NormalizedProductView, 0, count)
	for _, r := range eligible[:count] {
		out = append(out, e.norm.FromLegacy(r))
	}
	return out, nil
}
