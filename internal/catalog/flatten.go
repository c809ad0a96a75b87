package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

// Flatten expands vendor documents into independent candidate rows, one per
// embedded product record. Filtering and sorting operate on these rows, never
// on the parent documents.
func Flatten(docs []model.LegacyVendorDocument) []model.LegacyRow {
	var n int
	for _, d := range docs {
		n += len(d.Products)
	}
	rows := make([]model.LegacyRow, 0, n)
	for _, d := range docs {
		for i, rec := range d.Products {
			rows = append(rows, model.LegacyRow{
				DocID:  d.ID,
				Index:  i,
				Vendor: d.Vendor,
				Record: rec,
			})
		}
	}
	return rows
}

// ParseRowID splits a synthesized legacy row id "<parentHex>-<index>" back
// into its parent document id and array position.
func ParseRowID(id string) (primitive.ObjectID, int, error) {
	cut := strings.LastIndex(id, "-")
	if cut <= 0 || cut == len(id)-1 {
		return primitive.NilObjectID, 0, fmt.Errorf("malformed row id %q", id)
	}
	docID, err := primitive.ObjectIDFromHex(id[:cut])
	if err != nil {
		return primitive.NilObjectID, 0, fmt.Errorf("malformed row id %q: %w", id, err)
	}
	idx, err := strconv.Atoi(id[cut+1:])
	if err != nil || idx < 0 {
		return primitive.NilObjectID, 0, fmt.Errorf("malformed row id %q", id)
	}
	return docID, idx, nil
}
