// Package model defines domain types used by the service.
package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanonicalProduct is one document of the normalized product collection,
// one per SKU, carrying the authoritative price and stock fields.
type CanonicalProduct struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SKU                  string             `json:"sku" bson:"sku"`
	Name                 string             `json:"name" bson:"name"`
	Brand                string             `json:"brand,omitempty" bson:"brand,omitempty"`
	Manufacturer         string             `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	Composition          string             `json:"composition,omitempty" bson:"composition,omitempty"`
	Molecules            []string           `json:"molecules,omitempty" bson:"molecules,omitempty"`
	DisplayPrice         float64            `json:"display_price" bson:"display_price"`
	MRP                  float64            `json:"mrp,omitempty" bson:"mrp,omitempty"`
	PackSize             int                `json:"pack_size" bson:"pack_size"`
	ProductForm          string             `json:"product_form,omitempty" bson:"product_form,omitempty"`
	Category             string             `json:"category" bson:"category"`
	Tags                 []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Stock                int                `json:"stock" bson:"stock"`
	IsSellable           *bool              `json:"is_sellable,omitempty" bson:"is_sellable,omitempty"`
	IsActive             *bool              `json:"is_active,omitempty" bson:"is_active,omitempty"`
	PrescriptionRequired bool               `json:"prescription_required" bson:"prescription_required"`
	Image                string             `json:"image,omitempty" bson:"image,omitempty"`
	Rating               float64            `json:"rating,omitempty" bson:"rating,omitempty"`
	RatingCount          int                `json:"rating_count,omitempty" bson:"rating_count,omitempty"`
	Description          string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt            int64              `json:"created_at" bson:"created_at"`
	UpdatedAt            int64              `json:"updated_at" bson:"updated_at"`
}

// Visible reports whether the product is eligible for browsing. A nil flag
// means the ingester never wrote it; only an explicit false hides the record.
func (p CanonicalProduct) Visible() bool {
	if p.IsSellable != nil && !*p.IsSellable {
		return false
	}
	if p.IsActive != nil && !*p.IsActive {
		return false
	}
	return true
}

// SuggestionStub is a lightweight related-product entry embedded in a
// scraped legacy record.
type SuggestionStub struct {
	Name  string `json:"name" bson:"name"`
	URL   string `json:"url,omitempty" bson:"url,omitempty"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
	Price string `json:"price,omitempty" bson:"price,omitempty"`
}

// LegacyProductRecord is one scraped product inside a vendor document.
// Price fields are raw strings as scraped and may carry currency glyphs,
// thousands separators, or be absent entirely.
type LegacyProductRecord struct {
	Name         string           `json:"name" bson:"name"`
	URL          string           `json:"url,omitempty" bson:"url,omitempty"`
	Image        string           `json:"image,omitempty" bson:"image,omitempty"`
	MRP          string           `json:"mrp,omitempty" bson:"mrp,omitempty"`
	Price        string           `json:"price,omitempty" bson:"price,omitempty"`
	MemberPrice  string           `json:"member_price,omitempty" bson:"member_price,omitempty"`
	PerUnit      string           `json:"per_unit,omitempty" bson:"per_unit,omitempty"`
	Manufacturer string           `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
	Composition  string           `json:"composition,omitempty" bson:"composition,omitempty"`
	PackSize     string           `json:"pack_size,omitempty" bson:"pack_size,omitempty"`
	Description  string           `json:"description,omitempty" bson:"description,omitempty"`
	Rating       float64          `json:"rating,omitempty" bson:"rating,omitempty"`
	Reviews      int              `json:"reviews,omitempty" bson:"reviews,omitempty"`
	ScrapedAt    int64            `json:"scraped_at,omitempty" bson:"scraped_at,omitempty"`
	Suggestions  []SuggestionStub `json:"suggestions,omitempty" bson:"suggestions,omitempty"`
}

// LegacyVendorDocument is one vendor scrape holding a denormalized array of
// product records. Records have no identity of their own outside this parent.
type LegacyVendorDocument struct {
	ID        primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	Vendor    string                `json:"vendor" bson:"vendor"`
	SourceURL string                `json:"source_url,omitempty" bson:"source_url,omitempty"`
	ScrapedAt int64                 `json:"scraped_at,omitempty" bson:"scraped_at,omitempty"`
	Products  []LegacyProductRecord `json:"products" bson:"products"`
}

// LegacyRow is one flattened candidate row: a record plus the parent
// coordinates that give it a synthesized identity.
type LegacyRow struct {
	DocID  primitive.ObjectID
	Index  int
	Vendor string
	Record LegacyProductRecord
}

// RowID returns the synthesized identity "<parentHex>-<index>".
func (r LegacyRow) RowID() string {
	return fmt.Sprintf("%s-%d", r.DocID.Hex(), r.Index)
}

// NormalizedProductView is the unified engine output shape. It is built per
// request and never persisted.
type NormalizedProductView struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Brand                string   `json:"brand,omitempty"`
	Manufacturer         string   `json:"manufacturer,omitempty"`
	Composition          string   `json:"composition,omitempty"`
	Molecules            []string `json:"molecules,omitempty"`
	Price                float64  `json:"price"`
	MRP                  float64  `json:"mrp"`
	Discount             *int     `json:"discount,omitempty"`
	PerUnitPrice         string   `json:"per_unit_price,omitempty"`
	PackSize             string   `json:"pack_size,omitempty"`
	Category             string   `json:"category,omitempty"`
	ProductForm          string   `json:"product_form,omitempty"`
	PrescriptionRequired bool     `json:"prescription_required"`
	Stock                int      `json:"stock,omitempty"`
	Rating               float64  `json:"rating"`
	Reviews              int      `json:"reviews"`
	Image                string   `json:"image"`
	Description          string   `json:"description,omitempty"`
	Source               string   `json:"source"`
}

// FacetDescriptor is one entry of a browse filter list. Divider entries carry
// no value and exist only for UI grouping.
type FacetDescriptor struct {
	Label   string `json:"label"`
	Value   string `json:"value,omitempty"`
	Divider bool   `json:"divider,omitempty"`
}

// Pagination is the page metadata block attached to a paginated response.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// PagedResult bundles one page of normalized views with its metadata.
type PagedResult struct {
	Items      []NormalizedProductView
	Pagination Pagination
}
