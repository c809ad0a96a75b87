package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

func TestSyntheticMRPAndDiscount(t *testing.T) {
	n := NewNormalizer()
	p := model.CanonicalProduct{
		ID:           primitive.NewObjectID(),
		Name:         "Paracetamol 500mg",
		DisplayPrice: 48.5,
		PackSize:     10,
	}
	v := n.FromCanonical(p)

	assert.Equal(t, 48.5, v.Price)
	assert.Equal(t, 53.35, v.MRP) // 48.5 * 1.10 rounded to 2 places
	require.NotNil(t, v.Discount)
	assert.Equal(t, DefaultSyntheticDiscount, *v.Discount)
}

func TestStoredMRPDiscountDerived(t *testing.T) {
	n := NewNormalizer()
	p := model.CanonicalProduct{
		ID:           primitive.NewObjectID(),
		DisplayPrice: 80,
		MRP:          100,
	}
	v := n.FromCanonical(p)
	assert.Equal(t, 100.0, v.MRP)
	require.NotNil(t, v.Discount)
	assert.Equal(t, 20, *v.Discount)
}

func TestDiscountOmittedWhenPriceAboveMRP(t *testing.T) {
	n := NewNormalizer()
	p := model.CanonicalProduct{ID: primitive.NewObjectID(), DisplayPrice: 120, MRP: 100}
	v := n.FromCanonical(p)
	assert.Nil(t, v.Discount)
}

func TestNormalizerTripleStable(t *testing.T) {
	// Normalizing the same record twice yields the same price/mrp/discount.
	n := NewNormalizer()
	p := model.CanonicalProduct{ID: primitive.NewObjectID(), DisplayPrice: 33.33}
	a := n.FromCanonical(p)
	b := n.FromCanonical(p)
	assert.Equal(t, a.Price, b.Price)
	assert.Equal(t, a.MRP, b.MRP)
	require.NotNil(t, a.Discount)
	require.NotNil(t, b.Discount)
	assert.Equal(t, *a.Discount, *b.Discount)
}

func TestLegacySalePriceFallbackOrder(t *testing.T) {
	cases := []struct {
		name string
		rec  model.LegacyProductRecord
		want float64
		ok   bool
	}{
		{"regular wins", model.LegacyProductRecord{Price: "120", MemberPrice: "99", MRP: "150"}, 120, true},
		{"member next", model.LegacyProductRecord{MemberPrice: "₹99.50", MRP: "150"}, 99.5, true},
		{"mrp last", model.LegacyProductRecord{MRP: "Rs. 1,250"}, 1250, true},
		{"unparseable regular skipped", model.LegacyProductRecord{Price: "call us", MRP: "80"}, 80, true},
		{"nothing usable", model.LegacyProductRecord{Price: "n/a"}, 0, false},
		{"negative rejected", model.LegacyProductRecord{Price: "-5"}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := legacySalePrice(tc.rec)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromLegacySynthesizedMRP(t *testing.T) {
	n := NewNormalizer()
	row := model.LegacyRow{
		DocID:  primitive.NewObjectID(),
		Index:  0,
		Vendor: "MediMart",
		Record: model.LegacyProductRecord{Name: "Azithro 250", Price: "100"},
	}
	v := n.FromLegacy(row)
	assert.Equal(t, 100.0, v.Price)
	assert.Equal(t, 110.0, v.MRP)
	require.NotNil(t, v.Discount)
	assert.Equal(t, DefaultSyntheticDiscount, *v.Discount)
	assert.Equal(t, "legacy", v.Source)
}

func TestPerUnitPrice(t *testing.T) {
	n := NewNormalizer()

	p := model.CanonicalProduct{ID: primitive.NewObjectID(), DisplayPrice: 100, PackSize: 3}
	assert.Equal(t, "33.33", n.FromCanonical(p).PerUnitPrice)

	row := model.LegacyRow{
		DocID:  primitive.NewObjectID(),
		Record: model.LegacyProductRecord{Name: "x", Price: "50", PackSize: "strip of 10 tablets"},
	}
	assert.Equal(t, "5.00", n.FromLegacy(row).PerUnitPrice)

	// No numeric count: fall back to the scraped per-unit text.
	row.Record.PackSize = "one strip"
	row.Record.PerUnit = "₹5/tablet"
	assert.Equal(t, "₹5/tablet", n.FromLegacy(row).PerUnitPrice)
}

func TestCleanNameStripsVendorBoilerplate(t *testing.T) {
	n := NewNormalizer()
	got := n.CleanName("Dolo 650 Tablet Online at Best Price in India")
	assert.Equal(t, "Dolo 650 Tablet", got)

	// Names without boilerplate pass through untouched.
	assert.Equal(t, "Crocin Advance", n.CleanName("Crocin Advance"))
}

func TestImagePlaceholderSubstitution(t *testing.T) {
	n := NewNormalizer()
	p := model.CanonicalProduct{ID: primitive.NewObjectID()}
	assert.Equal(t, n.PlaceholderImage, n.FromCanonical(p).Image)

	p.Image = n.PlaceholderImage
	assert.Equal(t, n.PlaceholderImage, n.FromCanonical(p).Image)

	p.Image = "https://cdn.example.com/dolo.jpg"
	assert.Equal(t, p.Image, n.FromCanonical(p).Image)
}

func TestImageTier(t *testing.T) {
	n := NewNormalizer()
	assert.Equal(t, 1, n.ImageTier("https://cdn.example.com/a.jpg"))
	assert.Equal(t, 2, n.ImageTier("https://img.medimirror.net/a.jpg"))
	assert.Equal(t, 3, n.ImageTier(""))
	assert.Equal(t, 3, n.ImageTier(n.PlaceholderImage))
}

func TestSynthesizedRatingDeterministicAndBounded(t *testing.T) {
	n := NewNormalizer()
	id := primitive.NewObjectID()
	p := model.CanonicalProduct{ID: id, DisplayPrice: 10}

	first := n.FromCanonical(p)
	for i := 0; i < 10; i++ {
		v := n.FromCanonical(p)
		assert.Equal(t, first.Rating, v.Rating)
		assert.Equal(t, first.Reviews, v.Reviews)
	}
	assert.GreaterOrEqual(t, first.Rating, n.RatingFloor)
	assert.LessOrEqual(t, first.Rating, n.RatingCeil)
	assert.GreaterOrEqual(t, first.Reviews, n.ReviewFloor)
	assert.LessOrEqual(t, first.Reviews, n.ReviewCeil)
}

func TestStoredRatingPassesThrough(t *testing.T) {
	n := NewNormalizer()
	p := model.CanonicalProduct{ID: primitive.NewObjectID(), Rating: 4.2, RatingCount: 37}
	v := n.FromCanonical(p)
	assert.Equal(t, 4.2, v.Rating)
	assert.Equal(t, 37, v.Reviews)
}

func TestParseMoney(t *testing.T) {
	cases := map[string]struct {
		want float64
		ok   bool
	}{
		"120":       {120, true},
		" ₹45.90 ":  {45.9, true},
		"Rs. 1,099": {1099, true},
		"INR 20":    {20, true},
		"":          {0, false},
		"free":      {0, false},
	}
	for raw, tc := range cases {
		got, ok := parseMoney(raw)
		assert.Equal(t, tc.ok, ok, "input %q", raw)
		assert.Equal(t, tc.want, got, "input %q", raw)
	}
}
