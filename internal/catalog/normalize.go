package catalog

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/medbazaar/pharmacy-catalog/internal/model"
)

// Defaults for field synthesis. They live on the Normalizer so tests can
// override them.
const (
	// DefaultMarkup is the synthetic markup applied to derive an MRP when a
	// record never stored one. It must stay in lockstep with
	// DefaultSyntheticDiscount.
	DefaultMarkup = 1.10

	// DefaultSyntheticDiscount is the discount percent reported whenever the
	// MRP itself was synthesized.
	DefaultSyntheticDiscount = 10

	// DefaultPlaceholderImage is the fixed image reference substituted for
	// missing or placeholder imagery.
	DefaultPlaceholderImage = "https://static.medbazaar.in/img/placeholder-med.png"
)

var (
	// defaultMirrorPrefixes mark image URLs served from low-quality external
	// mirrors; such rows sort behind normal imagery in "all" listings.
	defaultMirrorPrefixes = []string{
		"http://img.medimirror.",
		"https://img.medimirror.",
		"https://cache.scrapeproxy.",
	}

	// defaultNameSuffixes are literal vendor boilerplate fragments stripped
	// from scraped legacy names. Substring removal, not parsing.
	defaultNameSuffixes = []string{
		" Online at Best Price",
		" - Buy Medicines Online",
		" | Uses, Side Effects, Price",
	}
)

// Normalizer maps a raw record from either store into one
// NormalizedProductView. It is a pure transformation: missing fields get
// documented defaults, never errors.
type Normalizer struct {
	Markup            float64
	SyntheticDiscount int
	RatingFloor       float64
	RatingCeil        float64
	ReviewFloor       int
	ReviewCeil        int
	PlaceholderImage  string
	MirrorPrefixes    []string
	NameSuffixes      []string
}

// NewNormalizer returns a Normalizer with the production defaults.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		Markup:            DefaultMarkup,
		SyntheticDiscount: DefaultSyntheticDiscount,
		RatingFloor:       3.5,
		RatingCeil:        5.0,
		ReviewFloor:       25,
		ReviewCeil:        500,
		PlaceholderImage:  DefaultPlaceholderImage,
		MirrorPrefixes:    defaultMirrorPrefixes,
		NameSuffixes:      defaultNameSuffixes,
	}
}

// FromCanonical builds the unified view of a canonical product.
func (n *Normalizer) FromCanonical(p model.CanonicalProduct) model.NormalizedProductView {
	id := p.ID.Hex()
	price := p.DisplayPrice
	if price < 0 {
		price = 0
	}

	mrp := p.MRP
	synthMRP := mrp <= 0
	if synthMRP {
		mrp = n.syntheticMRP(price)
	}

	v := model.NormalizedProductView{
		ID:                   id,
		Name:                 p.Name,
		Brand:                p.Brand,
		Manufacturer:         p.Manufacturer,
		Composition:          p.Composition,
		Molecules:            p.Molecules,
		Price:                price,
		MRP:                  mrp,
		Category:             p.Category,
		ProductForm:          p.ProductForm,
		PrescriptionRequired: p.PrescriptionRequired,
		Stock:                p.Stock,
		Description:          p.Description,
		Image:                n.normalizeImage(p.Image),
		Source:               "canonical",
	}
	if p.PackSize >= 1 {
		v.PackSize = strconv.Itoa(p.PackSize)
		v.PerUnitPrice = perUnit(price, p.PackSize)
	}
	v.Discount = n.discount(price, mrp, synthMRP)
	v.Rating, v.Reviews = n.ratingAndReviews(id, p.Rating, p.RatingCount)
	return v
}

// FromLegacy builds the unified view of a flattened legacy row.
func (n *Normalizer) FromLegacy(r model.LegacyRow) model.NormalizedProductView {
	rec := r.Record
	id := r.RowID()

	price, _ := legacySalePrice(rec)
	mrp, hasMRP := parseMoney(rec.MRP)
	synthMRP := !hasMRP
	if synthMRP {
		mrp = n.syntheticMRP(price)
	}

	v := model.NormalizedProductView{
		ID:           id,
		Name:         n.CleanName(rec.Name),
		Brand:        r.Vendor,
		Manufacturer: rec.Manufacturer,
		Composition:  rec.Composition,
		Price:        price,
		MRP:          mrp,
		PackSize:     rec.PackSize,
		Category:     r.Vendor,
		Description:  rec.Description,
		Image:        n.normalizeImage(rec.Image),
		Source:       "legacy",
	}
	if count, ok := leadingCount(rec.PackSize); ok {
		v.PerUnitPrice = perUnit(price, count)
	} else {
		v.PerUnitPrice = rec.PerUnit
	}
	v.Discount = n.discount(price, mrp, synthMRP)
	v.Rating, v.Reviews = n.ratingAndReviews(id, rec.Rating, rec.Reviews)
	return v
}

// CleanName strips known vendor boilerplate suffixes from a scraped name.
func (n *Normalizer) CleanName(name string) string {
	for _, sfx := range n.NameSuffixes {
		if i := strings.Index(name, sfx); i > 0 {
			name = name[:i]
		}
	}
	return strings.TrimSpace(name)
}

// ImageTier buckets an image reference by quality: 1 for a normal reference,
// 2 for a known low-quality mirror, 3 for missing or placeholder.
func (n *Normalizer) ImageTier(image string) int {
	if image == "" || image == n.PlaceholderImage {
		return 3
	}
	for _, pfx := range n.MirrorPrefixes {
		if strings.HasPrefix(image, pfx) {
			return 2
		}
	}
	return 1
}

// UsableImage reports whether an image reference is real, i.e. neither empty
// nor the placeholder. The sampler filters on this before drawing.
func (n *Normalizer) UsableImage(image string) bool {
	return image != "" && image != n.PlaceholderImage
}

func (n *Normalizer) normalizeImage(image string) string {
	if image == "" || image == n.PlaceholderImage {
		return n.PlaceholderImage
	}
	return image
}

func (n *Normalizer) syntheticMRP(price float64) float64 {
	m, _ := decimal.NewFromFloat(price).
		Mul(decimal.NewFromFloat(n.Markup)).
		Round(2).Float64()
	return m
}

// discount computes the discount percent for a price/mrp pair. A synthesized
// MRP always reports the fixed synthetic discount so the pair stays
// consistent. Nil means "omit".
func (n *Normalizer) discount(price, mrp float64, synthMRP bool) *int {
	if synthMRP {
		d := n.SyntheticDiscount
		return &d
	}
	if mrp <= 0 {
		return nil
	}
	pct := decimal.NewFromInt(1).
		Sub(decimal.NewFromFloat(price).Div(decimal.NewFromFloat(mrp))).
		Mul(decimal.NewFromInt(100)).
		Round(0).IntPart()
	if pct < 0 {
		return nil
	}
	d := int(pct)
	return &d
}

// ratingAndReviews passes stored values through and synthesizes the rest.
// Synthesis is keyed on the record identity, so the same product reports the
// same rating and review count on every read.
func (n *Normalizer) ratingAndReviews(id string, rating float64, reviews int) (float64, int) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	seed := h.Sum32()
	if rating <= 0 {
		steps := uint32((n.RatingCeil-n.RatingFloor)*10) + 1
		rating = n.RatingFloor + float64(seed%steps)/10
	}
	if reviews <= 0 {
		span := n.ReviewCeil - n.ReviewFloor + 1
		reviews = n.ReviewFloor + int(seed>>8)%span
	}
	return rating, reviews
}

// legacySalePrice resolves the effective sale price of a scraped record:
// the first of regular price, member price, MRP that parses as a
// non-negative number.
func legacySalePrice(rec model.LegacyProductRecord) (float64, bool) {
	for _, raw := range []string{rec.Price, rec.MemberPrice, rec.MRP} {
		if v, ok := parseMoney(raw); ok {
			return v, true
		}
	}
	return 0, false
}

// parseMoney parses a scraped money string, tolerating currency glyphs,
// "Rs." markers, thousands separators and stray whitespace. Negative values
// are rejected.
func parseMoney(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	for _, cut := range []string{"₹", "Rs.", "Rs", "INR", ","} {
		s = strings.ReplaceAll(s, cut, "")
	}
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// perUnit formats price divided by a unit count, rounded to 2 decimals.
func perUnit(price float64, count int) string {
	if count < 1 {
		return ""
	}
	return decimal.NewFromFloat(price).
		Div(decimal.NewFromInt(int64(count))).
		Round(2).StringFixed(2)
}

// leadingCount extracts the first integer in a pack-size text such as
// "strip of 10 tablets".
func leadingCount(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil && n >= 1
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil && n >= 1
	}
	return 0, false
}
