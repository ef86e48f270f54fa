package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"rta-kabinets/models"
	"rta-kabinets/utils"
)

// Attribute names accepted by AvailableValues and Selections.Set
const (
	AttrColor = "color"
	AttrSize  = "size"
)

// Index is the grouped, read-only view of a flat variant list.
// It is rebuilt whole whenever the variant list changes.
type Index struct {
	groups   []models.VariantGroup
	byID     map[int64]int
	variants int
}

// BuildIndex groups variants by product id. Groups keep the order in which
// each product was first seen, variants keep their input order.
func BuildIndex(variants []models.ProductVariant) *Index {
	idx := &Index{byID: make(map[int64]int)}
	for _, v := range variants {
		pos, ok := idx.byID[v.ProductID]
		if !ok {
			pos = len(idx.groups)
			idx.byID[v.ProductID] = pos
			idx.groups = append(idx.groups, models.VariantGroup{
				ProductID: v.ProductID,
				Name:      v.ProductName,
			})
		}
		idx.groups[pos].Variants = append(idx.groups[pos].Variants, v)
		idx.variants++
	}
	return idx
}

// Groups returns every group in first-seen product order
func (idx *Index) Groups() []models.VariantGroup {
	if idx == nil {
		return nil
	}
	out := make([]models.VariantGroup, len(idx.groups))
	copy(out, idx.groups)
	return out
}

// Group looks up the group of a product
func (idx *Index) Group(productID int64) (models.VariantGroup, bool) {
	if idx == nil {
		return models.VariantGroup{}, false
	}
	pos, ok := idx.byID[productID]
	if !ok {
		return models.VariantGroup{}, false
	}
	return idx.groups[pos], true
}

// Len is the number of products
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.groups)
}

// VariantCount is the number of variants across all groups
func (idx *Index) VariantCount() int {
	if idx == nil {
		return 0
	}
	return idx.variants
}

// Filter returns the groups whose product name contains query, ignoring case.
// An empty query returns every group.
func (idx *Index) Filter(query string) []models.VariantGroup {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return idx.Groups()
	}
	var out []models.VariantGroup
	for _, g := range idx.Groups() {
		if strings.Contains(strings.ToLower(g.Name), query) {
			out = append(out, g)
		}
	}
	return out
}

// AvailableValues lists the distinct values of attribute ("color" or "size")
// in first-seen order. Unknown attributes yield an empty list.
func AvailableValues(group models.VariantGroup, attribute string) []string {
	var pick func(models.ProductVariant) string
	switch attribute {
	case AttrColor:
		pick = func(v models.ProductVariant) string { return v.Color }
	case AttrSize:
		pick = func(v models.ProductVariant) string { return v.Size }
	default:
		return []string{}
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, v := range group.Variants {
		val := pick(v)
		if val == "" || seen[val] {
			continue
		}
		seen[val] = true
		out = append(out, val)
	}
	return out
}

// ColorOptions pairs each available color with the hex swatch of the first variant carrying it.
// Variants without a swatch fall back to the standard finish colors.
func ColorOptions(group models.VariantGroup) []models.ColorOption {
	seen := make(map[string]bool)
	out := []models.ColorOption{}
	for _, v := range group.Variants {
		if v.Color == "" || seen[v.Color] {
			continue
		}
		seen[v.Color] = true
		hex := v.ColorHex
		if hex == "" {
			hex = utils.FinishHex(v.Color)
		}
		out = append(out, models.ColorOption{Name: v.Color, Hex: hex})
	}
	return out
}

// PriceRange returns the lowest and highest variant price of a group
func PriceRange(group models.VariantGroup) (min, max decimal.Decimal) {
	for i, v := range group.Variants {
		if i == 0 || v.Price.LessThan(min) {
			min = v.Price
		}
		if i == 0 || v.Price.GreaterThan(max) {
			max = v.Price
		}
	}
	return min, max
}

// Describe builds the admin view of a group with its color and size options.
// Description and image come from the first variant.
func Describe(group models.VariantGroup) models.CatalogGroup {
	cg := models.CatalogGroup{
		VariantGroup: group,
		Colors:       ColorOptions(group),
		Sizes:        AvailableValues(group, AttrSize),
	}
	if len(group.Variants) > 0 {
		cg.Description = group.Variants[0].Description
		cg.ImagePath = group.Variants[0].ImagePath
	}
	return cg
}
