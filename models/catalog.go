package models

import "github.com/shopspring/decimal"

// ProductVariant is one purchasable color/size combination of a product,
// as served by GET /api/product-variants/admin/all.
// Example: {"id": 7, "product_id": 2, "product_name": "Cabinet A", "color": "red",
// "colorHex": "#c0392b", "size": "Large", "price": "150.00",
// "description": "Solid oak", "image_path": "/uploads/cabinet-a.jpg"}
type ProductVariant struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Color       string          `json:"color"`
	ColorHex    string          `json:"colorHex"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImagePath   string          `json:"image_path"`
}

// VariantGroup holds every variant of a single product, in catalog order
type VariantGroup struct {
	ProductID int64            `json:"productId"`
	Name      string           `json:"name"`
	Variants  []ProductVariant `json:"variants"`
}

// ColorOption is a selectable color with the swatch of its first variant
type ColorOption struct {
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// CatalogGroup is the admin view of a VariantGroup with its selection controls
// Example response item:
// {
//   "productId": 2,
//   "name": "Cabinet A",
//   "description": "Solid oak",
//   "imagePath": "/uploads/cabinet-a.jpg",
//   "colors": [{"name": "red", "hex": "#c0392b"}],
//   "sizes": ["Small", "Large"],
//   "variants": [...]
// }
type CatalogGroup struct {
	VariantGroup
	Description string        `json:"description"`
	ImagePath   string        `json:"imagePath,omitempty"`
	Colors      []ColorOption `json:"colors"`
	Sizes       []string      `json:"sizes"`
}

// CatalogGroupsResponse is returned by GET /admin/catalog/groups
type CatalogGroupsResponse struct {
	Groups       []CatalogGroup `json:"groups"`
	ProductCount int            `json:"productCount"`
	VariantCount int            `json:"variantCount"`
	LoadedAt     string         `json:"loadedAt,omitempty"`
}

// BrochureProduct is one product card of the printable catalog brochure
type BrochureProduct struct {
	Name        string
	Description string
	ImageURL    string
	Colors      []ColorOption
	Sizes       []string
	PriceLabel  string
}

// BrochureData is the data passed to the brochure template
type BrochureData struct {
	BusinessName string
	Tagline      string
	Query        string
	Pages        [][]BrochureProduct
	GeneratedAt  string
}
