package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rta-kabinets/db"
	"rta-kabinets/models"
)

// VariantRepository reads product variants straight from the site database
type VariantRepository struct{}

// NewVariantRepository creates a new VariantRepository
func NewVariantRepository() *VariantRepository {
	return &VariantRepository{}
}

// Ensure VariantRepository implements VariantSource
var _ VariantSource = (*VariantRepository)(nil)

// ListVariants returns every variant joined with its product, ordered the
// same way the admin API lists them (by product, then variant id)
func (r *VariantRepository) ListVariants(ctx context.Context) ([]models.ProductVariant, error) {
	zap.S().Debugf("🔍 ListVariants: querying product variants")

	query := `
		SELECT
			pv.id,
			pv.product_id,
			p.name,
			COALESCE(pv.color, '') AS color,
			COALESCE(pv.color_hex, '') AS color_hex,
			COALESCE(pv.size, '') AS size,
			pv.price,
			COALESCE(p.description, '') AS description,
			COALESCE(pv.image_path, p.image_path, '') AS image_path
		FROM product_variants pv
		INNER JOIN products p ON pv.product_id = p.id
		ORDER BY pv.product_id ASC, pv.id ASC
	`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		zap.S().Errorf("❌ Error querying product variants: %v", err)
		return nil, fmt.Errorf("failed to query product variants: %w", err)
	}
	defer rows.Close()

	var variants []models.ProductVariant
	for rows.Next() {
		var v models.ProductVariant
		var price decimal.NullDecimal
		err := rows.Scan(
			&v.ID,
			&v.ProductID,
			&v.ProductName,
			&v.Color,
			&v.ColorHex,
			&v.Size,
			&price,
			&v.Description,
			&v.ImagePath,
		)
		if err != nil {
			zap.S().Warnf("⚠️  Error scanning product variant: %v", err)
			continue
		}
		if price.Valid && !price.Decimal.IsNegative() {
			v.Price = price.Decimal
		}
		variants = append(variants, v)
	}

	if err := rows.Err(); err != nil {
		zap.S().Errorf("❌ Error iterating product variants: %v", err)
		return nil, fmt.Errorf("failed to iterate product variants: %w", err)
	}

	zap.S().Infof("✓ Successfully fetched %d product variants", len(variants))
	return variants, nil
}
