package repository

import (
	"context"

	"rta-kabinets/models"
)

// VariantSource defines where the flat product variant list comes from
type VariantSource interface {
	ListVariants(ctx context.Context) ([]models.ProductVariant, error)
}

// Counter defines the contract for sequence numbers such as the estimate number
type Counter interface {
	Next(ctx context.Context, name string) (int, error)
}
