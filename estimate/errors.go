package estimate

import (
	"errors"
	"fmt"

	"rta-kabinets/apperr"
)

var (
	// ErrMissingSelection is returned when a product is added before color and size are chosen
	ErrMissingSelection = errors.New("select a color and a size first")
	// ErrNoMatchingVariant is returned when the chosen color/size pair is not sold
	ErrNoMatchingVariant = fmt.Errorf("selected combination is not available: %w", apperr.ErrUnavailable)
	// ErrItemNotFound is returned when a line item id is not in the ledger
	ErrItemNotFound = fmt.Errorf("line item %w", apperr.ErrNotFound)
	// ErrSessionNotFound is returned for an unknown estimate session id
	ErrSessionNotFound = fmt.Errorf("estimate session %w", apperr.ErrNotFound)
	// ErrProductNotFound is returned when a product id is not in the catalog
	ErrProductNotFound = fmt.Errorf("product %w", apperr.ErrNotFound)
	// ErrMissingClientInfo is returned when the quote is generated without name, address or phone
	ErrMissingClientInfo = errors.New("client name, address and phone are required")
)
