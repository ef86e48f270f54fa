package catalog

import (
	"fmt"

	"rta-kabinets/models"
)

// Status is the outcome of resolving a selection against a group
type Status int

const (
	// Incomplete means color or size has not been chosen yet
	Incomplete Status = iota
	// Resolved means exactly one variant was picked
	Resolved
	// NoMatchingVariant means both attributes are set but no variant carries that pair
	NoMatchingVariant
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case NoMatchingVariant:
		return "no_matching_variant"
	default:
		return "incomplete"
	}
}

// Resolution is the result of Resolve. Variant is only set when Status is Resolved.
type Resolution struct {
	Status  Status
	Variant models.ProductVariant
	Missing []string
}

// Resolve picks the variant of group matching selection. When the catalog
// holds duplicate color/size pairs the first one in input order wins.
func Resolve(group models.VariantGroup, sel models.AttributeSelection) Resolution {
	var missing []string
	if sel.Color == "" {
		missing = append(missing, AttrColor)
	}
	if sel.Size == "" {
		missing = append(missing, AttrSize)
	}
	if len(missing) > 0 {
		return Resolution{Status: Incomplete, Missing: missing}
	}

	for _, v := range group.Variants {
		if v.Color == sel.Color && v.Size == sel.Size {
			return Resolution{Status: Resolved, Variant: v}
		}
	}
	return Resolution{Status: NoMatchingVariant}
}

// Selections holds the per-product attribute choices of one editing session.
// It is not safe for concurrent use; the owning session serializes access.
type Selections struct {
	byProduct map[int64]models.AttributeSelection
}

func NewSelections() *Selections {
	return &Selections{byProduct: make(map[int64]models.AttributeSelection)}
}

// Set merges one attribute into the product's selection, keeping the other one
func (s *Selections) Set(productID int64, attribute, value string) error {
	sel := s.byProduct[productID]
	switch attribute {
	case AttrColor:
		sel.Color = value
	case AttrSize:
		sel.Size = value
	default:
		return fmt.Errorf("unknown attribute %q", attribute)
	}
	s.byProduct[productID] = sel
	return nil
}

// Patch merges every non-nil field of patch and returns the updated selection
func (s *Selections) Patch(productID int64, patch models.SelectionPatch) models.AttributeSelection {
	sel := s.byProduct[productID]
	if patch.Color != nil {
		sel.Color = *patch.Color
	}
	if patch.Size != nil {
		sel.Size = *patch.Size
	}
	s.byProduct[productID] = sel
	return sel
}

// Get returns the product's selection, empty when nothing was chosen
func (s *Selections) Get(productID int64) models.AttributeSelection {
	return s.byProduct[productID]
}

// All returns a copy of every stored selection
func (s *Selections) All() map[int64]models.AttributeSelection {
	out := make(map[int64]models.AttributeSelection, len(s.byProduct))
	for id, sel := range s.byProduct {
		out[id] = sel
	}
	return out
}

// Reset forgets the selection of one product
func (s *Selections) Reset(productID int64) {
	delete(s.byProduct, productID)
}
