package estimate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"rta-kabinets/models"
)

// MaxQuantity is the largest quantity a line item can hold
const MaxQuantity = math.MaxInt32

// Ledger is the ordered list of estimate line items. At most one item exists
// per variant id. Zero value is an empty ledger.
type Ledger struct {
	items []models.LineItem
}

// LineName is the display name of a variant on the estimate, e.g. "Cabinet A - red - Large"
func LineName(v models.ProductVariant) string {
	return fmt.Sprintf("%s - %s - %s", v.ProductName, v.Color, v.Size)
}

// Add appends a line item for the variant with its current price and description.
// When the variant is already on the ledger its quantity is incremented instead.
// A quantity below 1 adds a single unit; quantities stop at MaxQuantity.
func (l *Ledger) Add(v models.ProductVariant, quantity int) models.LineItem {
	quantity = min(max(quantity, 1), MaxQuantity)
	if i := l.indexOf(v.ID); i >= 0 {
		l.items[i].Quantity = min(l.items[i].Quantity, MaxQuantity-quantity) + quantity
		return l.items[i]
	}

	item := models.LineItem{
		ID:          v.ID,
		Name:        LineName(v),
		Description: v.Description,
		Price:       v.Price,
		Quantity:    quantity,
	}
	l.items = append(l.items, item)
	return item
}

// UpdateQuantity stores the parsed quantity of an item. See ParseQuantity.
func (l *Ledger) UpdateQuantity(id int64, raw string) (models.LineItem, error) {
	i := l.indexOf(id)
	if i < 0 {
		return models.LineItem{}, fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	l.items[i].Quantity = ParseQuantity(raw)
	return l.items[i], nil
}

// UpdatePrice stores the parsed unit price of an item. See ParsePrice.
func (l *Ledger) UpdatePrice(id int64, raw string) (models.LineItem, error) {
	i := l.indexOf(id)
	if i < 0 {
		return models.LineItem{}, fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	l.items[i].Price = ParsePrice(raw)
	return l.items[i], nil
}

// Remove deletes an item; unknown ids are ignored
func (l *Ledger) Remove(id int64) {
	i := l.indexOf(id)
	if i < 0 {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
}

// Clear empties the ledger
func (l *Ledger) Clear() {
	l.items = nil
}

// Items returns a copy of the line items in insertion order
func (l *Ledger) Items() []models.LineItem {
	out := make([]models.LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int { return len(l.items) }

// Total sums quantity * price over the current items. It is never cached.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.Amount())
	}
	return total
}

func (l *Ledger) indexOf(id int64) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// ParseQuantity turns user input into a whole quantity.
// Fractions are truncated; empty, non-numeric, negative, NaN, infinite and
// out-of-range input all become 0.
func ParseQuantity(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > MaxQuantity {
		return 0
	}
	return int(f)
}

// ParsePrice turns user input into a unit price.
// Empty, non-numeric, negative, NaN and infinite input become 0.
func ParsePrice(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NewFromFloat(f)
	}
	return d
}
