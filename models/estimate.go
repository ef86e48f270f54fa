package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AttributeSelection is the current color/size choice for one product
type AttributeSelection struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// SelectionPatch merge-patches an AttributeSelection; nil fields are left untouched
// Example: {"color": "red"}
type SelectionPatch struct {
	Color *string `json:"color,omitempty"`
	Size  *string `json:"size,omitempty"`
}

// LineItem is a single estimate row. ID is the variant id.
type LineItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Amount returns quantity * price
func (li LineItem) Amount() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ClientProfile is the customer block printed on the quote
// Example: {"name": "Jane Doe", "address": "12 Main St", "phone": "520-000-0000",
// "email": "jane@example.com", "notes": "Install in March"}
type ClientProfile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Notes   string `json:"notes"`
}

// SelectionResponse reports how a product's selection currently resolves
// Example: {"productId": 2, "selection": {"color": "red"}, "status": "incomplete", "missing": ["size"]}
type SelectionResponse struct {
	ProductID int64              `json:"productId"`
	Selection AttributeSelection `json:"selection"`
	Status    string             `json:"status"`
	Missing   []string           `json:"missing,omitempty"`
	Variant   *ProductVariant    `json:"variant,omitempty"`
}

// EstimateResponse is the full state of an editing session
// Example response:
// {
//   "id": "5b7c1f0e-9a43-4d4e-9d8e-2f0b8f6b1c11",
//   "createdAt": "2026-02-06T10:30:00Z",
//   "items": [{"id": 7, "name": "Cabinet A - red - Large", "description": "", "price": "150", "quantity": 3}],
//   "total": "450",
//   "client": {"name": "Jane Doe", ...},
//   "selections": {"2": {"color": "red", "size": "Large"}}
// }
type EstimateResponse struct {
	ID         string                       `json:"id"`
	CreatedAt  string                       `json:"createdAt"`
	Items      []LineItem                   `json:"items"`
	Total      decimal.Decimal              `json:"total"`
	Client     ClientProfile                `json:"client"`
	Selections map[int64]AttributeSelection `json:"selections"`
}

// AddLineItemRequest is the body of POST /admin/estimates/:id/items.
// When Color and Size are omitted the session's stored selection is used.
// Example: {"productId": 2, "color": "red", "size": "Large", "quantity": 1}
type AddLineItemRequest struct {
	ProductID int64   `json:"productId"`
	Color     *string `json:"color,omitempty"`
	Size      *string `json:"size,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
}

// UpdateLineItemRequest is the body of PATCH /admin/estimates/:id/items/:itemId.
// Values are kept raw so that "", "abc" or -3 can be normalized to 0.
// Example: {"quantity": "3"} or {"price": 149.5}
type UpdateLineItemRequest struct {
	Quantity json.RawMessage `json:"quantity,omitempty"`
	Price    json.RawMessage `json:"price,omitempty"`
}

// GenerateQuoteRequest is the body of POST /admin/estimates/:id/pdf
// Example: {"fileName": "Estimate-Jane"}
type GenerateQuoteRequest struct {
	FileName string `json:"fileName"`
}
