package estimate

import (
	"strings"
	"sync"
	"time"

	"rta-kabinets/apperr"
	"rta-kabinets/catalog"
	"rta-kabinets/models"
)

// Session is the state of one estimate being edited: per-product selections,
// the ledger and the client profile. Every transition holds the session lock,
// so concurrent HTTP requests on the same estimate apply one at a time.
type Session struct {
	mu         sync.Mutex
	id         string
	createdAt  time.Time
	selections *catalog.Selections
	ledger     Ledger
	client     models.ClientProfile
}

// NewSession creates an empty session
func NewSession(id string, createdAt time.Time) *Session {
	return &Session{
		id:         id,
		createdAt:  createdAt,
		selections: catalog.NewSelections(),
	}
}

func (s *Session) ID() string { return s.id }

// Select merge-patches the product's selection and reports how it resolves now
func (s *Session) Select(group models.VariantGroup, patch models.SelectionPatch) models.SelectionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := s.selections.Patch(group.ProductID, patch)
	res := catalog.Resolve(group, sel)
	out := models.SelectionResponse{
		ProductID: group.ProductID,
		Selection: sel,
		Status:    res.Status.String(),
		Missing:   res.Missing,
	}
	if res.Status == catalog.Resolved {
		v := res.Variant
		out.Variant = &v
	}
	return out
}

// AddSelected adds the variant the product's stored selection resolves to
func (s *Session) AddSelected(group models.VariantGroup, quantity int) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := catalog.Resolve(group, s.selections.Get(group.ProductID))
	switch res.Status {
	case catalog.Incomplete:
		return models.LineItem{}, apperr.Validation(ErrMissingSelection, res.Missing...)
	case catalog.NoMatchingVariant:
		return models.LineItem{}, ErrNoMatchingVariant
	}
	return s.ledger.Add(res.Variant, quantity), nil
}

// AddVariant adds an already resolved variant
func (s *Session) AddVariant(v models.ProductVariant, quantity int) models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Add(v, quantity)
}

func (s *Session) UpdateQuantity(id int64, raw string) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.UpdateQuantity(id, raw)
}

func (s *Session) UpdatePrice(id int64, raw string) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.UpdatePrice(id, raw)
}

func (s *Session) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Remove(id)
}

// Clear empties the ledger and resets the client profile. Selections are kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Clear()
	s.client = models.ClientProfile{}
}

// SetClient replaces the client profile. Required fields are only checked at quote time.
func (s *Session) SetClient(p models.ClientProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = p
}

// Snapshot returns the full session state
func (s *Session) Snapshot() models.EstimateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.EstimateResponse{
		ID:         s.id,
		CreatedAt:  s.createdAt.UTC().Format(time.RFC3339),
		Items:      s.ledger.Items(),
		Total:      s.ledger.Total(),
		Client:     s.client,
		Selections: s.selections.All(),
	}
}

// QuoteInput returns the profile and items to print, after checking the required client fields
func (s *Session) QuoteInput() (models.ClientProfile, []models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ValidateProfile(s.client); err != nil {
		return models.ClientProfile{}, nil, err
	}
	return s.client, s.ledger.Items(), nil
}

// ValidateProfile checks that name, address and phone are filled in
func ValidateProfile(p models.ClientProfile) error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return apperr.Validation(ErrMissingClientInfo, missing...)
	}
	return nil
}
