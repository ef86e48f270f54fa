package controller

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"rta-kabinets/estimate"
	"rta-kabinets/metrics"
	"rta-kabinets/models"
	"rta-kabinets/service"
)

// EstimateController handles the estimate editing session and quote download
type EstimateController struct {
	sessions *estimate.Sessions
	catalog  *service.CatalogStore
	quotes   *service.QuoteService
	metrics  *metrics.Metrics
}

// NewEstimateController creates a new EstimateController
func NewEstimateController(sessions *estimate.Sessions, catalog *service.CatalogStore, quotes *service.QuoteService, m *metrics.Metrics) *EstimateController {
	return &EstimateController{
		sessions: sessions,
		catalog:  catalog,
		quotes:   quotes,
		metrics:  m,
	}
}

func (c *EstimateController) session(w http.ResponseWriter, r *http.Request, op string) (*estimate.Session, bool) {
	s, err := c.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, op, err)
		return nil, false
	}
	return s, true
}

// group loads the catalog on first use and looks the product up
func (c *EstimateController) group(w http.ResponseWriter, r *http.Request, op string, productID int64) (models.VariantGroup, bool) {
	if _, err := c.catalog.EnsureLoaded(r.Context()); err != nil {
		writeError(w, r, op, err)
		return models.VariantGroup{}, false
	}
	g, err := c.catalog.Group(productID)
	if err != nil {
		writeError(w, r, op, err)
		return models.VariantGroup{}, false
	}
	return g, true
}

// CreateEstimate handles POST /admin/estimates
func (c *EstimateController) CreateEstimate(w http.ResponseWriter, r *http.Request) {
	s := c.sessions.Create()
	c.metrics.SetSessions(c.sessions.Len())
	zap.S().Infof("🆕 CreateEstimate: session %s opened", s.ID())
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

// GetEstimate handles GET /admin/estimates/{id}
func (c *EstimateController) GetEstimate(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r, "GetEstimate")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// DeleteEstimate handles DELETE /admin/estimates/{id}
func (c *EstimateController) DeleteEstimate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c.sessions.Delete(id)
	c.metrics.SetSessions(c.sessions.Len())
	zap.S().Infof("🗑️  DeleteEstimate: session %s closed", id)
	w.WriteHeader(http.StatusNoContent)
}

// SelectAttributes handles PATCH /admin/estimates/{id}/selections/{productId}
// Body: {"color": "red"} or {"size": "Large"}; returns how the selection resolves
func (c *EstimateController) SelectAttributes(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r, "SelectAttributes")
	if !ok {
		return
	}
	productID, err := int64Param(r, "productId")
	if err != nil {
		badRequest(w, "invalid product id")
		return
	}
	var patch models.SelectionPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	group, ok := c.group(w, r, "SelectAttributes", productID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Select(group, patch))
}

// AddItem handles POST /admin/estimates/{id}/items
// Color and size in the body are merged into the stored selection first.
func (c *EstimateController) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r, "AddItem")
	if !ok {
		return
	}
	var req models.AddLineItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.ProductID <= 0 {
		badRequest(w, "productId must be greater than 0")
		return
	}

	group, ok := c.group(w, r, "AddItem", req.ProductID)
	if !ok {
		return
	}
	if req.Color != nil || req.Size != nil {
		s.Select(group, models.SelectionPatch{Color: req.Color, Size: req.Size})
	}

	item, err := s.AddSelected(group, req.Quantity)
	if err != nil {
		writeError(w, r, "AddItem", err)
		return
	}
	zap.S().Infof("➕ AddItem: %s x%d to %s", item.Name, item.Quantity, s.ID())
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// UpdateItem handles PATCH /admin/estimates/{id}/items/{itemId}
// Body: {"quantity": "3"} and/or {"price": 149.5}; unparseable values become 0
func (c *EstimateController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r, "UpdateItem")
	if !ok {
		return
	}
	itemID, err := int64Param(r, "itemId")
	if err != nil {
		badRequest(w, "invalid item id")
		return
	}
	var req models.UpdateLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Quantity == nil && req.Price == nil {
		badRequest(w, "quantity or price is required")
		return
	}

	if req.Quantity != nil {
		if _, err := s.UpdateQuantity(itemID, rawValue(req.Quantity)); err != nil {
			writeError(w, r, "UpdateItem", err)
			return
		}
	}
	if req.Price != nil {
		if _, err := s.UpdatePrice(itemID, rawValue(req.Price)); err != nil {
			writeError(w, r, "UpdateItem", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// RemoveItem handles DELETE /admin/estimates/{id}/items/{itemId}
func (c *EstimateController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r, "RemoveItem")
	if !ok {
		return
	}
	itemID, err := int64Param(r, "itemId")
	if err != nil {
		badRequest(w, "invalid item id")
		return
	}
	s.Remove(itemID)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// ClearItems handles DELETE /admin/estimates/{id}/items.
// The client profile is reset as well; attribute selections are kept.
func (c *EstimateController) ClearItems(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r, "ClearItems")
	if !ok {
		return
	}
	s.Clear()
	zap.S().Infof("🧹 ClearItems: session %s cleared", s.ID())
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// SetClient handles PUT /admin/estimates/{id}/client
func (c *EstimateController) SetClient(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r, "SetClient")
	if !ok {
		return
	}
	var profile models.ClientProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	s.SetClient(profile)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// GenerateQuote handles POST /admin/estimates/{id}/pdf
// Body (optional): {"fileName": "Estimate-Jane"}. Responds with the PDF as an attachment.
func (c *EstimateController) GenerateQuote(w http.ResponseWriter, r *http.Request) {
	s, ok := c.session(w, r, "GenerateQuote")
	if !ok {
		return
	}
	var req models.GenerateQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	res, err := c.quotes.Generate(r.Context(), s, req.FileName)
	if err != nil && len(res.Data) == 0 {
		writeError(w, r, "GenerateQuote", err)
		return
	}
	if err != nil {
		// the archive failed; the download is the fallback
		w.Header().Set("X-Archive-Error", err.Error())
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("X-Estimate-Number", strconv.Itoa(res.Number))
	if res.ArchivedTo != "" {
		w.Header().Set("X-Archived-To", res.ArchivedTo)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		zap.S().Warnf("⚠️  GenerateQuote: failed to write PDF: %v", err)
	}
}
