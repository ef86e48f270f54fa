package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"rta-kabinets/service"
)

// CatalogController handles the grouped catalog and the printable brochure
type CatalogController struct {
	store   *service.CatalogStore
	service *service.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(store *service.CatalogStore, catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{
		store:   store,
		service: catalogService,
	}
}

// GetGroups handles GET /admin/catalog/groups?q=cabinet
// Returns every product with its variants, available colors and sizes
func (c *CatalogController) GetGroups(w http.ResponseWriter, r *http.Request) {
	if _, err := c.store.EnsureLoaded(r.Context()); err != nil {
		writeError(w, r, "GetGroups", err)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	resp := c.store.Groups(query)
	zap.S().Debugf("📋 GetGroups: q=%q -> %d groups", query, len(resp.Groups))
	writeJSON(w, http.StatusOK, resp)
}

// Refresh handles POST /admin/catalog/refresh
// A refresh overtaken by a newer one responds 409 and changes nothing.
func (c *CatalogController) Refresh(w http.ResponseWriter, r *http.Request) {
	if _, err := c.store.Refresh(r.Context()); err != nil {
		writeError(w, r, "RefreshCatalog", err)
		return
	}
	writeJSON(w, http.StatusOK, c.store.Groups(""))
}

// RenderBrochure handles GET /admin/catalog/render?q=&embed=true
// Returns the brochure HTML, with pictures inlined when embed is set
func (c *CatalogController) RenderBrochure(w http.ResponseWriter, r *http.Request) {
	if _, err := c.store.EnsureLoaded(r.Context()); err != nil {
		writeError(w, r, "RenderBrochure", err)
		return
	}
	inline, _ := strconv.ParseBool(r.URL.Query().Get("embed"))

	html, err := c.service.RenderHTML(r.Context(), r.URL.Query().Get("q"), inline)
	if err != nil {
		writeError(w, r, "RenderBrochure", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// DownloadBrochure handles GET /admin/catalog/pdf?q=
func (c *CatalogController) DownloadBrochure(w http.ResponseWriter, r *http.Request) {
	if _, err := c.store.EnsureLoaded(r.Context()); err != nil {
		writeError(w, r, "DownloadBrochure", err)
		return
	}
	start := time.Now()
	pdf, err := c.service.GeneratePDF(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, "DownloadBrochure", err)
		return
	}
	zap.S().Infof("✓ DownloadBrochure: %d bytes in %s", len(pdf), time.Since(start).Round(time.Millisecond))

	filename := fmt.Sprintf("Catalog-%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
