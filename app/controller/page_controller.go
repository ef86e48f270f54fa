package controller

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"rta-kabinets/models"
	"rta-kabinets/service"
)

const maxUploadSize = 20 << 20

// PageController edits the sections of the public site pages
type PageController struct {
	pages *service.PageService
}

// NewPageController creates a new PageController
func NewPageController(pages *service.PageService) *PageController {
	return &PageController{pages: pages}
}

// GetPage handles GET /admin/pages/{page}?sections=experience,services
func (c *PageController) GetPage(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")

	var sections []string
	for _, key := range strings.Split(r.URL.Query().Get("sections"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			sections = append(sections, key)
		}
	}

	content, err := c.pages.Load(r.Context(), page, sections)
	if err != nil {
		writeError(w, r, "GetPage", err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

// GetGallery handles GET /admin/pages/{page}/galleries/{section}
func (c *PageController) GetGallery(w http.ResponseWriter, r *http.Request) {
	images, err := c.pages.Gallery(r.Context(), chi.URLParam(r, "page"), chi.URLParam(r, "section"))
	if err != nil {
		writeError(w, r, "GetGallery", err)
		return
	}
	writeJSON(w, http.StatusOK, models.CarouselResponse{Images: images})
}

// SaveSection handles POST /admin/pages/{page}/sections/{key}
// Multipart form: title, description and an optional image file
func (c *PageController) SaveSection(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	key := chi.URLParam(r, "key")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	in := models.SectionInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			badRequest(w, "failed to read image: "+err.Error())
			return
		}
		in.Image = data
		in.ImageName = header.Filename
	case err != http.ErrMissingFile:
		badRequest(w, "invalid image: "+err.Error())
		return
	}

	zap.S().Infof("📥 SaveSection: %s/%s (image=%d bytes)", page, key, len(in.Image))
	saved, err := c.pages.SaveSection(r.Context(), page, key, in)
	if err != nil {
		writeError(w, r, "SaveSection", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
