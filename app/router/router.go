package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"rta-kabinets/app/controller"
)

type Controllers struct {
	Catalog  *controller.CatalogController
	Estimate *controller.EstimateController
	Page     *controller.PageController
	Metrics  http.Handler
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// requestLogger logs every request with its status and duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			zap.S().Infow("📥 request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// NewRouter builds the admin API route table
func NewRouter(controllers *Controllers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)
	if controllers.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", controllers.Metrics)
	}

	r.Route("/admin", func(r chi.Router) {
		// Catalog and brochure
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/groups", controllers.Catalog.GetGroups)
			r.Post("/refresh", controllers.Catalog.Refresh)
			r.Get("/render", controllers.Catalog.RenderBrochure)
			r.Get("/pdf", controllers.Catalog.DownloadBrochure)
		})

		// Estimate sessions
		r.Route("/estimates", func(r chi.Router) {
			r.Post("/", controllers.Estimate.CreateEstimate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.Estimate.GetEstimate)
				r.Delete("/", controllers.Estimate.DeleteEstimate)
				r.Patch("/selections/{productId}", controllers.Estimate.SelectAttributes)
				r.Post("/items", controllers.Estimate.AddItem)
				r.Delete("/items", controllers.Estimate.ClearItems)
				r.Patch("/items/{itemId}", controllers.Estimate.UpdateItem)
				r.Delete("/items/{itemId}", controllers.Estimate.RemoveItem)
				r.Put("/client", controllers.Estimate.SetClient)
				r.Post("/pdf", controllers.Estimate.GenerateQuote)
			})
		})

		// Site page content
		r.Route("/pages/{page}", func(r chi.Router) {
			r.Get("/", controllers.Page.GetPage)
			r.Get("/galleries/{section}", controllers.Page.GetGallery)
			r.Post("/sections/{key}", controllers.Page.SaveSection)
		})
	})

	return r
}
