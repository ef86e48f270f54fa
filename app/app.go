package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"rta-kabinets/apiclient"
	"rta-kabinets/app/controller"
	"rta-kabinets/app/router"
	"rta-kabinets/config"
	"rta-kabinets/db"
	"rta-kabinets/estimate"
	"rta-kabinets/metrics"
	"rta-kabinets/quote"
	"rta-kabinets/repository"
	"rta-kabinets/service"
)

// Initialize wires the application and returns its HTTP handler.
// The database is optional: without one the catalog must come from the API
// and estimate numbers restart with the process.
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	var counter repository.Counter = repository.NewMemoryCounter()
	if cfg.DatabaseURL != "" {
		if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		counter = repository.NewCounterRepository()
	} else {
		zap.S().Warnf("⚠️  No database configured, estimate numbers are kept in memory")
	}

	branding, err := quote.LoadBranding(cfg.BrandingFile)
	if err != nil {
		return nil, err
	}

	saver, err := service.NewArchiveSaver(ctx, cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize quote archive: %w", err)
	}
	if saver != nil {
		zap.S().Infof("💾 Quotes are archived with driver %s", cfg.Archive.Driver)
	}

	m := metrics.New()
	api := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout)

	var source repository.VariantSource = api
	if cfg.CatalogSource == config.SourcePostgres {
		source = repository.NewVariantRepository()
	}

	store := service.NewCatalogStore(source, m)
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := store.Refresh(loadCtx); err != nil {
		// the first request retries
		zap.S().Warnf("⚠️  Initial catalog load failed: %v", err)
	}

	images := service.NewImageCache(filepath.Join("cache", "images"))
	catalogService := service.NewCatalogService(store, api, images, branding, cfg.ChromePath)
	quoteService := service.NewQuoteService(counter, saver, branding, m)
	pageService := service.NewPageService(api, m)

	controllers := &router.Controllers{
		Catalog:  controller.NewCatalogController(store, catalogService),
		Estimate: controller.NewEstimateController(estimate.NewSessions(), store, quoteService, m),
		Page:     controller.NewPageController(pageService),
		Metrics:  m.Handler(),
	}
	return router.NewRouter(controllers), nil
}
