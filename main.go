package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"rta-kabinets/app"
	"rta-kabinets/config"
	"rta-kabinets/db"
	"rta-kabinets/logger"
)

func main() {
	// Load .env in development; in production variables are set directly.
	// Overload lets .env values win over the shell environment.
	var envErr error
	if os.Getenv("ENV") != "production" {
		envErr = godotenv.Overload(".env")
	}

	l, err := logger.Init(os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer l.Sync()

	if envErr != nil {
		zap.S().Infof("ℹ️  .env not loaded, using system environment variables: %v", envErr)
	}

	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := app.Initialize(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("❌ Failed to initialize application: %v", err)
	}
	defer db.CloseDB()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// brochure PDFs go through headless Chrome
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zap.S().Infof("🚀 Server starting on %s (env=%s, catalog=%s, archive=%s)", cfg.Addr(), cfg.Env, cfg.CatalogSource, cfg.Archive.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("❌ Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	zap.S().Infof("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("❌ Graceful shutdown failed: %v", err)
	}
}
