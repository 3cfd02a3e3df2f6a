package main

import (
	"context"
	"log"
	stdhttp "net/http"

	"bookmark-service/pkg/config"
	httphandler "bookmark-service/pkg/http"
	"bookmark-service/pkg/logging"
	"bookmark-service/pkg/service"
	"bookmark-service/pkg/storage"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Serves only the public redirect path, so it can be scaled separately
// from the authenticated API.
func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)

	// DB connection
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// Storage
	bookmarkStorage := storage.NewPostgresBookmarkStorage(pool)

	// Service
	bookmarkService := service.NewBookmarkService(bookmarkStorage, logger, cfg.ShortCodeLength, cfg.ShortCodeRetries)

	// Handler
	handler := httphandler.NewHandler(nil, bookmarkService)

	// Router
	requestLogger := httplog.NewLogger("bookmark-redirect", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(chimiddleware.Recoverer)
	r.Get("/health/status", handler.HealthStatus)
	r.Get("/redirect/code/{shortCode}", handler.Redirect)

	// Server
	log.Println("Starting redirect server on", cfg.RedirectAddr)
	log.Fatal(stdhttp.ListenAndServe(cfg.RedirectAddr, r))
}
