package main

import (
	"context"
	"log"
	stdhttp "net/http"

	"bookmark-service/pkg/config"
	"bookmark-service/pkg/http"
	"bookmark-service/pkg/logging"
	"bookmark-service/pkg/middleware"
	"bookmark-service/pkg/service"
	"bookmark-service/pkg/session"
	"bookmark-service/pkg/storage"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)

	// DB connection
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := storage.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		log.Fatal(err)
	}

	// Redis connection
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := redis.NewClient(opt)
	defer redisClient.Close()

	// Storage
	userStorage := storage.NewPostgresUserStorage(pool)
	bookmarkStorage := storage.NewPostgresBookmarkStorage(pool)

	// Sessions
	sessionStore := session.NewRedisStore(redisClient)
	sessionManager := session.NewManager(sessionStore, cfg.SessionTTL)

	// Services
	authService := service.NewAuthService(userStorage, sessionManager, logger)
	bookmarkService := service.NewBookmarkService(bookmarkStorage, logger, cfg.ShortCodeLength, cfg.ShortCodeRetries)

	// Auth middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionManager, userStorage, logger)

	// Handler
	handler := http.NewHandler(authService, bookmarkService)

	// Router
	requestLogger := httplog.NewLogger("bookmark-api", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(chimiddleware.Recoverer)
	http.SetupRoutes(r, handler, authMiddleware)

	// Server
	log.Println("Starting API server on", cfg.APIAddr)
	log.Fatal(stdhttp.ListenAndServe(cfg.APIAddr, r))
}
