package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/taskboard/internal/featureflags"
	"github.com/yourorg/taskboard/internal/handler"
	"github.com/yourorg/taskboard/internal/infrastructure/logger"
	"github.com/yourorg/taskboard/internal/infrastructure/redis"
	"github.com/yourorg/taskboard/internal/observability/metrics"
	"github.com/yourorg/taskboard/internal/observability/tracing"
	"github.com/yourorg/taskboard/internal/repository"
	"github.com/yourorg/taskboard/internal/security"
	"github.com/yourorg/taskboard/internal/security/auth"
	"github.com/yourorg/taskboard/internal/security/middleware"
	"github.com/yourorg/taskboard/internal/service"
	"github.com/yourorg/taskboard/internal/worker"
	"github.com/yourorg/taskboard/pkg/cache"
	"github.com/yourorg/taskboard/pkg/config"
	"github.com/yourorg/taskboard/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting taskboard server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing
	shutdownTracing, err := tracing.Init(ctx, log, "taskboard", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect to Postgres and run migrations
	pool, err := database.NewConnectionPool(ctx, &database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Migrate(ctx); err != nil {
		log.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Select the cache backend. Redis when configured, in-process otherwise.
	var boardCache service.Cache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		boardCache = redisClient
		log.Info("using redis cache")
	} else {
		boardCache = cache.New()
		log.Info("using in-process cache")
	}

	// 6. Initialize repositories
	db := pool.GetDB()
	userRepo := repository.NewPostgresUserRepository(db, log)
	boardRepo := repository.NewPostgresBoardRepository(db, log)
	listRepo := repository.NewPostgresListRepository(db, log)
	cardRepo := repository.NewPostgresCardRepository(db, log)
	notificationRepo := repository.NewPostgresNotificationRepository(db, log)

	// 7. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "taskboard", cfg.TokenTTL)
	ownership := security.NewOwnershipService(boardRepo, listRepo, cardRepo, log)

	// 8. Initialize services
	authService := service.NewAuthService(userRepo, tokenManager, log)
	boardService := service.NewBoardService(boardRepo, ownership, boardCache, cfg.BoardCacheTTL, log)
	listService := service.NewListService(listRepo, ownership, log)
	cardService := service.NewCardService(cardRepo, listRepo, userRepo, ownership, log)
	notificationService := service.NewNotificationService(notificationRepo, log)

	// 9. Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	boardHandler := handler.NewBoardHandler(boardService, log)
	listHandler := handler.NewListHandler(listService, log)
	cardHandler := handler.NewCardHandler(cardService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.HandleFunc("GET /api/boards", boardHandler.List)
	mux.HandleFunc("POST /api/boards", boardHandler.Create)
	mux.HandleFunc("GET /api/boards/{id}", boardHandler.Get)
	mux.HandleFunc("PUT /api/boards/{id}", boardHandler.Update)
	mux.HandleFunc("DELETE /api/boards/{id}", boardHandler.Delete)

	mux.HandleFunc("GET /api/lists/board/{boardId}", listHandler.ListByBoard)
	mux.HandleFunc("POST /api/lists", listHandler.Create)
	mux.HandleFunc("PUT /api/lists/{id}", listHandler.Update)
	mux.HandleFunc("DELETE /api/lists/{id}", listHandler.Delete)

	mux.HandleFunc("GET /api/cards/list/{listId}", cardHandler.ListByList)
	mux.HandleFunc("POST /api/cards", cardHandler.Create)
	mux.HandleFunc("GET /api/cards/{id}", cardHandler.Get)
	mux.HandleFunc("PUT /api/cards/{id}", cardHandler.Update)
	mux.HandleFunc("DELETE /api/cards/{id}", cardHandler.Delete)
	mux.HandleFunc("POST /api/cards/{id}/assign", cardHandler.Assign)
	mux.HandleFunc("DELETE /api/cards/{id}/assign/{userId}", cardHandler.Unassign)

	if featureflags.Enabled(featureflags.DueSoonNotifications) {
		mux.HandleFunc("GET /api/notifications", notificationHandler.List)
		mux.HandleFunc("PUT /api/notifications/{id}/read", notificationHandler.MarkRead)
	}

	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> JWT -> CORS -> mux
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			middleware.JWTMiddleware(tokenManager, log)(handlerWithCORS),
		),
		log,
	)

	// 11. Start the due-date worker in background when enabled
	if featureflags.Enabled(featureflags.DueSoonNotifications) {
		dueDateWorker := worker.NewDueDateWorker(
			cardRepo,
			notificationRepo,
			log,
			cfg.SweepInterval,
			cfg.DueSoonWindow,
			cfg.NotificationRetention,
		)
		go dueDateWorker.Start(ctx)
	}

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(rootHandler, "taskboard"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Duration("token_ttl", tokenManager.TTL()),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop due-date worker
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
