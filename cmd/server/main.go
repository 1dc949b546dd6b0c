package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/dm0114/capacitor-push-prototype/internal/auth"
	"github.com/dm0114/capacitor-push-prototype/internal/config"
	"github.com/dm0114/capacitor-push-prototype/internal/handler"
	"github.com/dm0114/capacitor-push-prototype/internal/middleware"
	"github.com/dm0114/capacitor-push-prototype/internal/seed"
	"github.com/dm0114/capacitor-push-prototype/internal/service/workspace"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "arkilo", 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := config.NewLogger(logOut, true, cfg.Debug)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	if cfg.SeedOnStart {
		fixtures, err := seed.Default()
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v", err)
		}
		if _, err := fixtures.Apply(ctx, store.Repositories, logger); err != nil {
			log.Fatalf("Failed to seed workspace: %v", err)
		}
	}

	// Sessions issued by /api/auth/login, plus tokens from an external
	// identity provider when one is configured.
	sessions, err := auth.NewSessionManager([]byte(cfg.SessionSecret), auth.DefaultSessionTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}
	verifier := auth.Chain{sessions}
	if cfg.AuthJWKSURL != "" {
		jwks, err := auth.NewJWKSVerifier(ctx, cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
		verifier = append(verifier, jwks)
	}
	defer verifier.Close()

	pageService := workspace.NewPageService(store.Pages, store.Blocks, store.TxManager, logger)
	databaseService := workspace.NewDatabaseService(store.Properties, store.Rows, store.Views, store.TxManager, logger)
	authService := workspace.NewAuthService(store.Users, sessions, logger)

	handlers := &handler.Handlers{
		Pages:     handler.NewPageHandler(pageService, logger),
		Databases: handler.NewDatabaseHandler(databaseService, logger),
		Auth:      handler.NewAuthHandler(authService, auth.DefaultSessionTTL, cfg.Environment == "prod", logger),
	}

	logger.Info("services initialized")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewRouteMetrics(registry)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.Register(mux, metrics.Wrap)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Order: CORS → Recovery → Logging → Auth → Routes
	var h http.Handler = mux
	h = middleware.Authenticate(verifier, logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
