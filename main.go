package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	appLogger "github.com/tripflow/trip-assistant/app/logger"
	"github.com/tripflow/trip-assistant/app/observability/metrics"
	"github.com/tripflow/trip-assistant/app/tracer"
	"github.com/tripflow/trip-assistant/config"
	"github.com/tripflow/trip-assistant/internal/api/chat"
	"github.com/tripflow/trip-assistant/internal/api/completion"
	"github.com/tripflow/trip-assistant/internal/api/itinerary"
	"github.com/tripflow/trip-assistant/internal/api/tripdata"
	api "github.com/tripflow/trip-assistant/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port, logger); err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// A missing credential disables the happy path but must not crash the
	// process; both endpoints report a configuration error instead.
	hasCredential := cfg.Completion.APIKey != ""
	if hasCredential {
		logger.Info("Completion API key loaded", slog.String("model", cfg.Completion.Model))
	} else {
		logger.Warn("GROQ_API_KEY not found in environment variables; chat and itinerary endpoints will report a configuration error")
	}

	// --- Dependency Injection ---
	aiClient := completion.NewGroqClient(cfg.Completion.APIKey, cfg.Completion.BaseURL, logger)
	tripClient := tripdata.NewClientImpl(cfg.TripData.BaseURL, logger)
	sessions := chat.NewSessionStore()

	chatService := chat.NewServiceImpl(aiClient, tripClient, sessions, cfg.Completion.Model, hasCredential, logger)
	chatHandler := chat.NewChatHandlerImpl(chatService, logger)

	itineraryService := itinerary.NewServiceImpl(aiClient, cfg.Completion.Model, hasCredential, logger)
	itineraryHandler := itinerary.NewItineraryHandlerImpl(itineraryService, logger)

	// --- Router Setup ---
	mainRouter := api.SetupRouter(&api.Config{
		ChatHandler:      chatHandler,
		ItineraryHandler: itineraryHandler,
	})

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout + itineraryHeadroom))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 150 * time.Second, // itinerary generation is slow
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// itineraryHeadroom pads the request timeout so the itinerary path's 120s
// completion call is not cut off by the middleware deadline.
const itineraryHeadroom = 90 * time.Second

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
