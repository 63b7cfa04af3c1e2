package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/config"
	dbRedis "github.com/neuroscape/nicsite/internal/db/redis"
	logpkg "github.com/neuroscape/nicsite/internal/logger"
	"github.com/neuroscape/nicsite/internal/metrics"
	"github.com/neuroscape/nicsite/internal/notify"
	draftrepo "github.com/neuroscape/nicsite/internal/repository/draft"
	historyrepo "github.com/neuroscape/nicsite/internal/repository/history"
	prefsrepo "github.com/neuroscape/nicsite/internal/repository/prefs"
	chiTransport "github.com/neuroscape/nicsite/internal/transport/chi"
	"github.com/neuroscape/nicsite/internal/transport/emailjs"
	"github.com/neuroscape/nicsite/internal/transport/sitejson"
	draftinguc "github.com/neuroscape/nicsite/internal/usecase/drafting"
	healthuc "github.com/neuroscape/nicsite/internal/usecase/health"
	prefsuc "github.com/neuroscape/nicsite/internal/usecase/prefs"
	searchuc "github.com/neuroscape/nicsite/internal/usecase/search"
	"github.com/neuroscape/nicsite/internal/usecase/sitemap"
	"github.com/neuroscape/nicsite/internal/usecase/submitting"
	"github.com/neuroscape/nicsite/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nicsite API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register site metrics explicitly (no init())
	metrics.RegisterSiteMetrics()

	// A local manifest file wins over a URL when both are set.
	var fetcher sitemap.Fetcher
	if cfg.Manifest.Path != "" {
		fetcher = sitejson.NewFileFetcher(cfg.Manifest.Path)
	} else {
		fetcher = sitejson.NewHTTPFetcher(
			cfg.Manifest.URL, time.Duration(cfg.Manifest.FetchTimeoutSec)*time.Second,
		)
	}

	sitemapSvc := sitemap.New(fetcher, notify.NewZapSink(logger), logger)
	if err := sitemapSvc.Load(ctx); err != nil {
		// Degraded start: search stays empty until a reload succeeds.
		logger.Warn("Starting without site content", zap.Error(err))
	}

	mailer := emailjs.NewMailer(&emailjs.Config{
		BaseURL:    cfg.Mail.BaseURL,
		ServiceID:  cfg.Mail.ServiceID,
		TemplateID: cfg.Mail.TemplateID,
		PublicKey:  cfg.Mail.PublicKey,
		Timeout:    time.Duration(cfg.Mail.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	// Create repositories
	draftTTL := time.Duration(cfg.Storage.DraftTTLDays) * 24 * time.Hour
	drafts := draftrepo.New(store, cfg.Storage.KeyPrefix, draftTTL, logger)
	history := historyrepo.New(store, cfg.Storage.KeyPrefix, logger)
	prefsStore := prefsrepo.New(store, cfg.Storage.KeyPrefix, logger)

	// Create use case services
	searchSvc := searchuc.New(sitemapSvc, history)
	draftingSvc := draftinguc.New(drafts)
	prefsSvc := prefsuc.New(prefsStore)
	submitSvc := submitting.New(mailer, drafts)
	healthSvc := healthuc.New(store, sitemapSvc).WithMail(mailer)

	server := chiTransport.NewServer(
		sitemapSvc, searchSvc, draftingSvc, prefsSvc, submitSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", chiTransport.ClientIDHeader},
		ExposedHeaders: []string{chiTransport.ClientIDHeader, "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
