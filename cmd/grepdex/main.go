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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/grepdex/internal/config"
	logpkg "github.com/kailas-cloud/grepdex/internal/logger"
	"github.com/kailas-cloud/grepdex/internal/metrics"
	"github.com/kailas-cloud/grepdex/internal/repository/blob"
	"github.com/kailas-cloud/grepdex/internal/repository/registry"
	chiTransport "github.com/kailas-cloud/grepdex/internal/transport/chi"
	"github.com/kailas-cloud/grepdex/internal/transport/cli"
	"github.com/kailas-cloud/grepdex/internal/transport/findutil"
	"github.com/kailas-cloud/grepdex/internal/transport/jq"
	"github.com/kailas-cloud/grepdex/internal/transport/partition"
	"github.com/kailas-cloud/grepdex/internal/transport/ripgrep"
	documentuc "github.com/kailas-cloud/grepdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/grepdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/grepdex/internal/usecase/search"
	"github.com/kailas-cloud/grepdex/internal/version"
)

const queryCacheSize = 256

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting grepdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("uploads_dir", cfg.Storage.UploadsDir),
		zap.String("processed_dir", cfg.Storage.ProcessedDir),
	)

	// Register pipeline and engine metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	blobs, err := blob.New(cfg.Storage.UploadsDir, cfg.Storage.ProcessedDir)
	if err != nil {
		logger.Fatal("Failed to create storage roots", zap.Error(err))
	}
	reg := registry.New()

	engineRunner := cli.NewRunner(time.Duration(cfg.Engines.TimeoutSec) * time.Second)

	var extractor documentuc.Extractor
	if cfg.Extract.Command != "" {
		extractRunner := cli.NewRunner(time.Duration(cfg.Extract.TimeoutSec) * time.Second)
		extractor = partition.NewExec(cfg.Extract.Command, cfg.Extract.Args, extractRunner)
		logger.Info("Using external partitioner",
			zap.String("command", cfg.Extract.Command),
			zap.Strings("args", cfg.Extract.Args),
		)
	} else {
		extractor = partition.NewPlaintext()
		logger.Info("Using built-in plaintext extractor")
	}

	// Create use case services
	docSvc := documentuc.New(reg, blobs, extractor, logger)
	searchSvc := searchuc.New(
		reg,
		ripgrep.New(cfg.Engines.Ripgrep, engineRunner),
		findutil.New(cfg.Engines.Find, engineRunner),
		jq.New(cfg.Engines.JQ, engineRunner),
		blobs.ProcessedRoot(),
		logger,
	).WithQueryCache(queryCacheSize)

	healthSvc := healthuc.New(blobs, healthuc.PathLocator{}, map[string]string{
		"ripgrep": cfg.Engines.Ripgrep,
		"find":    cfg.Engines.Find,
		"jq":      cfg.Engines.JQ,
	})

	// Create chi server
	server := chiTransport.NewServer(docSvc, searchSvc, healthSvc, logger).
		WithMaxUploadBytes(int64(cfg.HTTP.MaxUploadMB) << 20)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second,
	)
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
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
