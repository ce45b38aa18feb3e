package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-transactions/internal/config"
	"product-transactions/internal/database"
	"product-transactions/internal/feed"
	handler "product-transactions/internal/handler/http"
	"product-transactions/internal/logger"
	middleware_http "product-transactions/internal/middleware/http"
	"product-transactions/internal/repository"
	"product-transactions/internal/service"
	"product-transactions/internal/telemetry"
	"product-transactions/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Instance().Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	globalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Configure(cfg.LogLevel, cfg.RemoteLogHttpURI, cfg.AppName)
	log := logger.Instance()

	log.Info(cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)
	logger.Info(globalCtx, "Loaded configuration", config.StructAttrs("config", cfg.ToSafeConfig())...)

	shutdownTelemetry, err := telemetry.Init(globalCtx, telemetry.Config{
		AppName:      cfg.AppName,
		Environment:  cfg.AppEnv,
		Exporter:     cfg.TraceExporter,
		OtelRPCURI:   cfg.RemoteTraceRpcURI,
		PyroscopeURI: cfg.RemoteProfilingHttpURI,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownTelemetry(ctx)
	}()

	db, err := database.Connect(globalCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			logger.Error(ctx, "Failed to disconnect MongoDB", slog.String("error", err.Error()))
		}
	}()

	// Wiring
	transactionRepo := repository.NewTransactionRepository(db.Database, cfg.MongoCollection)
	transactionService := service.NewTransactionService(transactionRepo)
	seedService := service.NewSeedService(feed.NewClient(cfg.FeedURL, cfg.FeedTimeout), transactionRepo)
	healthService := service.NewHealthService(db.Client)

	mux := handler.NewRouter(
		handler.NewTransactionHandler(transactionService),
		handler.NewSeedHandler(seedService),
		handler.NewHealthHandler(healthService),
	)

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      middleware_http.CORS(cfg.CORSAllowedOrigins)(middleware_http.TraceMiddleware(mux)),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-globalCtx.Done():
	}

	log.Info("Shutting down HTTP server", slog.Bool("gracefulShutdown", cfg.IsProduction()))
	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if cfg.IsProduction() {
		return server.Shutdown(ctx)
	}
	return server.Close()
}
