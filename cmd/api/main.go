package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventsapi/config"
	"eventsapi/internal/adapters/storage"
	deliveryhttp "eventsapi/internal/delivery/http"
	"eventsapi/internal/delivery/http/controllers"
	"eventsapi/internal/delivery/http/middleware"
	"eventsapi/internal/domain"
	"eventsapi/internal/repository/mongodb"
	"eventsapi/internal/repository/postgres"
	"eventsapi/internal/services"
)

// @title Events API
// @version 3.0
// @description CRUD API for scheduled events with optional image uploads.
// @BasePath /

const connectTimeout = 10 * time.Second

// eventStore bundles the repository with the lifecycle hooks of its backing client.
type eventStore struct {
	repo  domain.EventRepository
	ping  controllers.PingFunc
	close func(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			logger.Error("failed to close store", "err", err)
		}
	}()
	logger.Info("connected to store", "driver", cfg.StoreDriver)

	images, err := storage.NewImageStore(storage.Config{
		Provider:  cfg.ImageStore,
		UploadDir: cfg.UploadDir,
		S3: storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("image store: %w", err)
	}

	eventService := services.NewEventService(store.repo, logger, cfg.RequestTimeout,
		services.WithRequiredFields(cfg.RequireEventFields))
	eventController := controllers.NewEventController(logger, eventService, images, cfg.MaxUploadBytes)
	healthController := controllers.NewHealthController(logger, store.ping)

	uploadDir := ""
	if cfg.ImageStore != "s3" {
		uploadDir = cfg.UploadDir
	}
	router := deliveryhttp.NewRouter(eventController, healthController, uploadDir)
	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (*eventStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &eventStore{
			repo:  postgres.NewEventRepository(db),
			ping:  db.PingContext,
			close: func(context.Context) error { return db.Close() },
		}, nil
	default:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		if err := mongodb.EnsureIndexes(ctx, coll); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &eventStore{
			repo:  mongodb.NewEventRepository(coll),
			ping:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close: client.Disconnect,
		}, nil
	}
}
