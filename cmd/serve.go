package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fathima-sithara/sampling-service/internal/config"
	"github.com/fathima-sithara/sampling-service/internal/database"
	"github.com/fathima-sithara/sampling-service/internal/events"
	"github.com/fathima-sithara/sampling-service/internal/metrics"
	"github.com/fathima-sithara/sampling-service/internal/middleware"
	"github.com/fathima-sithara/sampling-service/internal/repository"
	"github.com/fathima-sithara/sampling-service/internal/server"
	service "github.com/fathima-sithara/sampling-service/internal/services"
	"github.com/fathima-sithara/sampling-service/internal/storage"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// bootstrap loads config, builds the logger and connects to Mongo. The
// caller owns the returned client.
func bootstrap(ctx context.Context) (*config.Config, *zap.SugaredLogger, *mongo.Database, *mongo.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger, err := utils.NewLogger(cfg.Development(), cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("logger: %w", err)
	}
	db, client, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.ConnectTimeout, cfg.ConnectRetry, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("mongo: %w", err)
	}
	return cfg, logger, db, client, nil
}

func newVideoStore(ctx context.Context, cfg *config.Config, db *mongo.Database, logger *zap.SugaredLogger) (storage.VideoStore, error) {
	if cfg.Storage.Backend == "s3" {
		index := repository.NewVideoRepo(db.Collection(cfg.Mongo.VideoMetaColl))
		if err := index.EnsureIndexes(ctx); err != nil {
			logger.Warnw("video index not created", "error", err)
		}
		return storage.NewS3Store(ctx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint, index)
	}
	store, err := storage.NewGridFSStore(db, cfg.Mongo.VideoBucket)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Warnw("gridfs indexes not created", "error", err)
	}
	return store, nil
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, db, client, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	samplesCol := db.Collection(cfg.Mongo.Collection)
	if err := repository.EnsureSampleIndexes(ctx, samplesCol); err != nil {
		logger.Warnw("sample indexes not created", "error", err)
	}
	repo := repository.NewMongoSampleRepo(db, cfg.Mongo.Collection)

	store, err := newVideoStore(ctx, cfg, db, logger)
	if err != nil {
		return fmt.Errorf("video store: %w", err)
	}

	m := metrics.New()
	pub := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicSampleCreated, cfg.Kafka.TopicVideoUploaded, logger)

	var limiter *middleware.RateLimiter
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		limiter = middleware.NewRateLimiter(rdb, cfg.Redis.Prefix, cfg.Redis.RateLimit, cfg.RateWindow, logger)
	}

	app := server.New(server.Deps{
		Config:  cfg,
		Samples: service.NewSampleService(repo, pub, m, logger, cfg.App.DefaultUser),
		Videos:  service.NewVideoService(store, pub, m, logger, cfg.App.DefaultUser),
		Metrics: m,
		Limiter: limiter,
		Log:     logger,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infow("starting sampling service", "addr", addr, "storage", cfg.Storage.Backend, "env", cfg.App.Env)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorw("listen failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown requested")
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(timeoutCtx); err != nil {
		logger.Warnw("http shutdown", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Warnw("event publisher close", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := client.Disconnect(timeoutCtx); err != nil {
		logger.Warnw("mongo disconnect", "error", err)
	}
	logger.Info("shutdown completed")
	return nil
}
