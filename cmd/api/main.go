package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hszk-dev/govlog/internal/api"
	"github.com/hszk-dev/govlog/internal/api/handler"
	"github.com/hszk-dev/govlog/internal/config"
	"github.com/hszk-dev/govlog/internal/domain/repository"
	"github.com/hszk-dev/govlog/internal/infrastructure/auth"
	"github.com/hszk-dev/govlog/internal/infrastructure/cache"
	"github.com/hszk-dev/govlog/internal/infrastructure/events"
	"github.com/hszk-dev/govlog/internal/infrastructure/postgres"
	"github.com/hszk-dev/govlog/internal/infrastructure/queue"
	"github.com/hszk-dev/govlog/internal/infrastructure/storage"
	"github.com/hszk-dev/govlog/internal/infrastructure/tracing"
	"github.com/hszk-dev/govlog/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}()

	// Initialize infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:     cfg.MinIO.Endpoint,
		AccessKey:    cfg.MinIO.AccessKey,
		SecretKey:    cfg.MinIO.SecretKey,
		Bucket:       cfg.MinIO.Bucket,
		UseSSL:       cfg.MinIO.UseSSL,
		CreateBucket: cfg.MinIO.CreateBucket,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO", slog.String("bucket", storageClient.Bucket()))

	queueCfg := queue.DefaultClientConfig(cfg.RabbitMQ.URL())
	queueCfg.QueueName = cfg.RabbitMQ.Queue
	queueCfg.RoutingKey = cfg.RabbitMQ.Queue
	queueClient, err := queue.NewClient(ctx, queueCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	publisher, err := newEventPublisher(cfg.Kafka, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// Initialize services
	store := pgClient.Store()
	mediaStore := usecase.NewMediaStore(storageClient, queueClient)

	vlogSvc := usecase.NewCachedVlogService(
		usecase.NewVlogService(store, mediaStore, publisher),
		cache.NewRedisVlogCache(redisClient),
		usecase.CachedVlogServiceConfig{CacheTTL: cfg.Cache.TTL},
	)
	listingSvc := usecase.NewListingService(store)
	commentSvc := usecase.NewCommentService(store, vlogSvc, publisher)
	likeSvc := usecase.NewLikeService(store, vlogSvc, publisher)
	authSvc := usecase.NewAuthService(
		store,
		auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		usecase.AuthServiceConfig{TokenTTL: cfg.Auth.TokenTTL},
	)

	if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	urls := handler.NewURLBuilder(cfg.MinIO.PublicBaseURL)
	r := api.NewRouter(logger, authSvc, api.Handlers{
		Vlogs:    handler.NewVlogHandler(vlogSvc, listingSvc, urls, cfg.Server.MaxUploadBytes),
		Media:    handler.NewMediaHandler(vlogSvc, urls, cfg.Server.MaxUploadBytes),
		Comments: handler.NewCommentHandler(commentSvc),
		Likes:    handler.NewLikeHandler(likeSvc),
		Auth:     handler.NewAuthHandler(authSvc),
		Ready: handler.Ready(map[string]handler.Pinger{
			"postgres": pgClient,
			"minio":    storageClient,
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		}, 2*time.Second),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      otelhttp.NewHandler(r, "govlog-api"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	stats := pgClient.Stats()
	logger.Info("server stopped",
		slog.Int("db_acquired_conns", int(stats.AcquiredConns)),
		slog.Int("db_total_conns", int(stats.TotalConns)),
	)
	return nil
}

// newEventPublisher falls back to discarding events when no brokers are configured.
func newEventPublisher(cfg config.KafkaConfig, logger *slog.Logger) (repository.EventPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		logger.Warn("no Kafka brokers configured, domain events are discarded")
		return events.NopPublisher{}, nil
	}

	publisher, err := events.NewKafkaPublisher(events.ClientConfig{
		Brokers: brokers,
		Topic:   cfg.Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}
	logger.Info("publishing domain events", slog.String("topic", cfg.Topic))
	return publisher, nil
}
