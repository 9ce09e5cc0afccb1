package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hyperdrive/internal/config"
	"hyperdrive/internal/models"
	"hyperdrive/internal/repositories"
	"hyperdrive/internal/router"
	"hyperdrive/internal/services"
	"hyperdrive/pkg/database"
	"hyperdrive/pkg/logger"
	"hyperdrive/pkg/rabbitmq"

	"github.com/gofiber/storage/redis/v3"
	"go.uber.org/zap"
)

const (
	eventsExchange = "project_events"
	auditQueue     = "project_audit"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{Logger: log, MaxRetries: 5})
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, models.All()...); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	deps := router.Dependencies{DB: db, Logger: log}

	// --- Shared rate limit counters ---
	if cfg.RedisURL != "" {
		store := redis.New(redis.Config{URL: cfg.RedisURL})
		defer store.Close()
		deps.LimiterStorage = store
		log.Info("rate limit counters stored in redis")
	}

	// --- Moderation events ---
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: eventsExchange, Logger: log})
		if err != nil {
			log.Warn("rabbitmq unavailable, moderation events disabled", zap.Error(err))
		} else {
			defer mq.Close()
			deps.Publisher = mq

			if cfg.AuditConsumerEnabled {
				recorder := services.NewAuditRecorder(repositories.NewGORMAuditLogRepository(db), log)
				if err := mq.Consume(auditQueue, "project.#", auditHandler(ctx, recorder)); err != nil {
					log.Warn("audit consumer not started", zap.Error(err))
				}
			}
		}
	}

	app := router.New(cfg, deps)

	go func() {
		log.Info("starting server", zap.String("addr", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
}

// auditHandler records events and marks undecodable ones as permanent
// failures so they are not redelivered forever.
func auditHandler(ctx context.Context, recorder *services.AuditRecorder) rabbitmq.Handler {
	return func(routingKey string, body []byte) error {
		err := recorder.Record(ctx, routingKey, body)
		if errors.Is(err, services.ErrMalformedEvent) {
			return &rabbitmq.PermanentError{Err: err}
		}
		return err
	}
}
