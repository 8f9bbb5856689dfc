package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kietpt2003/fpt-playground-realtime/internal/auth"
	"github.com/kietpt2003/fpt-playground-realtime/internal/config"
	"github.com/kietpt2003/fpt-playground-realtime/internal/consumer"
	"github.com/kietpt2003/fpt-playground-realtime/internal/handler"
	"github.com/kietpt2003/fpt-playground-realtime/internal/hub"
	"github.com/kietpt2003/fpt-playground-realtime/internal/policy"
	"github.com/kietpt2003/fpt-playground-realtime/internal/pubsub"
	"github.com/kietpt2003/fpt-playground-realtime/internal/queue"
	"github.com/kietpt2003/fpt-playground-realtime/internal/relay"
	"github.com/kietpt2003/fpt-playground-realtime/internal/repository/postgres"
)

// App is the main application container.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Hub       *hub.Hub
	Relay     *relay.Relay
	Consumers *consumer.Pool
	WSHandler *handler.WebsocketHandler
}

func provideContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() { cancel() }
}

func provideLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}

func providePostgresDB(cfg *config.Config) (*sql.DB, func(), error) {
	db, err := postgres.NewDB(cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Close() }
	return db, cleanup, nil
}

func provideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}
	cleanup := func() { client.Close() }
	return client, cleanup, nil
}

func provideVerifier(cfg *config.Config) *auth.JWTVerifier {
	return auth.NewJWTVerifier(cfg.JWTSecret)
}

func provideHub(cfg *config.Config, q queue.Queue, ch pubsub.Channel, pol policy.Policy, logger zerolog.Logger) *hub.Hub {
	return hub.NewHub(q, ch, pol, cfg.InstanceID, logger)
}

func provideRelay(cfg *config.Config, h *hub.Hub, ch pubsub.Channel, logger zerolog.Logger) *relay.Relay {
	return relay.NewRelay(h, ch, cfg.InstanceID, logger)
}

func provideConsumerPool(cfg *config.Config, q queue.Queue, store consumer.MessageStore, logger zerolog.Logger) *consumer.Pool {
	return consumer.NewPool(q, store, cfg.ConsumerWorkers, cfg.ConsumerPollInterval, logger)
}
