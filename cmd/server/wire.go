//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/kietpt2003/fpt-playground-realtime/internal/auth"
	"github.com/kietpt2003/fpt-playground-realtime/internal/config"
	"github.com/kietpt2003/fpt-playground-realtime/internal/consumer"
	"github.com/kietpt2003/fpt-playground-realtime/internal/handler"
	"github.com/kietpt2003/fpt-playground-realtime/internal/policy"
	"github.com/kietpt2003/fpt-playground-realtime/internal/pubsub"
	"github.com/kietpt2003/fpt-playground-realtime/internal/queue"
	"github.com/kietpt2003/fpt-playground-realtime/internal/repository/postgres"
)

// InitializeApp creates a new application.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		// Infrastructure Providers
		wire.NewSet(
			provideContext,
			provideLogger,
			providePostgresDB,
			provideRedisClient,
		),
		// Repository Providers
		wire.NewSet(
			postgres.NewMessageRepository,
			wire.Bind(new(consumer.MessageStore), new(*postgres.MessageRepository)),
		),
		// Queue & Channel Providers
		wire.NewSet(
			queue.NewRedisQueue,
			wire.Bind(new(queue.Queue), new(*queue.RedisQueue)),

			pubsub.NewRedisChannel,
			wire.Bind(new(pubsub.Channel), new(*pubsub.RedisChannel)),
		),
		// Auth & Policy Providers
		wire.NewSet(
			provideVerifier,
			wire.Bind(new(auth.Verifier), new(*auth.JWTVerifier)),

			policy.NewRolePolicy,
			wire.Bind(new(policy.Policy), new(*policy.RolePolicy)),
		),
		// Pipeline Providers
		wire.NewSet(
			provideHub,
			provideRelay,
			provideConsumerPool,
			handler.NewWebsocketHandler,
		),
		// App Provider
		wire.NewSet(
			wire.Struct(new(App), "*"),
		),
	)
	return nil, nil, nil
}
