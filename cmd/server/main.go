package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kietpt2003/fpt-playground-realtime/internal/repository/postgres"
)

func main() {
	app, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	logger := app.Logger
	cfg := app.Config

	logger.Info().Msg("running database migrations...")
	if err := postgres.RunMigrations(cfg.PostgresURL); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	// Shutdown signal for the consumers and the relay; they finish in-flight
	// work before exiting.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go app.Hub.Run()
	if err := app.Relay.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("broadcast relay failed to start")
	}
	app.Consumers.Start(ctx)

	r := mux.NewRouter()
	r.HandleFunc("/ws", app.WSHandler.HandleConnection).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("instance", cfg.InstanceID).
			Msg("starting realtime server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Stop the consumers and relay first; a store write already in flight
	// completes before its worker exits.
	cancel()
	app.Consumers.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
