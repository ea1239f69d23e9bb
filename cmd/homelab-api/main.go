// Command homelab-api runs the sample API service deployed on the cluster.
// It exposes health, messaging, cache and database endpoints backed by the
// PostgreSQL, Redis and RabbitMQ components of the stack.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homelab-dev/homelab/internal/api/broker"
	"github.com/homelab-dev/homelab/internal/api/cache"
	"github.com/homelab-dev/homelab/internal/api/config"
	"github.com/homelab-dev/homelab/internal/api/logger"
	"github.com/homelab-dev/homelab/internal/api/server"
	"github.com/homelab-dev/homelab/internal/api/storage"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	settings := config.Load()

	log, err := logger.New(settings.Logger)
	if err != nil {
		logger.NewConsole(logger.LevelError).Error("failed to create logger", "error", err)
		os.Exit(1)
	}

	router := server.NewRouter(server.Deps{
		Users:  storage.NewRepository(settings.Postgres),
		Cache:  cache.New(settings.Redis),
		Broker: broker.NewPublisher(settings.RabbitMQ),
		Logger: log,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", settings.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("starting API server", "port", settings.Port, "version", server.Version)

		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down API server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shut down server", "error", err)
		os.Exit(1)
	}

	log.Info("API server stopped")
}
