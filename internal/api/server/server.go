// Package server wires the gin router, middleware and handlers of the
// homelab API service.
package server

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/homelab-dev/homelab/internal/api/broker"
	"github.com/homelab-dev/homelab/internal/api/logger"
	"github.com/homelab-dev/homelab/internal/api/storage"
)

// Version is reported by the banner and health endpoints.
const Version = "1.0.0"

// UserStore reads users from the database.
type UserStore interface {
	LatestUsers(ctx context.Context, limit int) ([]storage.User, error)
	Ping(ctx context.Context) error
}

// Cache stores string values with a fixed expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

// Publisher publishes messages to the broker.
type Publisher interface {
	Publish(ctx context.Context, message broker.Message) error
	Ping(ctx context.Context) error
}

// Deps holds the dependencies of the HTTP handlers.
type Deps struct {
	Users  UserStore
	Cache  Cache
	Broker Publisher
	Logger logger.Logger
}

// NewRouter builds the gin engine with CORS, the metrics middleware and all
// routes.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	metrics := NewMetrics()
	router.Use(metrics.Middleware())

	handlers := newHandlers(deps)

	router.GET("/", handlers.banner)
	router.GET("/health", handlers.health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/messages", handlers.sendMessage)
	router.GET("/cache/:key", handlers.getCache)
	router.POST("/cache/:key", handlers.setCache)
	router.GET("/database/users", handlers.listUsers)

	return router
}
