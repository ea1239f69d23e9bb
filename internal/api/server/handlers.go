package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homelab-dev/homelab/internal/api/broker"
	"github.com/homelab-dev/homelab/internal/api/cache"
	"github.com/homelab-dev/homelab/internal/api/storage"
)

type handlers struct {
	deps Deps
}

func newHandlers(deps Deps) *handlers {
	return &handlers{deps: deps}
}

func (h *handlers) banner(ginCtx *gin.Context) {
	ginCtx.JSON(http.StatusOK, gin.H{
		"message": "Kubernetes Homelab API",
		"version": Version,
	})
}

// health always answers 200. A degraded dependency shows up in the services
// map instead of the status code, so the kubelet keeps the pod alive while
// the rest of the stack is still deploying.
func (h *handlers) health(ginCtx *gin.Context) {
	ginCtx.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"message":   "API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"services": gin.H{
			"postgresql": dependencyStatus(ginCtx.Request.Context(), h.deps.Users),
			"redis":      dependencyStatus(ginCtx.Request.Context(), h.deps.Cache),
			"rabbitmq":   dependencyStatus(ginCtx.Request.Context(), h.deps.Broker),
		},
	})
}

type messageRequest struct {
	Message  string `json:"message" binding:"required"`
	Priority string `json:"priority"`
}

func (h *handlers) sendMessage(ginCtx *gin.Context) {
	var request messageRequest

	err := ginCtx.ShouldBindJSON(&request)
	if err != nil {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})

		return
	}

	if request.Priority == "" {
		request.Priority = "normal"
	}

	message := broker.NewMessage(request.Message, request.Priority)

	err = h.deps.Broker.Publish(ginCtx.Request.Context(), message)

	switch {
	case errors.Is(err, broker.ErrUnavailable):
		ginCtx.JSON(http.StatusServiceUnavailable, gin.H{"detail": "RabbitMQ service unavailable"})

		return
	case err != nil:
		h.logError("failed to send message", err)
		ginCtx.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to send message"})

		return
	}

	ginCtx.JSON(http.StatusOK, gin.H{
		"id":        message.ID,
		"message":   message.Message,
		"status":    "sent",
		"timestamp": message.Timestamp,
	})
}

func (h *handlers) getCache(ginCtx *gin.Context) {
	key := ginCtx.Param("key")

	value, err := h.deps.Cache.Get(ginCtx.Request.Context(), key)

	switch {
	case errors.Is(err, cache.ErrKeyNotFound):
		ginCtx.JSON(http.StatusNotFound, gin.H{"detail": "Key not found"})

		return
	case errors.Is(err, cache.ErrUnavailable):
		ginCtx.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Redis service unavailable"})

		return
	case err != nil:
		h.logError("failed to read cache", err)
		ginCtx.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get value"})

		return
	}

	ginCtx.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

func (h *handlers) setCache(ginCtx *gin.Context) {
	key := ginCtx.Param("key")

	value, ok := ginCtx.GetQuery("value")
	if !ok {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"detail": "value query parameter is required"})

		return
	}

	err := h.deps.Cache.Set(ginCtx.Request.Context(), key, value)

	switch {
	case errors.Is(err, cache.ErrUnavailable):
		ginCtx.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Redis service unavailable"})

		return
	case err != nil:
		h.logError("failed to write cache", err)
		ginCtx.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to set value"})

		return
	}

	ginCtx.JSON(http.StatusOK, gin.H{"key": key, "value": value, "status": "set"})
}

func (h *handlers) listUsers(ginCtx *gin.Context) {
	users, err := h.deps.Users.LatestUsers(ginCtx.Request.Context(), 10)

	switch {
	case errors.Is(err, storage.ErrUnavailable):
		ginCtx.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database service unavailable"})

		return
	case err != nil:
		h.logError("failed to list users", err)
		ginCtx.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get users"})

		return
	}

	if users == nil {
		users = []storage.User{}
	}

	ginCtx.JSON(http.StatusOK, gin.H{"users": users})
}

// --- internals ---

type pinger interface {
	Ping(ctx context.Context) error
}

func dependencyStatus(ctx context.Context, dependency pinger) string {
	if err := dependency.Ping(ctx); err != nil {
		return "disconnected"
	}

	return "connected"
}

func (h *handlers) logError(msg string, err error) {
	if h.deps.Logger != nil {
		h.deps.Logger.Error(msg, "error", err)
	}
}
