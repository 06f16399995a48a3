// Package api serves the perspectives and comments HTTP API.
package api

import (
	"context"
	"net/http"
	"time"

	"fullpicture/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the persistence the API reads and writes
type Store interface {
	Search(ctx context.Context, query string) ([]types.Perspective, error)
	Recent(ctx context.Context, limit int) ([]types.Perspective, error)
	Sources(ctx context.Context, query string) ([]string, error)
	Timeline(ctx context.Context, query string) ([]types.TimelineEntry, error)
	Comments(ctx context.Context, perspectiveID string) ([]types.Comment, error)
	AddComment(ctx context.Context, perspectiveID, content string) (types.Comment, error)
	CommentCount(ctx context.Context, perspectiveID string) (int, error)
}

// Cache is an optional response cache for the read endpoints
type Cache interface {
	Get(ctx context.Context, kind, query string, dest interface{}) (bool, error)
	Set(ctx context.Context, kind, query string, v interface{}) error
	Bump(ctx context.Context) error
}

// Handler carries the dependencies shared by every route
type Handler struct {
	store  Store
	cache  Cache
	logger *zap.Logger
}

// NewHandler creates a handler. cache may be nil.
func NewHandler(store Store, cache Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, cache: cache, logger: logger}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger), cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	// Register resource routers
	RegisterHealthRoutes(r)
	RegisterPerspectiveRoutes(r, h)
	RegisterCommentRoutes(r, h)
	return r
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// respondCached serves kind/query from the cache when possible, otherwise
// loads it and fills the cache. Cache failures only cost a log line.
func respondCached[T any](c *gin.Context, h *Handler, kind, query string, load func(ctx context.Context) (T, error)) {
	ctx := c.Request.Context()

	if h.cache != nil {
		var hit T
		ok, err := h.cache.Get(ctx, kind, query, &hit)
		if err != nil {
			h.logger.Warn("cache read failed", zap.String("kind", kind), zap.Error(err))
		} else if ok {
			c.Header("X-Cache", "hit")
			c.JSON(http.StatusOK, hit)
			return
		}
	}

	v, err := load(ctx)
	if err != nil {
		h.logger.Error("failed to load "+kind, zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load " + kind})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, kind, query, v); err != nil {
			h.logger.Warn("cache write failed", zap.String("kind", kind), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, v)
}

// invalidate drops cached responses after a write
func (h *Handler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Bump(ctx); err != nil {
		h.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
