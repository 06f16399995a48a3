package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"fullpicture/config"
	"fullpicture/types"

	"github.com/gin-gonic/gin"
)

// RegisterPerspectiveRoutes registers the search and feed endpoints.
func RegisterPerspectiveRoutes(r *gin.Engine, h *Handler) {
	g := r.Group("/api")
	g.GET("/perspectives", h.handleSearch)
	g.GET("/recent", h.handleRecent)
	g.GET("/sources", h.handleSources)
	g.GET("/timeline", h.handleTimeline)
}

// handleSearch returns perspectives matching ?query=, most relevant first.
func (h *Handler) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	respondCached(c, h, "perspectives", query, func(ctx context.Context) ([]types.Perspective, error) {
		return h.store.Search(ctx, query)
	})
}

// handleRecent returns the homepage feed. Query params: limit (int, optional)
func (h *Handler) handleRecent(c *gin.Context) {
	limit := config.RecentFeedLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, config.RecentFeedLimit)
	}
	respondCached(c, h, "recent", strconv.Itoa(limit), func(ctx context.Context) ([]types.Perspective, error) {
		return h.store.Recent(ctx, limit)
	})
}

// handleSources returns the distinct source names covering ?query=
func (h *Handler) handleSources(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	respondCached(c, h, "sources", query, func(ctx context.Context) ([]string, error) {
		return h.store.Sources(ctx, query)
	})
}

// handleTimeline returns perspectives matching ?query= grouped by day
func (h *Handler) handleTimeline(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	respondCached(c, h, "timeline", query, func(ctx context.Context) ([]types.TimelineEntry, error) {
		return h.store.Timeline(ctx, query)
	})
}
