package api

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"fullpicture/config"
	"fullpicture/storage"
	"fullpicture/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterCommentRoutes registers the per-perspective comment endpoints.
func RegisterCommentRoutes(r *gin.Engine, h *Handler) {
	g := r.Group("/api/perspectives/:id/comments")
	g.GET("", h.handleListComments)
	g.POST("", h.handlePostComment)
	g.GET("/count", h.handleCommentCount)
}

// handleListComments returns a perspective's comments, newest first
func (h *Handler) handleListComments(c *gin.Context) {
	id := c.Param("id")
	list, err := h.store.Comments(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to list comments", zap.String("perspective_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// handlePostComment stores a comment and echoes it back
func (h *Handler) handlePostComment(c *gin.Context) {
	id := c.Param("id")

	var req types.NewCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if utf8.RuneCountInString(content) > config.MaxCommentLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is too long"})
		return
	}

	comment, err := h.store.AddComment(c.Request.Context(), id, content)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "perspective not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to store comment", zap.String("perspective_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store comment"})
		return
	}

	h.invalidate(c.Request.Context())
	h.logger.Info("comment stored", zap.String("perspective_id", id), zap.String("comment_id", comment.ID))
	c.JSON(http.StatusCreated, comment)
}

// handleCommentCount returns {count} for a perspective
func (h *Handler) handleCommentCount(c *gin.Context) {
	id := c.Param("id")
	n, err := h.store.CommentCount(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to count comments", zap.String("perspective_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count comments"})
		return
	}
	c.JSON(http.StatusOK, types.CommentCount{Count: n})
}
