package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentHandler mantiene dependencias para endpoints de comentarios.
// El grupo sólo se registra cuando el feature flag está activo; el
// resto del sistema no lo trata como caso especial.
type CommentHandler struct {
	logger *zap.Logger
}

// NewCommentHandler crea una instancia de CommentHandler.
func NewCommentHandler(logger *zap.Logger) *CommentHandler {
	return &CommentHandler{logger: logger}
}

// List maneja GET /api/comments.
func (h *CommentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"comments": []string{}})
}

// Create maneja POST /api/comments.
func (h *CommentHandler) Create(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "comments are not available yet"})
}
