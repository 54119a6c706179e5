package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"napps-server/internal/auth"
)

// SessionGateway es el contrato del gateway de autenticación que
// consumen los endpoints de login/logout.
type SessionGateway interface {
	Login(ctx context.Context, username, secret string) (string, time.Time, error)
	Logout(ctx context.Context, token string)
	Resolve(ctx context.Context, token string) (string, error)
}

// AuthHandler mantiene dependencias para los endpoints de autenticación.
type AuthHandler struct {
	logger  *zap.Logger
	gateway SessionGateway
}

// NewAuthHandler crea una instancia de AuthHandler.
func NewAuthHandler(logger *zap.Logger, gateway SessionGateway) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		gateway: gateway,
	}
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, expiresAt, err := h.gateway.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout maneja POST /api/auth/logout. Es idempotente: un token ya
// inválido también responde 204.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.gateway.Logout(c.Request.Context(), bearerToken(c))
	c.Status(http.StatusNoContent)
}
