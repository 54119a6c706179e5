package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"napps-server/internal/service"
)

// NappHandler mantiene dependencias para endpoints de napps.
type NappHandler struct {
	logger   *zap.Logger
	nappServ *service.NappService
}

// NewNappHandler crea una instancia de NappHandler.
func NewNappHandler(logger *zap.Logger, nappServ *service.NappService) *NappHandler {
	return &NappHandler{
		logger:   logger,
		nappServ: nappServ,
	}
}

// List maneja GET /api/napps. Acepta ?length=N para acotar la lista.
func (h *NappHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("length"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid length"})
			return
		}
		limit = parsed
	}

	napps, err := h.nappServ.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list napps failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list napps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"napps": napps})
}

// ListByAuthor maneja GET /api/napps/:author.
func (h *NappHandler) ListByAuthor(c *gin.Context) {
	napps, err := h.nappServ.ListByAuthor(c.Request.Context(), c.Param("author"))
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		h.logger.Error("list napps by author failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list napps"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"napps": napps})
}

// Get maneja GET /api/napps/:author/:name.
func (h *NappHandler) Get(c *gin.Context) {
	napp, err := h.nappServ.Get(c.Request.Context(), c.Param("author"), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
		case errors.Is(err, service.ErrNappNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "napp not found"})
		default:
			h.logger.Error("get napp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get napp"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"napp": napp})
}

// Register maneja POST /api/napps. Requiere sesión válida.
func (h *NappHandler) Register(c *gin.Context) {
	principalID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req struct {
		Author          string   `json:"author" binding:"required"`
		Name            string   `json:"name" binding:"required"`
		Description     string   `json:"description" binding:"required"`
		LongDescription string   `json:"long_description"`
		Version         string   `json:"version" binding:"required"`
		License         string   `json:"license" binding:"required"`
		Git             string   `json:"git" binding:"required"`
		Branch          string   `json:"branch" binding:"required"`
		Readme          string   `json:"readme"`
		OFVersions      []string `json:"ofversions" binding:"required"`
		Tags            []string `json:"tags" binding:"required"`
		Dependencies    []string `json:"dependencies"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register napp request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	napp, err := h.nappServ.Register(c.Request.Context(), principalID, service.RegisterNappInput{
		Author:          req.Author,
		Name:            req.Name,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Version:         req.Version,
		License:         req.License,
		Git:             req.Git,
		Branch:          req.Branch,
		Readme:          req.Readme,
		OFVersions:      req.OFVersions,
		Tags:            req.Tags,
		Dependencies:    req.Dependencies,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAuthor), errors.Is(err, service.ErrAccountDisabled):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "permission denied"})
		case errors.Is(err, service.ErrInvalidNappFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid napp metadata"})
		default:
			h.logger.Error("register napp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register napp"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"napp": napp})
}

// Delete maneja DELETE /api/napps/:author/:name. Requiere sesión válida.
func (h *NappHandler) Delete(c *gin.Context) {
	principalID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	err := h.nappServ.Delete(c.Request.Context(), principalID, c.Param("author"), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAuthor):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "permission denied"})
		case errors.Is(err, service.ErrNappNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "napp not found"})
		default:
			h.logger.Error("delete napp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete napp"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
