package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/middleware"
	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
	"github.com/doggofresh/backend/internal/store"
)

// ProfileHandler serves the profile account page: display name, email and
// delivery address, including the "use current location" coordinates.
type ProfileHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler instance
func NewProfileHandler(accounts *service.AccountService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers the profile routes on an authenticated group
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.Get)
		profile.PUT("", h.Update)
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.accounts.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name    string          `json:"name" binding:"required"`
	Email   string          `json:"email" binding:"required,email"`
	Address *models.Address `json:"address"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	fields := map[string]any{
		"name":  req.Name,
		"email": req.Email,
	}
	if req.Address != nil {
		fields["address"] = req.Address
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), userID, fields)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No encontrado."})
		return
	}
	h.logger.Error("profile request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocurrió un error en el servidor."})
}

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// Contact accepts the public contact-form message and logs it; there is no
// ticketing system behind this.
func Contact(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
			return
		}

		logger.Info("contact form message",
			zap.String("name", req.Name),
			zap.String("email", req.Email),
			zap.String("message", req.Message))
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "¡Gracias por escribirnos! Te responderemos pronto."})
	}
}
