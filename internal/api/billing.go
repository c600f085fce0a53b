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

// BillingHandler serves the billing account page. This is demo-store data;
// nothing about the card is verified.
type BillingHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewBillingHandler creates a new BillingHandler instance
func NewBillingHandler(accounts *service.AccountService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers the payment-method routes on an authenticated group
func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	pm := router.Group("/payment-methods")
	{
		pm.GET("", h.List)
		pm.POST("", h.Create)
		pm.PUT("/:id", h.Update)
		pm.DELETE("/:id", h.Delete)
	}
}

func (h *BillingHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	methods, err := h.accounts.ListPaymentMethods(c.Request.Context(), userID)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}

type PaymentMethodRequest struct {
	Type   string `json:"type" binding:"required"`
	Last4  string `json:"last4" binding:"required,len=4"`
	Expiry string `json:"expiry" binding:"required"`
}

func (h *BillingHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	pm, err := h.accounts.AddPaymentMethod(c.Request.Context(), userID, models.PaymentMethod{
		Type:   req.Type,
		Last4:  req.Last4,
		Expiry: req.Expiry,
	})
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pm)
}

func (h *BillingHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	pm, err := h.accounts.UpdatePaymentMethod(c.Request.Context(), userID, c.Param("id"), fields)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pm)
}

func (h *BillingHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.accounts.DeletePaymentMethod(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BillingHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No encontrado."})
		return
	}
	h.logger.Error("billing request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocurrió un error en el servidor."})
}
