package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/middleware"
	"github.com/doggofresh/backend/internal/service"
	"github.com/doggofresh/backend/internal/store"
)

// SubscriptionsHandler serves the subscriptions account page. Pricing is
// recomputed server-side on every plan change; clients never send a price.
type SubscriptionsHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewSubscriptionsHandler creates a new SubscriptionsHandler instance
func NewSubscriptionsHandler(accounts *service.AccountService, logger *zap.Logger) *SubscriptionsHandler {
	return &SubscriptionsHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers the subscription routes on an authenticated group
func (h *SubscriptionsHandler) RegisterRoutes(router *gin.RouterGroup) {
	subs := router.Group("/subscriptions")
	{
		subs.GET("", h.List)
		subs.PUT("/:id/plan", h.ModifyPlan)
		subs.POST("/:id/cancel", h.Cancel)
	}
}

func (h *SubscriptionsHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subs, err := h.accounts.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

type ModifyPlanRequest struct {
	MealsPerWeek *int `json:"mealsPerWeek" binding:"required"`
}

func (h *SubscriptionsHandler) ModifyPlan(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ModifyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.MealsPerWeek < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	quote, err := h.accounts.ModifyPlan(c.Request.Context(), userID, c.Param("id"), *req.MealsPerWeek)
	if errors.Is(err, service.ErrSubscriptionCancelled) {
		c.JSON(http.StatusConflict, gin.H{"error": "Esta suscripción está cancelada."})
		return
	}
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *SubscriptionsHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sub, err := h.accounts.CancelSubscription(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionsHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No encontrado."})
		return
	}
	h.logger.Error("subscriptions request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocurrió un error en el servidor."})
}
