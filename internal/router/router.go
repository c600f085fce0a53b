package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/api"
	"github.com/doggofresh/backend/internal/middleware"
	"github.com/doggofresh/backend/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *api.AuthHandler
	AI            *api.AIHandler
	Quiz          *api.QuizHandler
	Pets          *api.PetsHandler
	Subscriptions *api.SubscriptionsHandler
	Billing       *api.BillingHandler
	Profile       *api.ProfileHandler
}

// SetupRouter configures the application routes. The route split mirrors the
// site: quiz, breeds, contact and the AI tools are public (they render on
// the homepage); everything under an account requires a session.
func SetupRouter(h Handlers, authService service.IAuthService, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "https://doggofresh.ec"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	h.Auth.RegisterRoutes(v1)
	h.Quiz.RegisterRoutes(v1)
	v1.POST("/ai", h.AI.Dispatch)
	// Quiz submitters are anonymous leads, so plan retrieval is keyed only by
	// the unguessable submission id.
	v1.GET("/ai/plans/:id", h.AI.GetPlan)
	v1.POST("/contact", api.Contact(logger))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.POST("/logout", h.Auth.Logout)
		h.Profile.RegisterRoutes(protected)
		h.Pets.RegisterRoutes(protected)
		h.Subscriptions.RegisterRoutes(protected)
		h.Billing.RegisterRoutes(protected)
	}

	return router
}
