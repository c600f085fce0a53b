package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
)

// AI action names accepted by the proxy endpoint.
const (
	ActionGenerateMealPlan    = "generateMealPlan"
	ActionGetChatResponse     = "getChatResponse"
	ActionAnalyzeImage        = "analyzeImage"
	ActionAnalyzeVideo        = "analyzeVideo"
	ActionSearchWithGrounding = "searchWithGrounding"
	ActionFindNearbyPlaces    = "findNearbyPlaces"
)

// AIHandler is the server-side proxy in front of the hosted AI service: one
// endpoint, one action discriminator, no retries, no streaming, no caching.
type AIHandler struct {
	ai     service.IAIService
	logger *zap.Logger
}

// NewAIHandler creates a new AIHandler instance
func NewAIHandler(ai service.IAIService, logger *zap.Logger) *AIHandler {
	return &AIHandler{ai: ai, logger: logger}
}

// Location is a latitude/longitude pair for place search.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AIRequest is the union of every action's fields; Action picks which ones
// matter.
type AIRequest struct {
	Action      string             `json:"action" binding:"required"`
	Profile     *models.DogProfile `json:"profile"`
	Message     string             `json:"message"`
	History     []service.ChatTurn `json:"history"`
	Base64Image string             `json:"base64Image"`
	Base64Video string             `json:"base64Video"`
	MimeType    string             `json:"mimeType"`
	Query       string             `json:"query"`
	Location    *Location          `json:"location"`
}

// Dispatch handles POST /api/v1/ai.
func (h *AIHandler) Dispatch(c *gin.Context) {
	var req AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Acción no válida"})
		return
	}

	ctx := c.Request.Context()

	switch req.Action {
	case ActionGenerateMealPlan:
		if req.Profile == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el perfil del perro."})
			return
		}
		plan, err := h.ai.GenerateMealPlan(ctx, *req.Profile)
		if err != nil {
			h.upstreamError(c, req.Action, err)
			return
		}
		c.JSON(http.StatusOK, plan)

	case ActionGetChatResponse:
		text, err := h.ai.ChatResponse(ctx, req.Message, req.History)
		if err != nil {
			h.upstreamError(c, req.Action, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"text": text})

	case ActionAnalyzeImage:
		text, err := h.ai.AnalyzeImage(ctx, req.Base64Image, req.MimeType)
		if err != nil {
			h.upstreamError(c, req.Action, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"text": text})

	case ActionAnalyzeVideo:
		text, err := h.ai.AnalyzeVideo(ctx, req.Base64Video, req.MimeType)
		if err != nil {
			h.upstreamError(c, req.Action, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"text": text})

	case ActionSearchWithGrounding:
		resp, err := h.ai.SearchWithGrounding(ctx, req.Query)
		if err != nil {
			h.upstreamError(c, req.Action, err)
			return
		}
		// The whole envelope goes back so grounding chunks survive.
		c.JSON(http.StatusOK, resp)

	case ActionFindNearbyPlaces:
		if req.Location == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Falta la ubicación."})
			return
		}
		resp, err := h.ai.FindNearbyPlaces(ctx, req.Query, req.Location.Latitude, req.Location.Longitude)
		if err != nil {
			h.upstreamError(c, req.Action, err)
			return
		}
		c.JSON(http.StatusOK, resp)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Acción no válida"})
	}
}

// GetPlan handles GET /api/v1/ai/plans/:id, retrieval of a meal plan
// generated in the background after a quiz submission.
func (h *AIHandler) GetPlan(c *gin.Context) {
	plan, err := h.ai.GetPlan(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "El plan aún no está disponible."})
		return
	}
	if err != nil {
		h.logger.Error("failed to load stored meal plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocurrió un error en el servidor."})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// upstreamError logs the hosted service's failure and answers with a generic
// message; upstream detail stays out of responses.
func (h *AIHandler) upstreamError(c *gin.Context, action string, err error) {
	h.logger.Error("AI action failed", zap.String("action", action), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocurrió un error en el servidor."})
}
