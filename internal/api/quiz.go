package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
)

// QuizHandler serves the personalization quiz: breed search, per-step
// validation, photo analysis and the final submission.
type QuizHandler struct {
	quiz   *service.QuizService
	logger *zap.Logger
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quiz *service.QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{quiz: quiz, logger: logger}
}

// RegisterRoutes registers the public quiz routes
func (h *QuizHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/breeds", h.ListBreeds)
	quiz := router.Group("/quiz")
	{
		quiz.POST("/validate", h.Validate)
		quiz.POST("/photo", h.AnalyzePhoto)
		quiz.POST("/submissions", h.Submit)
	}
}

// ListBreeds returns the fixed breed list, filtered by ?q=.
func (h *QuizHandler) ListBreeds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"breeds": service.SearchBreeds(c.Query("q"))})
}

type ValidateRequest struct {
	Step    int               `json:"step" binding:"required,min=1,max=3"`
	Profile models.DogProfile `json:"profile"`
	Lead    models.Lead       `json:"lead"`
}

// Validate checks one step's required fields so the wizard can gate its
// forward transition.
func (h *QuizHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	errs := h.quiz.ValidateStep(req.Step, req.Profile, req.Lead)
	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "errors": errs})
}

type AnalyzePhotoRequest struct {
	Base64Image string `json:"base64Image" binding:"required"`
	MimeType    string `json:"mimeType" binding:"required"`
}

// AnalyzePhoto returns advisory text for an uploaded dog photo. Always 200:
// the analysis is a nicety that never blocks the quiz.
func (h *QuizHandler) AnalyzePhoto(c *gin.Context) {
	var req AnalyzePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	text := h.quiz.AnalyzePhoto(c.Request.Context(), req.Base64Image, req.MimeType)
	c.JSON(http.StatusOK, gin.H{"text": text})
}

type SubmitRequest struct {
	Profile models.DogProfile `json:"profile"`
	Lead    models.Lead       `json:"lead"`
}

// Submit persists the lead and storable profile, answers with the
// confirmation addressed to the lead's email, and lets plan generation run
// in the background.
func (h *QuizHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	submission, fieldErrs, err := h.quiz.Submit(c.Request.Context(), req.Profile, req.Lead)
	if err != nil {
		h.logger.Error("quiz submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo guardar la información. Por favor, inténtalo de nuevo."})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"valid": false, "errors": fieldErrs})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"submission": submission,
		"confirmation": gin.H{
			"title": "¡Gracias por unirte!",
			"message": fmt.Sprintf(
				"Estás en nuestra lista de lanzamiento. Te enviaremos un correo a %s con un cupón de descuento exclusivo tan pronto como DoggoFresh esté listo.",
				submission.OwnerEmail,
			),
		},
	})
}
