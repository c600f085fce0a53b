package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/api"
	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
	"github.com/doggofresh/backend/internal/testhelpers"
)

func setupAIRouter(ai *testhelpers.MockAIService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := api.NewAIHandler(ai, zap.NewNop())
	r := gin.New()
	r.POST("/api/v1/ai", h.Dispatch)
	r.GET("/api/v1/ai/plans/:id", h.GetPlan)
	return r
}

func postAI(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestDispatchUnknownAction(t *testing.T) {
	r := setupAIRouter(&testhelpers.MockAIService{})

	w := postAI(t, r, map[string]any{"action": "hackTheGibson"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Acción no válida", body["error"])
}

func TestDispatchMissingAction(t *testing.T) {
	r := setupAIRouter(&testhelpers.MockAIService{})

	w := postAI(t, r, map[string]any{"message": "hola"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchGenerateMealPlan(t *testing.T) {
	ai := &testhelpers.MockAIService{}
	plan := &models.MealPlan{
		ProfileSummary: "Rocky es un perro activo",
		WeeklyPlan:     []models.DailyMeal{{Day: "Lunes", Breakfast: "Pollo", Dinner: "Res"}},
	}
	ai.On("GenerateMealPlan", mock.Anything, mock.Anything).Return(plan, nil)

	r := setupAIRouter(ai)
	w := postAI(t, r, map[string]any{
		"action":  "generateMealPlan",
		"profile": models.DogProfile{Name: "Rocky", Age: "5", Breed: "Mestizo", Weight: "12"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var got models.MealPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, plan.ProfileSummary, got.ProfileSummary)
	require.Len(t, got.WeeklyPlan, 1)
	assert.Equal(t, "Lunes", got.WeeklyPlan[0].Day)
}

func TestDispatchGenerateMealPlanWithoutProfile(t *testing.T) {
	r := setupAIRouter(&testhelpers.MockAIService{})

	w := postAI(t, r, map[string]any{"action": "generateMealPlan"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchChat(t *testing.T) {
	ai := &testhelpers.MockAIService{}
	history := []service.ChatTurn{{Role: "user", Parts: []service.ChatPart{{Text: "hola"}}}}
	ai.On("ChatResponse", mock.Anything, "¿qué come mi perro?", history).Return("Comida fresca.", nil)

	r := setupAIRouter(ai)
	w := postAI(t, r, map[string]any{
		"action":  "getChatResponse",
		"message": "¿qué come mi perro?",
		"history": history,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Comida fresca.", body["text"])
}

func TestDispatchFindNearbyPlacesWithoutLocation(t *testing.T) {
	r := setupAIRouter(&testhelpers.MockAIService{})

	w := postAI(t, r, map[string]any{"action": "findNearbyPlaces", "query": "veterinarias"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchUpstreamFailureIsGeneric(t *testing.T) {
	ai := &testhelpers.MockAIService{}
	ai.On("AnalyzeImage", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	r := setupAIRouter(ai)
	w := postAI(t, r, map[string]any{
		"action":      "analyzeImage",
		"base64Image": "AAAA",
		"mimeType":    "image/png",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Ocurrió un error en el servidor.", body["error"])
	assert.NotContains(t, w.Body.String(), assert.AnError.Error(), "upstream detail must not leak")
}

func TestGetPlanNotReady(t *testing.T) {
	ai := &testhelpers.MockAIService{}
	ai.On("GetPlan", mock.Anything, "sub-1").Return(nil, service.ErrPlanNotFound)

	r := setupAIRouter(ai)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ai/plans/sub-1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "El plan aún no está disponible.", body["error"])
}

func TestGetPlanReady(t *testing.T) {
	ai := &testhelpers.MockAIService{}
	ai.On("GetPlan", mock.Anything, "sub-1").Return(&models.MealPlan{ProfileSummary: "Listo"}, nil)

	r := setupAIRouter(ai)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ai/plans/sub-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.MealPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Listo", got.ProfileSummary)
}
