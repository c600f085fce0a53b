package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/doggofresh/backend/internal/models"
)

const (
	planModel  = "gemini-2.5-pro"
	videoModel = "gemini-2.5-pro"
	chatModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash"
)

const mealPlanSystemInstruction = "Eres un nutricionista canino experto de clase mundial. Tu tarea es crear un plan de alimentación personalizado para un servicio de suscripción llamado 'DoggoFresh' que prepara y entrega comida fresca para perros en Quito, Ecuador. El plan debe describir las comidas que DoggoFresh preparará y entregará. NO proporciones instrucciones de cocina para el usuario. Describe el plato final que recibirá. Utiliza ingredientes frescos y de alta calidad disponibles en Quito. El plan debe ser para una semana, con dos comidas al día (desayuno y cena). Para cada comida, describe los ingredientes principales y sus beneficios. La respuesta debe estar en español y seguir estrictamente el esquema JSON proporcionado."

const chatSystemInstruction = "Eres 'Paco', el amigable y experto asistente de 'DoggoFresh', una startup de comida fresca para perros en Quito. Tu objetivo es responder preguntas de los usuarios sobre nuestros servicios, nutrición canina y el bienestar de sus mascotas. Sé amable, servicial y conciso en español. Si no sabes una respuesta, amablemente di que consultarás con el equipo de nutricionistas. No inventes información médica. Mantén el tono de la marca: natural, confiable y moderno."

const imagePrompt = "Analiza esta imagen de un perro. Describe brevemente su posible raza o mezcla de razas, su estado de ánimo aparente y cualquier característica física notable. Termina con un comentario positivo y amigable. Responde en no más de 3 frases y en español."

const videoPrompt = "Analiza este breve video de un perro. Observa su movimiento, nivel de energía y comportamiento general. Proporciona un breve resumen de tus observaciones sobre su posible estado de agilidad y actividad. No des diagnósticos médicos. Tu análisis debe ser general y positivo. Por ejemplo: 'Este perro parece tener mucha energía y se mueve con agilidad, ¡ideal para juegos al aire libre!'. Responde en español."

var mealPlanSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"profileSummary": {Type: genai.TypeString},
		"weeklyPlan": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"day":       {Type: genai.TypeString},
					"breakfast": {Type: genai.TypeString},
					"dinner":    {Type: genai.TypeString},
				},
			},
		},
		"nutritionalJustification": {Type: genai.TypeString},
		"additionalTips":           {Type: genai.TypeString},
	},
	Required: []string{"profileSummary", "weeklyPlan", "nutritionalJustification", "additionalTips"},
}

// ChatPart and ChatTurn are the wire shape of chat history. The caller
// resends the full prior history on every request; nothing is kept here.
type ChatPart struct {
	Text string `json:"text"`
}

type ChatTurn struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

// ErrPlanNotFound is returned when no generated plan exists for an id.
var ErrPlanNotFound = errors.New("meal plan not found")

// GeminiService performs the hosted-AI calls behind the proxy endpoint and
// stores background-generated meal plans in Redis. Stateless between calls;
// every call is a fresh round trip with no retries.
type GeminiService struct {
	client *genai.Client
	redis  *redis.Client
	logger *zap.Logger
	dummy  bool
}

// NewGeminiService creates the service. With an empty API key it runs in
// dummy mode (only reachable when the config allows it) and answers every
// action with canned Spanish text.
func NewGeminiService(ctx context.Context, apiKey string, redisClient *redis.Client, logger *zap.Logger) (*GeminiService, error) {
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set; AI actions will return canned dummy responses")
		return &GeminiService{redis: redisClient, logger: logger, dummy: true}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{client: client, redis: redisClient, logger: logger}, nil
}

// GenerateMealPlan produces a weekly plan for the given dog profile using
// the fixed JSON response schema.
func (s *GeminiService) GenerateMealPlan(ctx context.Context, profile models.DogProfile) (*models.MealPlan, error) {
	if s.dummy {
		return dummyMealPlan(profile), nil
	}

	allergies := profile.Allergies
	if allergies == "" {
		allergies = "Ninguna especificada"
	}
	prompt := fmt.Sprintf(
		"Datos del Perro: - Nombre: %s - Edad: %s años - Raza: %s - Peso: %s kg - Nivel de Actividad: %s - Alergias/Condiciones: %s. Por favor, genera el plan de alimentación personalizado en formato JSON.",
		profile.Name, profile.Age, profile.Breed, profile.Weight, profile.ActivityLevel, allergies,
	)

	resp, err := s.client.Models.GenerateContent(ctx, planModel, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(mealPlanSystemInstruction, genai.RoleUser),
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](32768)},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    mealPlanSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("meal plan generation failed: %w", err)
	}

	var plan models.MealPlan
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &plan); err != nil {
		return nil, fmt.Errorf("meal plan response was not valid JSON: %w", err)
	}
	return &plan, nil
}

// ChatResponse answers one chat turn. History arrives from the caller in
// full and is replayed into a fresh provider chat each time.
func (s *GeminiService) ChatResponse(ctx context.Context, message string, history []ChatTurn) (string, error) {
	if s.dummy {
		return "¡Hola! Soy Paco. En este momento estoy en modo de demostración, pero pronto podré responder tus preguntas sobre nutrición canina.", nil
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		parts := make([]*genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			parts = append(parts, genai.NewPartFromText(p.Text))
		}
		role := genai.RoleUser
		if turn.Role == string(genai.RoleModel) {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{Role: string(role), Parts: parts})
	}

	chat, err := s.client.Chats.Create(ctx, chatModel, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemInstruction, genai.RoleUser),
	}, contents)
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("chat turn failed: %w", err)
	}
	return resp.Text(), nil
}

// AnalyzeImage describes a dog photo in up to three Spanish sentences.
func (s *GeminiService) AnalyzeImage(ctx context.Context, base64Image, mimeType string) (string, error) {
	if s.dummy {
		return "¡Qué perro tan bonito! (análisis de demostración)", nil
	}
	return s.analyzeMedia(ctx, imageModel, imagePrompt, base64Image, mimeType)
}

// AnalyzeVideo summarizes a short dog video without medical diagnoses.
func (s *GeminiService) AnalyzeVideo(ctx context.Context, base64Video, mimeType string) (string, error) {
	if s.dummy {
		return "¡Este perro parece tener mucha energía! (análisis de demostración)", nil
	}
	return s.analyzeMedia(ctx, videoModel, videoPrompt, base64Video, mimeType)
}

func (s *GeminiService) analyzeMedia(ctx context.Context, model, prompt, base64Data, mimeType string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", fmt.Errorf("invalid base64 media payload: %w", err)
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(prompt),
		},
	}}

	resp, err := s.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("media analysis failed: %w", err)
	}
	return resp.Text(), nil
}

// SearchWithGrounding runs a web-grounded query and returns the full
// provider envelope so citation metadata survives the round trip.
func (s *GeminiService) SearchWithGrounding(ctx context.Context, query string) (*genai.GenerateContentResponse, error) {
	if s.dummy {
		return dummyEnvelope("Resultado de búsqueda de demostración para: " + query), nil
	}

	resp, err := s.client.Models.GenerateContent(ctx, chatModel, genai.Text("En español: "+query), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, fmt.Errorf("grounded search failed: %w", err)
	}
	return resp, nil
}

// FindNearbyPlaces answers a place query anchored at the given coordinates
// and returns the full provider envelope including map metadata.
func (s *GeminiService) FindNearbyPlaces(ctx context.Context, query string, latitude, longitude float64) (*genai.GenerateContentResponse, error) {
	if s.dummy {
		return dummyEnvelope("Lugares de demostración cerca de ti para: " + query), nil
	}

	resp, err := s.client.Models.GenerateContent(ctx, chatModel, genai.Text(query), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
		ToolConfig: &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{Latitude: genai.Ptr(latitude), Longitude: genai.Ptr(longitude)},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("place search failed: %w", err)
	}
	return resp, nil
}

// SavePlan stores a background-generated meal plan under the quiz submission
// id, kept for 24 hours.
func (s *GeminiService) SavePlan(ctx context.Context, submissionID string, plan *models.MealPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan: %w", err)
	}
	key := planKey(submissionID)
	if err := s.redis.Set(ctx, key, data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to save meal plan to Redis: %w", err)
	}
	return nil
}

// GetPlan retrieves a stored meal plan by quiz submission id.
func (s *GeminiService) GetPlan(ctx context.Context, submissionID string) (*models.MealPlan, error) {
	data, err := s.redis.Get(ctx, planKey(submissionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan from Redis: %w", err)
	}

	var plan models.MealPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
	}
	return &plan, nil
}

func planKey(submissionID string) string {
	return "mealplan:" + submissionID
}

func dummyMealPlan(profile models.DogProfile) *models.MealPlan {
	days := []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}
	weekly := make([]models.DailyMeal, 0, len(days))
	for _, day := range days {
		weekly = append(weekly, models.DailyMeal{
			Day:       day,
			Breakfast: "Pollo fresco con arroz integral y zanahoria",
			Dinner:    "Res magra con camote y espinaca",
		})
	}
	return &models.MealPlan{
		ProfileSummary:           fmt.Sprintf("Plan de demostración para %s.", profile.Name),
		WeeklyPlan:               weekly,
		NutritionalJustification: "Plan de demostración generado sin conexión al servicio de IA.",
		AdditionalTips:           "Configura GEMINI_API_KEY para obtener planes personalizados reales.",
	}
}

func dummyEnvelope(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  string(genai.RoleModel),
				Parts: []*genai.Part{genai.NewPartFromText(text)},
			},
		}},
	}
}
