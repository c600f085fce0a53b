package service

import (
	"context"

	"google.golang.org/genai"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/types"
)

// IAuthService defines the identity adapter surface used by handlers and
// middleware.
type IAuthService interface {
	Signup(ctx context.Context, name, email, password string) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	FederatedLogin(ctx context.Context, idToken string) (string, *models.User, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IAIService defines the hosted-AI proxy surface behind the single action
// endpoint.
type IAIService interface {
	GenerateMealPlan(ctx context.Context, profile models.DogProfile) (*models.MealPlan, error)
	ChatResponse(ctx context.Context, message string, history []ChatTurn) (string, error)
	AnalyzeImage(ctx context.Context, base64Image, mimeType string) (string, error)
	AnalyzeVideo(ctx context.Context, base64Video, mimeType string) (string, error)
	SearchWithGrounding(ctx context.Context, query string) (*genai.GenerateContentResponse, error)
	FindNearbyPlaces(ctx context.Context, query string, latitude, longitude float64) (*genai.GenerateContentResponse, error)
	GetPlan(ctx context.Context, submissionID string) (*models.MealPlan, error)
}
