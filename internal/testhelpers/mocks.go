package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
	"github.com/doggofresh/backend/internal/types"
)

// MockAuthService is a mock implementation of the IAuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) FederatedLogin(ctx context.Context, idToken string) (string, *models.User, error) {
	args := m.Called(ctx, idToken)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockAIService is a mock implementation of the IAIService interface
type MockAIService struct {
	mock.Mock
}

func (m *MockAIService) GenerateMealPlan(ctx context.Context, profile models.DogProfile) (*models.MealPlan, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlan), args.Error(1)
}

func (m *MockAIService) ChatResponse(ctx context.Context, message string, history []service.ChatTurn) (string, error) {
	args := m.Called(ctx, message, history)
	return args.String(0), args.Error(1)
}

func (m *MockAIService) AnalyzeImage(ctx context.Context, base64Image, mimeType string) (string, error) {
	args := m.Called(ctx, base64Image, mimeType)
	return args.String(0), args.Error(1)
}

func (m *MockAIService) AnalyzeVideo(ctx context.Context, base64Video, mimeType string) (string, error) {
	args := m.Called(ctx, base64Video, mimeType)
	return args.String(0), args.Error(1)
}

func (m *MockAIService) SearchWithGrounding(ctx context.Context, query string) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func (m *MockAIService) FindNearbyPlaces(ctx context.Context, query string, latitude, longitude float64) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, query, latitude, longitude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func (m *MockAIService) GetPlan(ctx context.Context, submissionID string) (*models.MealPlan, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlan), args.Error(1)
}

// MockPlanGenerator is a mock implementation of the PlanGenerator interface
type MockPlanGenerator struct {
	mock.Mock
}

func (m *MockPlanGenerator) GenerateMealPlan(ctx context.Context, profile models.DogProfile) (*models.MealPlan, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealPlan), args.Error(1)
}

func (m *MockPlanGenerator) SavePlan(ctx context.Context, submissionID string, plan *models.MealPlan) error {
	args := m.Called(ctx, submissionID, plan)
	return args.Error(0)
}

func (m *MockPlanGenerator) AnalyzeImage(ctx context.Context, base64Image, mimeType string) (string, error) {
	args := m.Called(ctx, base64Image, mimeType)
	return args.String(0), args.Error(1)
}

// MockPhotoUploader is a mock implementation of the PhotoUploader interface
type MockPhotoUploader struct {
	mock.Mock
}

func (m *MockPhotoUploader) UploadQuizPhoto(ctx context.Context, submissionID, base64Data, mimeType string) (string, error) {
	args := m.Called(ctx, submissionID, base64Data, mimeType)
	return args.String(0), args.Error(1)
}

// MockPetPhotoUploader is a mock implementation of the PetPhotoUploader interface
type MockPetPhotoUploader struct {
	mock.Mock
}

func (m *MockPetPhotoUploader) UploadPetPhoto(ctx context.Context, userID, petID, base64Data, mimeType string) (string, error) {
	args := m.Called(ctx, userID, petID, base64Data, mimeType)
	return args.String(0), args.Error(1)
}
