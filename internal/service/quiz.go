package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/store"
)

// Quiz step numbers. Forward moves require the current step to validate;
// backward moves are unconditional and handled by the client.
const (
	QuizStepDog  = 1
	QuizStepCare = 2
	QuizStepLead = 3
)

// PlanGenerator is what the quiz needs from the AI layer: generate a plan,
// park the result where a later request can pick it up, and describe the
// optional photo.
type PlanGenerator interface {
	GenerateMealPlan(ctx context.Context, profile models.DogProfile) (*models.MealPlan, error)
	SavePlan(ctx context.Context, submissionID string, plan *models.MealPlan) error
	AnalyzeImage(ctx context.Context, base64Image, mimeType string) (string, error)
}

// PhotoUploader stores the optional quiz photo. May be nil when media
// storage is not configured.
type PhotoUploader interface {
	UploadQuizPhoto(ctx context.Context, submissionID, base64Data, mimeType string) (string, error)
}

// QuizService runs the personalization quiz: per-step validation, lead
// capture, and the fire-and-forget plan generation that follows a
// successful submission.
type QuizService struct {
	store    *store.Store
	plans    PlanGenerator
	uploader PhotoUploader
	logger   *zap.Logger
}

// NewQuizService creates a new QuizService instance. uploader may be nil.
func NewQuizService(s *store.Store, plans PlanGenerator, uploader PhotoUploader, logger *zap.Logger) *QuizService {
	return &QuizService{store: s, plans: plans, uploader: uploader, logger: logger}
}

// ValidateStep checks the required fields of one quiz step and returns
// per-field Spanish messages. An empty map means the step may advance.
func (s *QuizService) ValidateStep(step int, profile models.DogProfile, lead models.Lead) map[string]string {
	errs := map[string]string{}

	switch step {
	case QuizStepDog:
		if strings.TrimSpace(profile.Name) == "" {
			errs["name"] = "El nombre es obligatorio."
		}
		if strings.TrimSpace(profile.Age) == "" {
			errs["age"] = "La edad es obligatoria."
		} else if age, err := strconv.ParseFloat(strings.TrimSpace(profile.Age), 64); err != nil || age < 0 {
			errs["age"] = "La edad no puede ser negativa."
		}
		if strings.TrimSpace(profile.Weight) == "" {
			errs["weight"] = "El peso es obligatorio."
		} else if weight, err := strconv.ParseFloat(strings.TrimSpace(profile.Weight), 64); err != nil || weight <= 0 {
			errs["weight"] = "El peso debe ser positivo."
		}
		if profile.Breed == "" {
			errs["breed"] = "Por favor, selecciona una raza."
		}
	case QuizStepCare:
		// Activity level defaults and allergies are free text; nothing to check.
	case QuizStepLead:
		if strings.TrimSpace(lead.Name) == "" || strings.TrimSpace(lead.Email) == "" || !strings.Contains(lead.Email, "@") {
			errs["lead"] = "Por favor, completa tu nombre y un correo válido."
		}
	}

	return errs
}

// Submit persists the lead and the storable profile subset, then fires plan
// generation in the background. The returned submission is what was written:
// it never contains the uploaded document.
func (s *QuizService) Submit(ctx context.Context, profile models.DogProfile, lead models.Lead) (*models.QuizSubmission, map[string]string, error) {
	errs := s.ValidateStep(QuizStepDog, profile, lead)
	for k, v := range s.ValidateStep(QuizStepLead, profile, lead) {
		errs[k] = v
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}

	submission := models.QuizSubmission{
		OwnerName:   strings.TrimSpace(lead.Name),
		OwnerEmail:  strings.TrimSpace(lead.Email),
		DogProfile:  profile.Storable(),
		SubmittedAt: time.Now().UTC(),
	}

	// The id is assigned here rather than by the store so the photo can be
	// keyed by it before the document is written.
	id := uuid.New().String()
	if s.uploader != nil && profile.Photo != "" {
		data, mimeType := splitDataURL(profile.Photo)
		url, err := s.uploader.UploadQuizPhoto(ctx, id, data, mimeType)
		if err != nil {
			s.logger.Warn("quiz photo upload failed",
				zap.String("submission_id", id), zap.Error(err))
		} else {
			submission.PhotoURL = url
		}
	}

	if err := s.store.Set(ctx, store.RootOwner, store.QuizSubmissions, id, submission); err != nil {
		return nil, nil, err
	}
	submission.ID = id

	// Lead capture succeeded; the confirmation goes out now. Plan generation
	// is best-effort from here on and its failure is only ever logged.
	go s.generatePlan(context.WithoutCancel(ctx), submission.ID, profile)

	return &submission, nil, nil
}

// AnalyzePhoto returns advisory analysis text for the quiz photo. It never
// fails the quiz: any error collapses to the canned apology the form shows
// under the upload field. Storage happens later, in Submit, once the
// submission has an id to key the object by.
func (s *QuizService) AnalyzePhoto(ctx context.Context, base64Image, mimeType string) string {
	text, err := s.plans.AnalyzeImage(ctx, base64Image, mimeType)
	if err != nil {
		s.logger.Warn("quiz photo analysis failed", zap.Error(err))
		return "No se pudo analizar la foto."
	}
	return text
}

// splitDataURL separates a client-side "data:<mime>;base64,<data>" string
// into its payload and mime type. Bare base64 is passed through with a jpeg
// default.
func splitDataURL(s string) (base64Data, mimeType string) {
	if !strings.HasPrefix(s, "data:") {
		return s, "image/jpeg"
	}
	rest := strings.TrimPrefix(s, "data:")
	mimeEnd := strings.Index(rest, ";base64,")
	if mimeEnd < 0 {
		return s, "image/jpeg"
	}
	return rest[mimeEnd+len(";base64,"):], rest[:mimeEnd]
}

// generatePlan is the detached background task behind Submit. At most once,
// best effort: a failure here is logged and swallowed because the user has
// already seen the confirmation.
func (s *QuizService) generatePlan(ctx context.Context, submissionID string, profile models.DogProfile) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	plan, err := s.plans.GenerateMealPlan(ctx, profile)
	if err != nil {
		s.logger.Error("background meal plan generation failed",
			zap.String("submission_id", submissionID), zap.Error(err))
		return
	}

	if err := s.plans.SavePlan(ctx, submissionID, plan); err != nil {
		s.logger.Error("failed to store generated meal plan",
			zap.String("submission_id", submissionID), zap.Error(err))
		return
	}

	s.logger.Info("meal plan generated", zap.String("submission_id", submissionID))
}
