package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/store"
)

// ErrSubscriptionCancelled is returned when a plan change is attempted on a
// cancelled subscription. Cancellation is terminal; there is no reactivation.
var ErrSubscriptionCancelled = errors.New("subscription is cancelled")

// AccountService backs the account pages: pets, subscriptions, payment
// methods and the user profile. Every mutation re-reads what it wrote so the
// caller always renders fresh store state. Last write wins throughout.
type AccountService struct {
	store *store.Store
}

// NewAccountService creates a new AccountService instance
func NewAccountService(s *store.Store) *AccountService {
	return &AccountService{store: s}
}

// --- Pets ---

func (s *AccountService) ListPets(ctx context.Context, userID string) ([]models.Pet, error) {
	return store.ListAs[models.Pet](ctx, s.store, userID, store.Pets)
}

func (s *AccountService) AddPet(ctx context.Context, userID string, pet models.Pet) (*models.Pet, error) {
	pet.ID = ""
	id, err := s.store.Create(ctx, userID, store.Pets, pet)
	if err != nil {
		return nil, err
	}
	return store.GetAs[models.Pet](ctx, s.store, userID, store.Pets, id)
}

func (s *AccountService) UpdatePet(ctx context.Context, userID, petID string, fields map[string]any) (*models.Pet, error) {
	delete(fields, "id")
	if err := s.store.Update(ctx, userID, store.Pets, petID, fields); err != nil {
		return nil, err
	}
	return store.GetAs[models.Pet](ctx, s.store, userID, store.Pets, petID)
}

func (s *AccountService) DeletePet(ctx context.Context, userID, petID string) error {
	return s.store.Delete(ctx, userID, store.Pets, petID)
}

// --- Subscriptions ---

func (s *AccountService) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	return store.ListAs[models.Subscription](ctx, s.store, userID, store.Subscriptions)
}

// PlanQuote is the repriced result of a plan change.
type PlanQuote struct {
	Subscription    models.Subscription `json:"subscription"`
	MonthlyEstimate float64             `json:"monthlyEstimate"`
}

// ModifyPlan changes the meals-per-week of a subscription and recomputes its
// weekly price server-side. Rejected once the subscription is cancelled.
func (s *AccountService) ModifyPlan(ctx context.Context, userID, subID string, mealsPerWeek int) (*PlanQuote, error) {
	if mealsPerWeek < 0 {
		return nil, fmt.Errorf("mealsPerWeek must not be negative")
	}

	sub, err := store.GetAs[models.Subscription](ctx, s.store, userID, store.Subscriptions, subID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.StatusCancelled {
		return nil, ErrSubscriptionCancelled
	}

	price := WeeklyPrice(mealsPerWeek)
	err = s.store.Update(ctx, userID, store.Subscriptions, subID, map[string]any{
		"mealsPerWeek": mealsPerWeek,
		"price":        price,
	})
	if err != nil {
		return nil, err
	}

	updated, err := store.GetAs[models.Subscription](ctx, s.store, userID, store.Subscriptions, subID)
	if err != nil {
		return nil, err
	}
	return &PlanQuote{
		Subscription:    *updated,
		MonthlyEstimate: MonthlyEstimate(updated.Price),
	}, nil
}

// CancelSubscription moves a subscription to Cancelada. Idempotent; the
// transition is one-directional.
func (s *AccountService) CancelSubscription(ctx context.Context, userID, subID string) (*models.Subscription, error) {
	if _, err := store.GetAs[models.Subscription](ctx, s.store, userID, store.Subscriptions, subID); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, userID, store.Subscriptions, subID, map[string]any{
		"status": models.StatusCancelled,
	})
	if err != nil {
		return nil, err
	}
	return store.GetAs[models.Subscription](ctx, s.store, userID, store.Subscriptions, subID)
}

// --- Payment methods ---

func (s *AccountService) ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	return store.ListAs[models.PaymentMethod](ctx, s.store, userID, store.PaymentMethods)
}

func (s *AccountService) AddPaymentMethod(ctx context.Context, userID string, pm models.PaymentMethod) (*models.PaymentMethod, error) {
	pm.ID = ""
	id, err := s.store.Create(ctx, userID, store.PaymentMethods, pm)
	if err != nil {
		return nil, err
	}
	return store.GetAs[models.PaymentMethod](ctx, s.store, userID, store.PaymentMethods, id)
}

func (s *AccountService) UpdatePaymentMethod(ctx context.Context, userID, pmID string, fields map[string]any) (*models.PaymentMethod, error) {
	delete(fields, "id")
	if err := s.store.Update(ctx, userID, store.PaymentMethods, pmID, fields); err != nil {
		return nil, err
	}
	return store.GetAs[models.PaymentMethod](ctx, s.store, userID, store.PaymentMethods, pmID)
}

func (s *AccountService) DeletePaymentMethod(ctx context.Context, userID, pmID string) error {
	return s.store.Delete(ctx, userID, store.PaymentMethods, pmID)
}

// --- Profile ---

func (s *AccountService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return store.GetAs[models.User](ctx, s.store, store.RootOwner, store.Users, userID)
}

// UpdateProfile merges name, email and address edits into the user document.
// The identifier is immutable.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, fields map[string]any) (*models.User, error) {
	delete(fields, "id")
	if err := s.store.Update(ctx, store.RootOwner, store.Users, userID, fields); err != nil {
		return nil, err
	}
	return store.GetAs[models.User](ctx, s.store, store.RootOwner, store.Users, userID)
}
