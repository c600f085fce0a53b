package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
	"github.com/doggofresh/backend/internal/store"
	"github.com/doggofresh/backend/internal/testhelpers"
)

const testUserID = "user-1"

func newAccountService(t *testing.T) (*service.AccountService, *store.Store) {
	t.Helper()
	s := testhelpers.SetupTestStore(t)
	return service.NewAccountService(s), s
}

func seedSubscription(t *testing.T, s *store.Store, status models.SubscriptionStatus) string {
	t.Helper()
	id, err := s.Create(context.Background(), testUserID, store.Subscriptions, models.Subscription{
		PetName:      "Rocky",
		PlanName:     "Plan Activo de Pollo",
		Status:       status,
		MealsPerWeek: 14,
		Price:        59.99,
	})
	require.NoError(t, err)
	return id
}

func TestPetLifecycle(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	pet, err := svc.AddPet(ctx, testUserID, models.Pet{Name: "Luna", Breed: "Beagle", Age: 3, Weight: 9.5})
	require.NoError(t, err)
	assert.NotEmpty(t, pet.ID)
	assert.Equal(t, "Luna", pet.Name)

	updated, err := svc.UpdatePet(ctx, testUserID, pet.ID, map[string]any{"age": 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Age)
	assert.Equal(t, "Beagle", updated.Breed)

	require.NoError(t, svc.DeletePet(ctx, testUserID, pet.ID))

	pets, err := svc.ListPets(ctx, testUserID)
	require.NoError(t, err)
	assert.Empty(t, pets)
}

func TestAddPetIgnoresClientID(t *testing.T) {
	svc, _ := newAccountService(t)

	pet, err := svc.AddPet(context.Background(), testUserID, models.Pet{ID: "forged", Name: "Luna"})
	require.NoError(t, err)
	assert.NotEqual(t, "forged", pet.ID)
}

func TestUpdateMissingPet(t *testing.T) {
	svc, _ := newAccountService(t)

	_, err := svc.UpdatePet(context.Background(), testUserID, "nope", map[string]any{"age": 4})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestModifyPlanReprices(t *testing.T) {
	svc, s := newAccountService(t)
	subID := seedSubscription(t, s, models.StatusActive)

	quote, err := svc.ModifyPlan(context.Background(), testUserID, subID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, quote.Subscription.MealsPerWeek)
	assert.Equal(t, service.WeeklyPrice(10), quote.Subscription.Price)
	assert.Equal(t, service.MonthlyEstimate(quote.Subscription.Price), quote.MonthlyEstimate)
	assert.Equal(t, "Plan Activo de Pollo", quote.Subscription.PlanName, "unrelated fields untouched")
}

func TestModifyPlanRejectsNegativeMeals(t *testing.T) {
	svc, s := newAccountService(t)
	subID := seedSubscription(t, s, models.StatusActive)

	_, err := svc.ModifyPlan(context.Background(), testUserID, subID, -1)
	assert.Error(t, err)
}

func TestModifyPlanRejectsCancelled(t *testing.T) {
	svc, s := newAccountService(t)
	subID := seedSubscription(t, s, models.StatusCancelled)

	_, err := svc.ModifyPlan(context.Background(), testUserID, subID, 10)
	assert.ErrorIs(t, err, service.ErrSubscriptionCancelled)
}

func TestCancelSubscription(t *testing.T) {
	svc, s := newAccountService(t)
	subID := seedSubscription(t, s, models.StatusActive)
	ctx := context.Background()

	sub, err := svc.CancelSubscription(ctx, testUserID, subID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, sub.Status)

	// Cancelling again is a no-op, not an error.
	sub, err = svc.CancelSubscription(ctx, testUserID, subID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, sub.Status)
}

func TestCancelMissingSubscription(t *testing.T) {
	svc, _ := newAccountService(t)

	_, err := svc.CancelSubscription(context.Background(), testUserID, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPaymentMethodLifecycle(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	pm, err := svc.AddPaymentMethod(ctx, testUserID, models.PaymentMethod{Type: "Mastercard", Last4: "1111", Expiry: "01/28"})
	require.NoError(t, err)
	assert.NotEmpty(t, pm.ID)

	updated, err := svc.UpdatePaymentMethod(ctx, testUserID, pm.ID, map[string]any{"expiry": "06/29"})
	require.NoError(t, err)
	assert.Equal(t, "06/29", updated.Expiry)
	assert.Equal(t, "1111", updated.Last4)

	require.NoError(t, svc.DeletePaymentMethod(ctx, testUserID, pm.ID))

	cards, err := svc.ListPaymentMethods(ctx, testUserID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestUpdateProfile(t *testing.T) {
	svc, s := newAccountService(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, store.RootOwner, store.Users, testUserID, models.User{
		ID: testUserID, Name: "Ana", Email: "ana@example.com",
	}))

	user, err := svc.UpdateProfile(ctx, testUserID, map[string]any{
		"name":    "Ana María",
		"address": models.Address{Street: "Av. Amazonas", City: "Quito"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)
	require.NotNil(t, user.Address)
	assert.Equal(t, "Quito", user.Address.City)
	assert.Equal(t, testUserID, user.ID)
}
