package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/store"
	"github.com/doggofresh/backend/internal/testhelpers"
)

func TestCreateAssignsID(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "user-1", store.Pets, models.Pet{Name: "Rocky", Breed: "Mestizo", Age: 5, Weight: 12})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	pet, err := store.GetAs[models.Pet](ctx, s, "user-1", store.Pets, id)
	require.NoError(t, err)
	assert.Equal(t, id, pet.ID, "stored payload should carry the assigned id")
	assert.Equal(t, "Rocky", pet.Name)
	assert.Equal(t, 12.0, pet.Weight)
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id, err := s.Create(ctx, "user-1", store.Pets, models.Pet{Name: "Rocky"})
		require.NoError(t, err)
		assert.False(t, seen[id], "ids must not repeat")
		seen[id] = true
	}
}

func TestSetIsIdempotent(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	sub := models.Subscription{PlanName: "Plan Activo de Pollo", Status: models.StatusActive, MealsPerWeek: 14, Price: 59.99}
	require.NoError(t, s.Set(ctx, "user-1", store.Subscriptions, "sub-1", sub))
	require.NoError(t, s.Set(ctx, "user-1", store.Subscriptions, "sub-1", sub))

	subs, err := store.ListAs[models.Subscription](ctx, s, "user-1", store.Subscriptions)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSetReplacesWholeDocument(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user-1", store.PaymentMethods, "pm-1",
		models.PaymentMethod{Type: "Visa", Last4: "4242", Expiry: "12/26"}))
	require.NoError(t, s.Set(ctx, "user-1", store.PaymentMethods, "pm-1",
		models.PaymentMethod{Type: "Mastercard", Last4: "1111"}))

	pm, err := store.GetAs[models.PaymentMethod](ctx, s, "user-1", store.PaymentMethods, "pm-1")
	require.NoError(t, err)
	assert.Equal(t, "Mastercard", pm.Type)
	assert.Empty(t, pm.Expiry, "set replaces, it does not merge")
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := testhelpers.SetupTestStore(t)

	_, err := store.GetAs[models.Pet](context.Background(), s, "user-1", store.Pets, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateMergesFields(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "user-1", store.Pets, models.Pet{Name: "Luna", Breed: "Beagle", Age: 3, Weight: 9.5})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "user-1", store.Pets, id, map[string]any{"age": 4}))

	pet, err := store.GetAs[models.Pet](ctx, s, "user-1", store.Pets, id)
	require.NoError(t, err)
	assert.Equal(t, 4, pet.Age)
	assert.Equal(t, "Beagle", pet.Breed, "untouched fields keep their values")
	assert.Equal(t, id, pet.ID)
}

func TestUpdateCannotOverwriteID(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "user-1", store.Pets, models.Pet{Name: "Luna"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "user-1", store.Pets, id, map[string]any{"id": "forged"}))

	pet, err := store.GetAs[models.Pet](ctx, s, "user-1", store.Pets, id)
	require.NoError(t, err)
	assert.Equal(t, id, pet.ID)
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	s := testhelpers.SetupTestStore(t)

	err := s.Update(context.Background(), "user-1", store.Pets, "nope", map[string]any{"age": 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "user-1", store.Pets, models.Pet{Name: "Luna"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "user-1", store.Pets, id))
	require.NoError(t, s.Delete(ctx, "user-1", store.Pets, id))

	pets, err := store.ListAs[models.Pet](ctx, s, "user-1", store.Pets)
	require.NoError(t, err)
	assert.Empty(t, pets)
}

func TestListScopedByOwnerAndCollection(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "user-1", store.Pets, models.Pet{Name: "Rocky"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "user-2", store.Pets, models.Pet{Name: "Luna"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "user-1", store.Subscriptions, models.Subscription{PlanName: "Plan"})
	require.NoError(t, err)

	pets, err := store.ListAs[models.Pet](ctx, s, "user-1", store.Pets)
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Rocky", pets[0].Name)
}

func TestExists(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, store.RootOwner, store.Users, "u-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, store.RootOwner, store.Users, "u-1", models.User{Name: "Ana"}))

	ok, err = s.Exists(ctx, store.RootOwner, store.Users, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunBatchCommitsAtomically(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	err := s.RunBatch(ctx, func(tx *store.Store) error {
		if err := tx.Set(ctx, "user-1", store.Pets, "p-1", models.Pet{Name: "Rocky"}); err != nil {
			return err
		}
		return tx.Set(ctx, "user-1", store.Subscriptions, "s-1", models.Subscription{PlanName: "Plan"})
	})
	require.NoError(t, err)

	pets, err := store.ListAs[models.Pet](ctx, s, "user-1", store.Pets)
	require.NoError(t, err)
	assert.Len(t, pets, 1)
	subs, err := store.ListAs[models.Subscription](ctx, s, "user-1", store.Subscriptions)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestRunBatchRollsBackOnError(t *testing.T) {
	s := testhelpers.SetupTestStore(t)
	ctx := context.Background()

	err := s.RunBatch(ctx, func(tx *store.Store) error {
		if err := tx.Set(ctx, "user-1", store.Pets, "p-1", models.Pet{Name: "Rocky"}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.Error(t, err)

	pets, err := store.ListAs[models.Pet](ctx, s, "user-1", store.Pets)
	require.NoError(t, err)
	assert.Empty(t, pets, "failed batch must leave no writes behind")
}
