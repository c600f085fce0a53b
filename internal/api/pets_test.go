package api_test

import (
	"context"
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
	"github.com/doggofresh/backend/internal/store"
	"github.com/doggofresh/backend/internal/testhelpers"
)

func setupPetsRouter(t *testing.T, uploader api.PetPhotoUploader) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := testhelpers.SetupTestStore(t)
	h := api.NewPetsHandler(service.NewAccountService(s), uploader, zap.NewNop())
	r := gin.New()
	group := r.Group("/api/v1", asUser(testUser))
	h.RegisterRoutes(group)
	return r, s
}

func TestCreatePet(t *testing.T) {
	r, s := setupPetsRouter(t, nil)

	w := postJSON(t, r, "/api/v1/pets", api.PetRequest{
		Name: "Luna", Breed: "Beagle", Age: 3, Weight: 10.5,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var pet models.Pet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pet))
	assert.NotEmpty(t, pet.ID)
	assert.Equal(t, "Luna", pet.Name)
	assert.Empty(t, pet.PhotoURL)

	pets, err := store.ListAs[models.Pet](context.Background(), s, testUser, store.Pets)
	require.NoError(t, err)
	require.Len(t, pets, 1)
}

func TestCreatePetUploadsPhoto(t *testing.T) {
	uploader := &testhelpers.MockPetPhotoUploader{}
	uploader.On("UploadPetPhoto", mock.Anything, testUser, mock.AnythingOfType("string"), "QUJD", "image/png").
		Return("https://media.example/pets/luna.png", nil)

	r, s := setupPetsRouter(t, uploader)

	w := postJSON(t, r, "/api/v1/pets", api.PetRequest{
		Name: "Luna", Breed: "Beagle", Age: 3, Weight: 10.5,
		Photo: "QUJD", PhotoMimeType: "image/png",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var pet models.Pet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pet))
	assert.Equal(t, "https://media.example/pets/luna.png", pet.PhotoURL)

	// The object key is the created pet's own id.
	uploader.AssertCalled(t, "UploadPetPhoto", mock.Anything, testUser, pet.ID, "QUJD", "image/png")

	stored, err := store.GetAs[models.Pet](context.Background(), s, testUser, store.Pets, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://media.example/pets/luna.png", stored.PhotoURL)
}

func TestCreatePetSurvivesUploadFailure(t *testing.T) {
	uploader := &testhelpers.MockPetPhotoUploader{}
	uploader.On("UploadPetPhoto", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError)

	r, _ := setupPetsRouter(t, uploader)

	w := postJSON(t, r, "/api/v1/pets", api.PetRequest{
		Name: "Luna", Breed: "Beagle", Age: 3, Weight: 10.5, Photo: "QUJD",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var pet models.Pet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pet))
	assert.Empty(t, pet.PhotoURL)
}

func TestUpdatePetReplacesPhotoWithURL(t *testing.T) {
	uploader := &testhelpers.MockPetPhotoUploader{}
	uploader.On("UploadPetPhoto", mock.Anything, testUser, mock.AnythingOfType("string"), "QUJD", "image/jpeg").
		Return("https://media.example/pets/luna.jpg", nil)

	r, s := setupPetsRouter(t, uploader)
	ctx := context.Background()
	id, err := s.Create(ctx, testUser, store.Pets, models.Pet{Name: "Luna", Breed: "Beagle", Age: 3, Weight: 10.5})
	require.NoError(t, err)

	w := putJSON(t, r, "/api/v1/pets/"+id, map[string]any{
		"name":  "Luna II",
		"photo": "QUJD",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var pet models.Pet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pet))
	assert.Equal(t, "Luna II", pet.Name)
	assert.Equal(t, "https://media.example/pets/luna.jpg", pet.PhotoURL)

	// The stored document carries the URL, never the raw image data.
	raws, err := s.ListRaw(ctx, testUser, store.Pets)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	var stored map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raws[0], &stored))
	assert.NotContains(t, stored, "photo")
	assert.NotContains(t, stored, "photoMimeType")
}

func TestDeletePet(t *testing.T) {
	r, s := setupPetsRouter(t, nil)
	ctx := context.Background()
	id, err := s.Create(ctx, testUser, store.Pets, models.Pet{Name: "Luna", Breed: "Beagle", Age: 3, Weight: 10.5})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/pets/"+id, nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	pets, err := store.ListAs[models.Pet](ctx, s, testUser, store.Pets)
	require.NoError(t, err)
	assert.Empty(t, pets)
}
