package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doggofresh/backend/internal/middleware"
	"github.com/doggofresh/backend/internal/testhelpers"
	"github.com/doggofresh/backend/internal/types"
)

func setupRouter(validator middleware.TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/account/pets", middleware.AuthMiddleware(validator), func(c *gin.Context) {
		id, _ := middleware.UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	validator := &testhelpers.MockAuthService{}
	validator.On("ValidateToken", "good-token").Return(&types.TokenClaims{UserID: "u-1", Name: "Ana", Email: "ana@x.com"}, nil)

	r := setupRouter(validator)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/pets", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body["user_id"])
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := setupRouter(&testhelpers.MockAuthService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/account/pets", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The body carries the requested path so the login page can send the
	// visitor back after sign-in.
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/account/pets", body["redirect"])
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	r := setupRouter(&testhelpers.MockAuthService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/pets", nil)
	req.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	validator := &testhelpers.MockAuthService{}
	validator.On("ValidateToken", "bad-token").Return(nil, assert.AnError)

	r := setupRouter(validator)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account/pets", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
