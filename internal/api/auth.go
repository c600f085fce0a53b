package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/service"
)

// AuthHandler handles sign-up, sign-in and federated sign-in requests.
type AuthHandler struct {
	auth   service.IAuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth service.IAuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin)
	}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	token, user, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GoogleLogin completes the redirect-based federated flow: the client hands
// over the provider-issued ID token it received after the redirect.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	token, user, err := h.auth.FederatedLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout exists for parity with the provider's signOut; the session token is
// discarded client-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps coded auth errors to localized messages. Unknown codes and
// non-auth errors collapse to the generic message.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	var authErr *service.AuthError
	if !errors.As(err, &authErr) {
		h.logger.Error("auth request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocurrió un error inesperado."})
		return
	}

	status, msg := authErrorMessage(authErr.Code)
	c.JSON(status, gin.H{"error": msg, "code": authErr.Code})
}

func authErrorMessage(code string) (int, string) {
	switch code {
	case service.CodeWrongPassword, service.CodeUserNotFound, service.CodeInvalidCredential:
		// Deliberately one message for both: don't reveal which half was wrong.
		return http.StatusUnauthorized, "Correo electrónico o contraseña incorrecta. Intenta de nuevo por favor."
	case service.CodeEmailAlreadyInUse:
		return http.StatusConflict, "Este correo ya está registrado. Intenta iniciar sesión."
	case service.CodeWeakPassword:
		return http.StatusBadRequest, "La contraseña debe tener al menos 6 caracteres."
	case service.CodeAPIKeyNotValid:
		return http.StatusInternalServerError, "La configuración del proveedor de identidad no es válida. Revisa tus credenciales."
	default:
		return http.StatusUnauthorized, "El correo electrónico o la clave es incorrecta. Intenta de nuevo por favor."
	}
}
