package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/store"
	"github.com/doggofresh/backend/internal/types"
)

// credential is the private password record, kept out of the users
// collection so the public user document never carries a hash.
type credential struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

const credentialsCollection = "credentials"

// AuthService is the identity adapter: email/password sign-in and sign-up,
// federated sign-in (see federated.go), session tokens, and the user mirror
// with first-time seeding.
type AuthService struct {
	store     *store.Store
	jwtSecret string
	google    *googleVerifier
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(s *store.Store, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:     s,
		jwtSecret: jwtSecret,
		google:    newGoogleVerifier(),
		logger:    logger,
	}
}

// Signup registers an email/password account, sets the display name,
// provisions the user document and seed data, and returns a session token.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 6 {
		return "", nil, authErr(CodeWeakPassword, errors.New("password shorter than 6 characters"))
	}

	// Credentials are keyed by email, so a second signup with the same
	// address collides here.
	exists, err := s.store.Exists(ctx, store.RootOwner, credentialsCollection, email)
	if err != nil {
		return "", nil, err
	}
	if exists {
		return "", nil, authErr(CodeEmailAlreadyInUse, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: email,
	}

	if err := s.store.Set(ctx, store.RootOwner, credentialsCollection, email, credential{
		UserID:       user.ID,
		Email:        email,
		PasswordHash: string(hash),
	}); err != nil {
		return "", nil, err
	}

	if err := s.MirrorUser(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(&types.TokenClaims{UserID: user.ID, Name: user.Name, Email: user.Email})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login signs in with email and password and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	cred, err := store.GetAs[credential](ctx, s.store, store.RootOwner, credentialsCollection, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, authErr(CodeUserNotFound, nil)
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", nil, authErr(CodeWrongPassword, nil)
	}

	user, err := store.GetAs[models.User](ctx, s.store, store.RootOwner, store.Users, cred.UserID)
	if errors.Is(err, store.ErrNotFound) {
		// Credential without a user document; re-provision from what we know.
		user = &models.User{ID: cred.UserID, Name: strings.Split(email, "@")[0], Email: email}
	} else if err != nil {
		return "", nil, err
	}

	// Mirror on every sign-in transition, idempotently.
	if err := s.MirrorUser(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(&types.TokenClaims{UserID: user.ID, Name: user.Name, Email: user.Email})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// MirrorUser upserts the observed user into the users collection. The first
// time a user is seen, one placeholder pet, subscription and payment method
// are seeded in a single batch as demo data.
func (s *AuthService) MirrorUser(ctx context.Context, user *models.User) error {
	existed, err := s.store.Exists(ctx, store.RootOwner, store.Users, user.ID)
	if err != nil {
		return err
	}

	if existed {
		// Keep profile edits: only refresh name/email via merge.
		return s.store.Update(ctx, store.RootOwner, store.Users, user.ID, map[string]any{
			"name":  user.Name,
			"email": user.Email,
		})
	}

	user.CreatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, store.RootOwner, store.Users, user.ID, user); err != nil {
		return err
	}

	if err := s.seedInitialData(ctx, user.ID, user.Name); err != nil {
		return err
	}
	s.logger.Info("provisioned new user", zap.String("user_id", user.ID))
	return nil
}

// seedInitialData writes the placeholder account data for a new user in one
// transaction.
func (s *AuthService) seedInitialData(ctx context.Context, userID, userName string) error {
	return s.store.RunBatch(ctx, func(tx *store.Store) error {
		petName := userName + "'s Perro"

		if _, err := tx.Create(ctx, userID, store.Pets, models.Pet{
			Name:   petName,
			Breed:  "Mestizo",
			Age:    5,
			Weight: 12,
		}); err != nil {
			return err
		}

		if _, err := tx.Create(ctx, userID, store.Subscriptions, models.Subscription{
			PetName:      petName,
			PlanName:     "Plan Activo de Pollo",
			Status:       models.StatusActive,
			NextDelivery: "25 de Julio, 2024",
			Price:        59.99,
			MealsPerWeek: 14,
		}); err != nil {
			return err
		}

		if _, err := tx.Create(ctx, userID, store.PaymentMethods, models.PaymentMethod{
			Type:   "Visa",
			Last4:  "4242",
			Expiry: "12/26",
		}); err != nil {
			return err
		}

		return nil
	})
}

// GenerateToken signs a 24h HS256 session token for the given claims.
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": claims.UserID,
		"name":    claims.Name,
		"email":   claims.Email,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, authErr(CodeInvalidCredential, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, authErr(CodeInvalidCredential, errors.New("unexpected claims type"))
	}

	claims := &types.TokenClaims{}
	if v, ok := mapClaims["user_id"].(string); ok {
		claims.UserID = v
	}
	if v, ok := mapClaims["name"].(string); ok {
		claims.Name = v
	}
	if v, ok := mapClaims["email"].(string); ok {
		claims.Email = v
	}
	if claims.UserID == "" {
		return nil, authErr(CodeInvalidCredential, errors.New("token missing user_id"))
	}
	return claims, nil
}
