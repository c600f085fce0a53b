package service

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/types"
)

// Federated sign-in is redirect-based on the client: the browser completes
// the provider flow and hands us the provider-issued ID token. We verify the
// token against the provider's published JWKS and mirror the user like any
// other sign-in. The provider keeps the passwords; we never see them.

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// googleVerifier verifies Google-issued ID tokens with a cached key set.
type googleVerifier struct {
	httpClient *http.Client
	jwksURL    string
	audience   string

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

func newGoogleVerifier() *googleVerifier {
	return &googleVerifier{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		jwksURL:    googleJWKSURL,
		audience:   os.Getenv("GOOGLE_CLIENT_ID"),
		keys:       map[string]*rsa.PublicKey{},
	}
}

// FederatedLogin verifies a Google ID token, mirrors (and on first sight
// seeds) the user, and returns a session token. Completion is observed by
// the client through the returned user, not through the provider redirect.
func (s *AuthService) FederatedLogin(ctx context.Context, idToken string) (string, *models.User, error) {
	subject, name, email, err := s.google.verify(ctx, idToken)
	if err != nil {
		return "", nil, authErr(CodeInvalidCredential, err)
	}

	if name == "" {
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		} else {
			name = "Usuario Anónimo"
		}
	}

	user := &models.User{
		ID:    "google:" + subject,
		Name:  name,
		Email: email,
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

// verify checks signature, issuer, expiry and (when configured) audience,
// returning the token's subject, display name and email.
func (v *googleVerifier) verify(ctx context.Context, idToken string) (subject, name, email string, err error) {
	token, err := jwt.Parse(idToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token missing kid header")
		}
		return v.keyForKid(ctx, kid)
	})
	if err != nil || !token.Valid {
		return "", "", "", fmt.Errorf("invalid identity token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "", errors.New("unexpected claims type")
	}

	iss, _ := claims["iss"].(string)
	if iss != "accounts.google.com" && iss != "https://accounts.google.com" {
		return "", "", "", fmt.Errorf("unexpected issuer %q", iss)
	}
	if v.audience != "" {
		aud, _ := claims["aud"].(string)
		if aud != v.audience {
			return "", "", "", errors.New("token audience mismatch")
		}
	}

	subject, _ = claims["sub"].(string)
	if subject == "" {
		return "", "", "", errors.New("token missing subject")
	}
	name, _ = claims["name"].(string)
	email, _ = claims["email"].(string)
	return subject, name, email, nil
}

func (v *googleVerifier) keyForKid(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := time.Now().Before(v.expiresAt)
	v.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := v.refresh(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	key, ok = v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no key for kid %q", kid)
	}
	return key, nil
}

func (v *googleVerifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("JWKS contained no usable RSA keys")
	}

	v.mu.Lock()
	v.keys = keys
	v.expiresAt = time.Now().Add(1 * time.Hour)
	v.mu.Unlock()
	return nil
}

func rsaKeyFromJWK(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("invalid modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("invalid exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
