package types

// TokenClaims is the authenticated identity carried by a session token and
// placed on the request context by the auth middleware.
type TokenClaims struct {
	UserID string
	Name   string
	Email  string
}
