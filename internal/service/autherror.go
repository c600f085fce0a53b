package service

import "fmt"

// AuthError carries a provider-style error code (auth/...) so the handler
// layer can map known codes to user-facing messages and treat the rest as a
// generic failure.
type AuthError struct {
	Code string
	err  error
}

func (e *AuthError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.err)
	}
	return e.Code
}

func (e *AuthError) Unwrap() error { return e.err }

func authErr(code string, err error) *AuthError {
	return &AuthError{Code: code, err: err}
}

// Provider error codes preserved from the identity provider's taxonomy.
const (
	CodeWrongPassword     = "auth/wrong-password"
	CodeUserNotFound      = "auth/user-not-found"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeWeakPassword      = "auth/weak-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeAPIKeyNotValid    = "auth/api-key-not-valid"
)
