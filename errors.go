package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingSigningSecret is returned when no signing secret is configured
var ErrMissingSigningSecret = errors.New("missing signing secret")

// ErrInvalidToken is matched by every token decode failure
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenMalformed the token could not be parsed
var ErrTokenMalformed = fmt.Errorf("%w: token is malformed", ErrInvalidToken)

// ErrTokenSignatureInvalid the signature does not match the signing keys
var ErrTokenSignatureInvalid = fmt.Errorf("%w: token signature is invalid", ErrInvalidToken)

// ErrTokenExpired the token is past its expiry
var ErrTokenExpired = fmt.Errorf("%w: token is expired", ErrInvalidToken)

// ErrInvalidClaims claims are missing or inconsistent
var ErrInvalidClaims = fmt.Errorf("%w: claims are invalid", ErrInvalidToken)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found")

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("empty string not allowed")

// ErrMismatchedHashAndPassword password does not match the stored hash
var ErrMismatchedHashAndPassword = errors.New("password does not match")

// ErrorKind is the closed set of failures the auth layer reports to clients.
type ErrorKind uint8

const (
	KindMissingCredentials ErrorKind = iota + 1
	KindWrongCredentials
	KindTokenCreation
	KindInvalidToken
	KindVerifierUnavailable

	kindSentinel
)

// ErrorKinds lists every defined kind
func ErrorKinds() []ErrorKind {
	kinds := make([]ErrorKind, 0, int(kindSentinel)-1)
	for k := KindMissingCredentials; k < kindSentinel; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Response maps a kind to its transport status and user message.
// Every kind must have a case here; an unmapped kind panics.
func (k ErrorKind) Response() (int, string) {
	switch k {
	case KindMissingCredentials:
		return http.StatusBadRequest, "Missing credentials"
	case KindWrongCredentials:
		return http.StatusUnauthorized, "Wrong credentials"
	case KindTokenCreation:
		return http.StatusInternalServerError, "Token creation error"
	case KindInvalidToken:
		return http.StatusBadRequest, "Invalid token"
	case KindVerifierUnavailable:
		return http.StatusUnauthorized, "Wrong credentials"
	}
	panic(fmt.Sprintf("auth: unmapped error kind %d", k))
}

func (k ErrorKind) String() string {
	switch k {
	case KindMissingCredentials:
		return "missing_credentials"
	case KindWrongCredentials:
		return "wrong_credentials"
	case KindTokenCreation:
		return "token_creation"
	case KindInvalidToken:
		return "invalid_token"
	case KindVerifierUnavailable:
		return "verifier_unavailable"
	}
	return fmt.Sprintf("kind(%d)", k)
}

// AuthError is the error type returned across the auth boundary.
// Err and Diagnostic are for operators; only Message reaches a client.
type AuthError struct {
	Kind       ErrorKind
	Diagnostic Diagnostic
	Err        error
}

func newAuthError(kind ErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Status is the transport status for this error
func (e *AuthError) Status() int {
	status, _ := e.Kind.Response()
	return status
}

// Message is the stable, non sensitive message for this error
func (e *AuthError) Message() string {
	_, msg := e.Kind.Response()
	return msg
}

// IsKind reports whether err is an AuthError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.Kind == kind
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

// IsMalformedError will check for tokens that could not be parsed
func IsMalformedError(err error) bool {
	return errors.Is(err, ErrTokenMalformed)
}
