package auth_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-cookie-auth"
)

func TestErrorKind_Response(t *testing.T) {
	tests := []struct {
		kind    auth.ErrorKind
		status  int
		message string
	}{
		{auth.KindMissingCredentials, http.StatusBadRequest, "Missing credentials"},
		{auth.KindWrongCredentials, http.StatusUnauthorized, "Wrong credentials"},
		{auth.KindTokenCreation, http.StatusInternalServerError, "Token creation error"},
		{auth.KindInvalidToken, http.StatusBadRequest, "Invalid token"},
		{auth.KindVerifierUnavailable, http.StatusUnauthorized, "Wrong credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			status, message := tt.kind.Response()
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}

	assert.Len(t, tests, len(auth.ErrorKinds()))
}

func TestErrorKinds_AllMapped(t *testing.T) {
	for _, kind := range auth.ErrorKinds() {
		assert.NotPanics(t, func() { kind.Response() }, "kind %d", kind)
		assert.False(t, strings.HasPrefix(kind.String(), "kind("), "kind %d has no name", kind)
	}

	assert.Panics(t, func() { auth.ErrorKind(0).Response() })
	assert.Panics(t, func() { auth.ErrorKind(200).Response() })
}

func TestVerifierUnavailable_LooksLikeWrongCredentials(t *testing.T) {
	wrongStatus, wrongMsg := auth.KindWrongCredentials.Response()
	unavailableStatus, unavailableMsg := auth.KindVerifierUnavailable.Response()

	assert.Equal(t, wrongStatus, unavailableStatus)
	assert.Equal(t, wrongMsg, unavailableMsg)
}

func TestAuthError(t *testing.T) {
	cause := fmt.Errorf("decoding cookie: %w", auth.ErrTokenExpired)
	err := error(&auth.AuthError{Kind: auth.KindInvalidToken, Err: cause})

	assert.ErrorIs(t, err, auth.ErrTokenExpired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.True(t, auth.IsKind(err, auth.KindInvalidToken))
	assert.False(t, auth.IsKind(err, auth.KindWrongCredentials))
	assert.False(t, auth.IsKind(errors.New("plain"), auth.KindInvalidToken))

	var authErr *auth.AuthError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &authErr))
	assert.Equal(t, http.StatusBadRequest, authErr.Status())
	assert.Equal(t, "Invalid token", authErr.Message())
	assert.Contains(t, authErr.Error(), "invalid_token")
}

func TestTokenErrorsWrapInvalidToken(t *testing.T) {
	for _, err := range []error{
		auth.ErrTokenMalformed,
		auth.ErrTokenSignatureInvalid,
		auth.ErrTokenExpired,
		auth.ErrInvalidClaims,
	} {
		assert.ErrorIs(t, err, auth.ErrInvalidToken, err.Error())
	}
}
