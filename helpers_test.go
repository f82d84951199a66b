package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/goliatone/go-cookie-auth"
)

const testSecret = "test-signing-secret"

func testKeys(t *testing.T) auth.SigningKeys {
	t.Helper()
	keys, err := auth.NewSigningKeys([]byte(testSecret))
	require.NoError(t, err)
	return keys
}

func testCodec(t *testing.T) *auth.ClaimsCodec {
	t.Helper()
	return auth.NewClaimsCodec(testKeys(t))
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPasswordWithCost(password, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

// expiredToken signs claims that expired one second ago
func expiredToken(t *testing.T, codec *auth.ClaimsCodec, username string) string {
	t.Helper()
	now := time.Now()
	token, err := codec.Encode(auth.Claims{
		Issuer:    username,
		IssuedAt:  now.Add(-2 * time.Second).Unix(),
		ExpiresAt: now.Add(-1 * time.Second).Unix(),
	})
	require.NoError(t, err)
	return token
}

// MockVerifier implements auth.CredentialVerifier for testing
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyCredentials(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// recordingSink collects activity events
type recordingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Events() []auth.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}
