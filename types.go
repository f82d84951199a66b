package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Credentials is the username/password pair submitted at login.
// It only lives for the duration of a login request and must never be
// persisted or logged.
type Credentials struct {
	Username string
	Password string
}

// Identity is the authenticated principal recovered from a verified token.
type Identity struct {
	Username string `json:"username"`
}

// PublicUser is the user representation returned to clients after login.
type PublicUser struct {
	Username string `json:"username"`
}

// LoginResult holds the outcome of a successful login
type LoginResult struct {
	Token     string
	TokenType string
	User      PublicUser
	ExpiresAt time.Time
}

// LoginFlow exchanges credentials for a signed token
type LoginFlow interface {
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
}

// HeaderGetter is satisfied by http.Header and by adapters over
// framework request headers.
type HeaderGetter interface {
	Get(key string) string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
