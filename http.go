package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-cookie-auth/middleware/cookieware"
)

// ErrorResponse is the body of every failed auth request
type ErrorResponse struct {
	Error string `json:"error"`
}

type RouteAuthenticator struct {
	auth         LoginFlow
	extractor    *IdentityExtractor
	cfg          Config
	Logger       Logger
	ErrorHandler fiber.ErrorHandler
}

func NewHTTPAuthenticator(auther LoginFlow, extractor *IdentityExtractor, cfg Config) *RouteAuthenticator {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	a := &RouteAuthenticator{
		auth:      auther,
		extractor: extractor,
		cfg:       cfg,
		Logger:    defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a
}

func (a *RouteAuthenticator) WithLogger(logger Logger) *RouteAuthenticator {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// ProtectedRoute rejects requests without a valid token cookie and stores
// the caller Identity under DefaultContextKey and in the user context.
func (a *RouteAuthenticator) ProtectedRoute(listeners ...cookieware.ValidationListener[Identity]) fiber.Handler {
	return cookieware.New(cookieware.Config[Identity]{
		Extract:             a.extractor.FromCookieHeader,
		ErrorHandler:        a.handleError,
		ContextKey:          DefaultContextKey,
		ContextEnricher:     WithIdentity,
		ValidationListeners: listeners,
	})
}

// Login exchanges creds for a token and sets the session cookie
func (a *RouteAuthenticator) Login(c *fiber.Ctx, creds Credentials) (*LoginResult, error) {
	result, err := a.auth.Login(c.UserContext(), creds)
	if err != nil {
		return nil, err
	}

	a.setCookieToken(c, result.Token, result.ExpiresAt)
	return result, nil
}

// Logout expires the session cookie. Tokens are not revoked, a client that
// kept a copy can use it until it expires.
func (a *RouteAuthenticator) Logout(c *fiber.Ctx) {
	a.cookieDel(c, a.cfg.GetCookieName())
}

// Now uses the login flow clock when it has one
func (a *RouteAuthenticator) Now() time.Time {
	if clock, ok := a.auth.(interface{ Now() time.Time }); ok {
		return clock.Now()
	}
	return time.Now()
}

func (a *RouteAuthenticator) handleError(c *fiber.Ctx, err error) error {
	return a.ErrorHandler(c, err)
}

func (a *RouteAuthenticator) setCookieToken(c *fiber.Ctx, val string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cfg.GetCookieName(),
		Value:    val,
		Path:     a.cfg.GetCookiePath(),
		Expires:  expires,
		HTTPOnly: a.cfg.GetCookieHTTPOnly(),
		Secure:   a.cfg.GetCookieSecure(),
		SameSite: a.cfg.GetCookieSameSite(),
	})
}

func (a *RouteAuthenticator) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     a.cfg.GetCookiePath(),
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: a.cfg.GetCookieHTTPOnly(),
		Secure:   a.cfg.GetCookieSecure(),
		SameSite: a.cfg.GetCookieSameSite(),
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c *fiber.Ctx, err error) error {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		a.Logger.Error("unexpected error on %s %s: %v", c.Method(), c.OriginalURL(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Internal server error",
		})
	}

	a.Logger.Debug(
		"auth error on %s %s: kind=%s diagnostic=%s cause=%v",
		c.Method(), c.OriginalURL(), authErr.Kind, authErr.Diagnostic, authErr.Err,
	)

	return c.Status(authErr.Status()).JSON(ErrorResponse{
		Error: authErr.Message(),
	})
}
