// Package cookieware is a fiber middleware that authenticates requests from
// a token carried in the Cookie header. It knows nothing about tokens: the
// Extract function turns the raw header into a principal of type T.
package cookieware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// ValidationListener is invoked after a principal has been extracted but
// before the request proceeds.
type ValidationListener[T any] func(c *fiber.Ctx, principal T) error

type Config[T any] struct {
	// Filter skips the middleware when it returns true
	Filter func(c *fiber.Ctx) bool
	// Extract is required. It receives the raw Cookie header, which may be empty.
	Extract        func(cookieHeader string) (T, error)
	SuccessHandler fiber.Handler
	ErrorHandler   fiber.ErrorHandler
	// ContextKey is the fiber Locals key the principal is stored under
	ContextKey string
	// ContextEnricher propagates the principal to the request user context
	ContextEnricher     func(ctx context.Context, principal T) context.Context
	ValidationListeners []ValidationListener[T]
}

func New[T any](config ...Config[T]) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		principal, err := cfg.Extract(c.Get(fiber.HeaderCookie))
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		for _, listener := range cfg.ValidationListeners {
			if listener == nil {
				continue
			}
			if err := listener(c, principal); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		c.Locals(cfg.ContextKey, principal)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), principal))
		}

		return cfg.SuccessHandler(c)
	}
}

func GetDefaultConfig[T any](config ...Config[T]) (cfg Config[T]) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Extract == nil {
		panic("AUTH: cookie middleware configuration: Extract is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).SendString("Invalid or expired token")
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	return cfg
}
