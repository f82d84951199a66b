package server

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	auth "github.com/goliatone/go-cookie-auth"
	"github.com/goliatone/go-cookie-auth/internal/logging"
)

const (
	// RequestIDKey is the fiber Locals key holding the request id
	RequestIDKey = "request_id"

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// Deps are the collaborators the HTTP server is assembled from
type Deps struct {
	Authenticator *auth.RouteAuthenticator
	Logger        zerolog.Logger
	Sink          auth.ActivitySink
	AllowOrigins  []string
	Debug         bool
}

// New builds the fiber app serving /auth and /api
func New(deps Deps) *fiber.App {
	if deps.Authenticator == nil {
		panic("server: missing RouteAuthenticator")
	}

	app := fiber.New(fiber.Config{
		AppName:               "authd",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: RequestIDKey,
	}))
	app.Use(cors.New(corsConfig(deps.AllowOrigins)))
	app.Use(AccessLog(deps.Logger))

	auth.RegisterAuthRoutes(app.Group("/auth"),
		auth.WithRouteAuthenticator(deps.Authenticator),
		auth.WithControllerLogger(logging.NewZLogger(deps.Logger)),
		auth.WithControllerActivitySink(deps.Sink),
		auth.WithDebug(deps.Debug),
	)

	api := app.Group("/api")
	api.Get("/hello", Hello).Name("api.hello")

	return app
}

// corsConfig only allows credentials for an explicit origin list, fiber
// refuses credentials with a wildcard origin.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins: "*",
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodOptions,
		}, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
	}

	explicit := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" || o == "*" {
			continue
		}
		explicit = append(explicit, o)
	}

	if len(explicit) > 0 {
		cfg.AllowOrigins = strings.Join(explicit, ",")
		cfg.AllowCredentials = true
	}

	return cfg
}

// AccessLog writes one structured line per request
func AccessLog(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		evt := logger.Info()
		if status >= fiber.StatusInternalServerError {
			evt = logger.Error().Err(err)
		}

		evt.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Interface("request_id", c.Locals(RequestIDKey)).
			Msg("request")

		return err
	}
}

// HelloRequest is the body accepted by GET /api/hello
type HelloRequest struct {
	Name string `json:"name"`
}

// Validate will run validation rules
func (r HelloRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

type HelloResponse struct {
	Message string `json:"message"`
}

// Hello greets the name sent in the JSON body
func Hello(c *fiber.Ctx) error {
	payload := new(HelloRequest)
	if err := c.BodyParser(payload); err != nil || payload.Validate() != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}
	return c.JSON(HelloResponse{Message: "Hello, " + payload.Name + "!"})
}

// Shutdown stops app within ShutdownTimeout
func Shutdown(ctx context.Context, app *fiber.App) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}
