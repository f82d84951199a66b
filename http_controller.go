package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// RegisterAuthRoutes mounts login, me and logout on app, usually a
// group such as app.Group("/auth")
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Login, controller.LoginPost).Name("auth.login")
	app.Get(controller.Routes.Me, controller.Auther.ProtectedRoute(), controller.Me).Name("auth.me")
	app.Post(controller.Routes.Logout, controller.LogOut).Name("auth.logout")

	return controller
}

type AuthControllerRoutes struct {
	Login  string
	Me     string
	Logout string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Routes *AuthControllerRoutes
	Auther *RouteAuthenticator
	Sink   ActivitySink
}

type AuthControllerOption func(*AuthController) *AuthController

// WithRouteAuthenticator sets the authenticator used by the controller
func WithRouteAuthenticator(a *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = a
		return c
	}
}

// WithControllerLogger sets the controller logger
func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

// WithControllerActivitySink records logout events to sink
func WithControllerActivitySink(sink ActivitySink) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Sink = normalizeActivitySink(sink)
		return c
	}
}

// WithDebug enables debug dumps of login responses
func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Sink:   noopActivitySink{},
		Routes: &AuthControllerRoutes{
			Login:  "/login",
			Me:     "/me",
			Logout: "/logout",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	return c
}

// LoginRequest payload
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse is the body of a successful login
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        PublicUser `json:"user"`
}

// MeResponse is the body of a successful identity lookup
type MeResponse struct {
	Data Identity `json:"data"`
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Debug("login payload could not be parsed: %v", err)
		return a.Auther.handleError(ctx, newAuthError(KindMissingCredentials, err))
	}

	if err := payload.Validate(); err != nil {
		return a.Auther.handleError(ctx, newAuthError(KindMissingCredentials, err))
	}

	result, err := a.Auther.Login(ctx, Credentials{
		Username: payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		return a.Auther.handleError(ctx, err)
	}

	res := LoginResponse{
		AccessToken: result.Token,
		TokenType:   result.TokenType,
		User:        result.User,
	}

	if a.Debug {
		a.Logger.Debug("login user: %s", print.MaybePrettyJSON(res.User))
	}

	return ctx.JSON(res)
}

func (a *AuthController) Me(ctx *fiber.Ctx) error {
	identity, ok := GetIdentity(ctx, DefaultContextKey)
	if !ok {
		return a.Auther.handleError(ctx, newAuthError(KindInvalidToken, errNoTokenCookie))
	}
	return ctx.JSON(MeResponse{Data: identity})
}

func (a *AuthController) LogOut(ctx *fiber.Ctx) error {
	a.Auther.Logout(ctx)

	event := ActivityEvent{
		EventType:  ActivityEventLogout,
		Metadata:   map[string]any{},
		OccurredAt: a.Auther.Now(),
	}
	if identity, err := a.Auther.extractor.FromCookieHeader(ctx.Get(fiber.HeaderCookie)); err == nil {
		event.Username = identity.Username
	}

	if err := normalizeActivitySink(a.Sink).Record(ctx.UserContext(), event); err != nil {
		a.Logger.Warn("activity sink record error: %v", err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
