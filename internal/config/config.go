package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"

	auth "github.com/goliatone/go-cookie-auth"
)

const (
	EnvPrefix = "AUTHD"

	VerifierStatic = "static"
	VerifierSQLite = "sqlite"
)

// Config is the authd configuration. It implements auth.Config.
type Config struct {
	Addr      string         `mapstructure:"addr"`
	SecretEnv string         `mapstructure:"secret_env"`
	Debug     bool           `mapstructure:"debug"`
	Session   SessionConfig  `mapstructure:"session"`
	CORS      CORSConfig     `mapstructure:"cors"`
	Verifier  VerifierConfig `mapstructure:"verifier"`
	Log       LogConfig      `mapstructure:"log"`
	Activity  ActivityConfig `mapstructure:"activity"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	Lifetime   time.Duration `mapstructure:"lifetime"`
	Secure     bool          `mapstructure:"secure"`
	HTTPOnly   bool          `mapstructure:"http_only"`
	SameSite   string        `mapstructure:"same_site"`
	Path       string        `mapstructure:"path"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type VerifierConfig struct {
	Driver  string            `mapstructure:"driver"`
	Timeout time.Duration     `mapstructure:"timeout"`
	DSN     string            `mapstructure:"dsn"`
	Users   map[string]string `mapstructure:"users"`
}

// ActivityConfig enables the redis stream sink when RedisAddr is set
type ActivityConfig struct {
	RedisAddr string `mapstructure:"redis_addr"`
	Stream    string `mapstructure:"stream"`
	MaxLen    int64  `mapstructure:"max_len"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// SetDefaults registers every key so env overrides work without a file
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:3000")
	v.SetDefault("secret_env", auth.DefaultSecretEnv)
	v.SetDefault("debug", false)

	v.SetDefault("session.cookie_name", auth.DefaultCookieName)
	v.SetDefault("session.lifetime", auth.DefaultSessionLifetime)
	v.SetDefault("session.secure", true)
	v.SetDefault("session.http_only", true)
	v.SetDefault("session.same_site", "Lax")
	v.SetDefault("session.path", "/")

	v.SetDefault("cors.allow_origins", []string{})

	v.SetDefault("verifier.driver", VerifierStatic)
	v.SetDefault("verifier.timeout", 5*time.Second)
	v.SetDefault("verifier.dsn", "file:authd.db?cache=shared")
	v.SetDefault("verifier.users", map[string]string{})

	v.SetDefault("activity.redis_addr", "")
	v.SetDefault("activity.stream", "authd:activity")
	v.SetDefault("activity.max_len", 10000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.no_color", false)
}

// New returns a viper instance with defaults and env binding
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (optional) and the environment into a validated Config
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate will run validation rules
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.SecretEnv, validation.Required),
		validation.Field(&c.Session),
		validation.Field(&c.Verifier),
		validation.Field(&c.Log),
	)
}

func (s SessionConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.CookieName, validation.Required),
		validation.Field(&s.Lifetime, validation.Required, validation.Min(time.Minute)),
		validation.Field(&s.SameSite, validation.In("Lax", "Strict", "None")),
	)
}

func (vc VerifierConfig) Validate() error {
	dsnRules := []validation.Rule{}
	if vc.Driver == VerifierSQLite {
		dsnRules = append(dsnRules, validation.Required)
	}

	return validation.ValidateStruct(&vc,
		validation.Field(&vc.Driver, validation.Required, validation.In(VerifierStatic, VerifierSQLite)),
		validation.Field(&vc.DSN, dsnRules...),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Format, validation.In("console", "json")),
	)
}

var _ auth.Config = (*Config)(nil)

func (c *Config) GetCookieName() string             { return c.Session.CookieName }
func (c *Config) GetSessionLifetime() time.Duration { return c.Session.Lifetime }
func (c *Config) GetCookieSecure() bool             { return c.Session.Secure }
func (c *Config) GetCookieHTTPOnly() bool           { return c.Session.HTTPOnly }
func (c *Config) GetCookieSameSite() string         { return c.Session.SameSite }
func (c *Config) GetCookiePath() string             { return c.Session.Path }
