package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-cookie-auth"
	"github.com/goliatone/go-cookie-auth/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:3000", cfg.Addr)
	assert.Equal(t, auth.DefaultSecretEnv, cfg.SecretEnv)
	assert.Equal(t, auth.DefaultCookieName, cfg.GetCookieName())
	assert.Equal(t, auth.DefaultSessionLifetime, cfg.GetSessionLifetime())
	assert.True(t, cfg.GetCookieSecure())
	assert.True(t, cfg.GetCookieHTTPOnly())
	assert.Equal(t, "Lax", cfg.GetCookieSameSite())
	assert.Equal(t, "/", cfg.GetCookiePath())
	assert.Equal(t, config.VerifierStatic, cfg.Verifier.Driver)
	assert.Equal(t, 5*time.Second, cfg.Verifier.Timeout)
	assert.Equal(t, "authd:activity", cfg.Activity.Stream)
	assert.Empty(t, cfg.Activity.RedisAddr)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authd.yaml")
	err := os.WriteFile(path, []byte(`
addr: ":8080"
session:
  lifetime: 2h
  same_site: Strict
cors:
  allow_origins:
    - https://app.example.com
verifier:
  driver: sqlite
  dsn: file:users.db
  timeout: 1s
  users:
    alice: "$2a$04$abcdefghijklmnopqrstuv"
`), 0o600)
	require.NoError(t, err)

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 2*time.Hour, cfg.GetSessionLifetime())
	assert.Equal(t, "Strict", cfg.GetCookieSameSite())
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, config.VerifierSQLite, cfg.Verifier.Driver)
	assert.Equal(t, "file:users.db", cfg.Verifier.DSN)
	assert.Equal(t, time.Second, cfg.Verifier.Timeout)
	assert.Contains(t, cfg.Verifier.Users, "alice")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("AUTHD_ADDR", "0.0.0.0:9000")
	t.Setenv("AUTHD_SESSION_COOKIE_NAME", "session")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
	assert.Equal(t, "session", cfg.GetCookieName())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"short lifetime", "session.lifetime", time.Second},
		{"unknown same site", "session.same_site", "Sometimes"},
		{"unknown driver", "verifier.driver", "ldap"},
		{"unknown log format", "log.format", "xml"},
		{"empty cookie name", "session.cookie_name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := config.New()
			v.Set(tt.key, tt.val)

			_, err := config.Load(v, "")
			assert.Error(t, err)
		})
	}

	t.Run("sqlite needs a dsn", func(t *testing.T) {
		v := config.New()
		v.Set("verifier.driver", config.VerifierSQLite)
		v.Set("verifier.dsn", "")

		_, err := config.Load(v, "")
		assert.Error(t, err)
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
