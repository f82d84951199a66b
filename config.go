package auth

import "time"

// DefaultCookieName is the cookie that carries the signed token
const DefaultCookieName = "access_token"

// DefaultSessionLifetime is the validity window of an issued token
const DefaultSessionLifetime = 24 * time.Hour

// Config holds auth options
type Config interface {
	GetCookieName() string
	GetSessionLifetime() time.Duration
	GetCookieSecure() bool
	GetCookieHTTPOnly() bool
	GetCookieSameSite() string
	GetCookiePath() string
}

// Options is a plain Config implementation. The zero value is not useful,
// start from DefaultConfig.
type Options struct {
	CookieName      string
	SessionLifetime time.Duration
	CookieSecure    bool
	CookieHTTPOnly  bool
	CookieSameSite  string
	CookiePath      string
}

// DefaultConfig returns the options used when nothing else is configured
func DefaultConfig() Options {
	return Options{
		CookieName:      DefaultCookieName,
		SessionLifetime: DefaultSessionLifetime,
		CookieSecure:    true,
		CookieHTTPOnly:  true,
		CookieSameSite:  "Lax",
		CookiePath:      "/",
	}
}

func (o Options) GetCookieName() string {
	if o.CookieName == "" {
		return DefaultCookieName
	}
	return o.CookieName
}

func (o Options) GetSessionLifetime() time.Duration {
	if o.SessionLifetime <= 0 {
		return DefaultSessionLifetime
	}
	return o.SessionLifetime
}

func (o Options) GetCookieSecure() bool   { return o.CookieSecure }
func (o Options) GetCookieHTTPOnly() bool { return o.CookieHTTPOnly }

func (o Options) GetCookieSameSite() string {
	if o.CookieSameSite == "" {
		return "Lax"
	}
	return o.CookieSameSite
}

func (o Options) GetCookiePath() string {
	if o.CookiePath == "" {
		return "/"
	}
	return o.CookiePath
}
