package auth

import (
	"errors"
)

// HeaderCookie is the request header carrying cookies
const HeaderCookie = "Cookie"

var (
	errNoCookieHeader = errors.New("request has no cookie header")
	errNoTokenCookie  = errors.New("token cookie not found")
)

// IdentityExtractor recovers the caller identity from a request's token
// cookie. It does no I/O and holds no mutable state.
type IdentityExtractor struct {
	codec      TokenService
	cookieName string
}

// NewIdentityExtractor creates an extractor reading cookieName
func NewIdentityExtractor(codec TokenService, cookieName string) *IdentityExtractor {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &IdentityExtractor{
		codec:      codec,
		cookieName: cookieName,
	}
}

// CookieName is the cookie the extractor looks for
func (x *IdentityExtractor) CookieName() string {
	return x.cookieName
}

// Extract reads the Cookie header from headers
func (x *IdentityExtractor) Extract(headers HeaderGetter) (Identity, error) {
	if headers == nil {
		return Identity{}, newAuthError(KindInvalidToken, errNoCookieHeader)
	}
	return x.FromCookieHeader(headers.Get(HeaderCookie))
}

// FromCookieHeader verifies the token found in a raw Cookie header.
// All failures are KindInvalidToken, the cause is kept for logging.
func (x *IdentityExtractor) FromCookieHeader(header string) (Identity, error) {
	if header == "" {
		return Identity{}, newAuthError(KindInvalidToken, errNoCookieHeader)
	}

	raw, ok := LookupCookie(header, x.cookieName)
	if !ok {
		return Identity{}, newAuthError(KindInvalidToken, errNoTokenCookie)
	}

	claims, err := x.codec.Decode(raw)
	if err != nil {
		return Identity{}, newAuthError(KindInvalidToken, err)
	}

	return Identity{Username: claims.Issuer}, nil
}
