package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload identifying a principal and its validity
// window. Timestamps are unix seconds.
type Claims struct {
	Issuer    string `json:"iss"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Username returns the authenticated username carried by the claims
func (c Claims) Username() string {
	return c.Issuer
}

// Expires returns the expiration time
func (c Claims) Expires() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// Issued returns the issued at time
func (c Claims) Issued() time.Time {
	return time.Unix(c.IssuedAt, 0)
}

// ExpiredAt reports whether the claims are no longer valid at t
func (c Claims) ExpiredAt(t time.Time) bool {
	return t.Unix() >= c.ExpiresAt
}

func (c Claims) wellFormed() bool {
	return c.Issuer != "" && c.IssuedAt > 0 && c.ExpiresAt > c.IssuedAt
}

// jwtClaims is the wire form of Claims
type jwtClaims struct {
	jwt.RegisteredClaims
}

func toJWTClaims(c Claims) *jwtClaims {
	return &jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.Issuer,
			IssuedAt:  jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)),
		},
	}
}

func (c *jwtClaims) claims() Claims {
	out := Claims{Issuer: c.Issuer}
	if c.RegisteredClaims.IssuedAt != nil {
		out.IssuedAt = c.RegisteredClaims.IssuedAt.Unix()
	}
	if c.RegisteredClaims.ExpiresAt != nil {
		out.ExpiresAt = c.RegisteredClaims.ExpiresAt.Unix()
	}
	return out
}
