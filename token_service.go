package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService encodes claims into signed tokens and back
type TokenService interface {
	Encode(claims Claims) (string, error)
	Decode(token string) (Claims, error)
}

// ClaimsCodec implements TokenService with HS256 JWTs
type ClaimsCodec struct {
	keys   SigningKeys
	method *jwt.SigningMethodHMAC
	now    func() time.Time
}

var _ TokenService = (*ClaimsCodec)(nil)

// NewClaimsCodec creates a codec that signs and verifies with keys
func NewClaimsCodec(keys SigningKeys) *ClaimsCodec {
	return &ClaimsCodec{
		keys:   keys,
		method: jwt.SigningMethodHS256,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for minting and expiry checks
func (c *ClaimsCodec) WithClock(now func() time.Time) *ClaimsCodec {
	if now != nil {
		c.now = now
	}
	return c
}

// Now returns the current time according to the codec clock
func (c *ClaimsCodec) Now() time.Time {
	return c.now()
}

// Mint builds claims for username valid for lifetime starting now
func (c *ClaimsCodec) Mint(username string, lifetime time.Duration) Claims {
	now := c.now()
	return Claims{
		Issuer:    username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(lifetime).Unix(),
	}
}

// Encode signs claims. The output only depends on the claims and the keys.
// Claims Decode would refuse for their issued at are rejected here too.
func (c *ClaimsCodec) Encode(claims Claims) (string, error) {
	if !claims.wellFormed() {
		return "", ErrInvalidClaims
	}

	if claims.IssuedAt > c.now().Unix() {
		return "", fmt.Errorf("%w: issued in the future", ErrInvalidClaims)
	}

	if c.keys.IsZero() {
		return "", ErrMissingSigningSecret
	}

	token := jwt.NewWithClaims(c.method, toJWTClaims(claims))

	signed, err := token.SignedString(c.keys.key())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode verifies the token signature and expiry and returns its claims.
// Expiry is always checked here so callers cannot skip it.
func (c *ClaimsCodec) Decode(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(raw, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.keys.key(), nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, decodeError(err)
	}

	wire, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrTokenMalformed
	}

	claims := wire.claims()
	if claims.Issuer == "" || claims.IssuedAt == 0 {
		return Claims{}, ErrInvalidClaims
	}

	// hard check on top of the jwt validator, a token expiring this very
	// second is already expired
	if claims.ExpiredAt(c.now()) {
		return Claims{}, ErrTokenExpired
	}

	return claims, nil
}

func decodeError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
