package auth

import (
	"fmt"
	"os"
)

// DefaultSecretEnv is the environment variable holding the signing secret
const DefaultSecretEnv = "JWT_SECRET"

// SigningKeys holds the symmetric secret used to sign and verify tokens.
// It is built once at startup and never mutated, so it can be shared by
// concurrent requests without locking.
type SigningKeys struct {
	secret []byte
}

// NewSigningKeys copies secret into a SigningKeys value
func NewSigningKeys(secret []byte) (SigningKeys, error) {
	if len(secret) == 0 {
		return SigningKeys{}, ErrMissingSigningSecret
	}

	s := make([]byte, len(secret))
	copy(s, secret)

	return SigningKeys{secret: s}, nil
}

// SigningKeysFromEnv loads the secret from the named environment variable.
// An unset or empty variable is an error; there is no fallback secret.
func SigningKeysFromEnv(name string) (SigningKeys, error) {
	if name == "" {
		name = DefaultSecretEnv
	}

	val, ok := os.LookupEnv(name)
	if !ok || val == "" {
		return SigningKeys{}, fmt.Errorf("%w: %s is not set", ErrMissingSigningSecret, name)
	}

	return NewSigningKeys([]byte(val))
}

// IsZero reports whether the keys were never initialized
func (k SigningKeys) IsZero() bool {
	return len(k.secret) == 0
}

func (k SigningKeys) key() []byte {
	return k.secret
}
