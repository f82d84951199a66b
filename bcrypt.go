package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt cost used by HashPassword
func DefaultHashCost() int {
	return passwordHashCost()
}

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, passwordHashCost())
}

// HashPasswordWithCost will generate a password hash with the given bcrypt cost
func HashPasswordWithCost(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// StaticVerifier checks credentials against a fixed table of bcrypt hashes
type StaticVerifier struct {
	users map[string]string

	dummyOnce sync.Once
	dummy     string
}

var _ CredentialVerifier = (*StaticVerifier)(nil)

// NewStaticVerifier copies users, a username to bcrypt hash map
func NewStaticVerifier(users map[string]string) *StaticVerifier {
	table := make(map[string]string, len(users))
	for name, hash := range users {
		table[name] = hash
	}
	return &StaticVerifier{users: table}
}

// VerifyCredentials implements CredentialVerifier
func (v *StaticVerifier) VerifyCredentials(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return Reject(DiagnosticCanceled, err)
	}

	hash, ok := v.users[username]
	if !ok {
		// burn the same bcrypt work so unknown users are not faster
		_ = ComparePasswordAndHash(password, v.dummyHash())
		return Reject(DiagnosticUnknownUser, ErrIdentityNotFound)
	}

	if err := ComparePasswordAndHash(password, hash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return Reject(DiagnosticWrongPassword, err)
		}
		return Reject(DiagnosticRejected, err)
	}

	return nil
}

func (v *StaticVerifier) dummyHash() string {
	v.dummyOnce.Do(func() {
		cost := passwordHashCost()
		for _, hash := range v.users {
			if c, err := bcrypt.Cost([]byte(hash)); err == nil {
				cost = c
			}
			break
		}
		v.dummy = RandomPasswordHash(cost)
	})
	return v.dummy
}

// RandomPasswordHash hashes a random password, used as a decoy
func RandomPasswordHash(cost int) string {
	pwd := uuid.New()

	h, err := HashPasswordWithCost(pwd.String(), cost)
	if err != nil {
		return RandomPasswordHash(bcrypt.DefaultCost)
	}

	return h
}
