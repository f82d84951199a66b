package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-cookie-auth"
)

// ErrUserExists is returned when registering a taken username
var ErrUserExists = errors.New("user already exists")

// UserModel is the Bun model for credential records
type UserModel struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Users is a credential authority backed by a SQL users table
type Users struct {
	db *bun.DB

	// HashCost is the bcrypt cost used by Create, zero means the package default
	HashCost int

	dummyOnce sync.Once
	dummy     string
}

var _ auth.CredentialVerifier = (*Users)(nil)

// Open connects to a SQLite database, dsn is passed to the sqlite driver
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewUsersRepository creates a new repository
func NewUsersRepository(db *bun.DB) *Users {
	return &Users{db: db}
}

// CreateSchema creates the users table if needed
func (r *Users) CreateSchema(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*UserModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Create stores a new user with a bcrypt hash of password
func (r *Users) Create(ctx context.Context, username, password string) (*UserModel, error) {
	if username == "" {
		return nil, auth.ErrNoEmptyString
	}

	if _, err := r.GetByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := r.hash(password)
	if err != nil {
		return nil, err
	}

	user := &UserModel{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// GetByUsername returns sql.ErrNoRows when the user does not exist
func (r *Users) GetByUsername(ctx context.Context, username string) (*UserModel, error) {
	user := new(UserModel)
	err := r.db.NewSelect().
		Model(user).
		Where("username = ?", username).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all users ordered by username
func (r *Users) List(ctx context.Context) ([]UserModel, error) {
	var users []UserModel
	err := r.db.NewSelect().
		Model(&users).
		Order("username ASC").
		Scan(ctx)
	return users, err
}

// VerifyCredentials implements auth.CredentialVerifier. Database failures
// are reported as an unavailable authority.
func (r *Users) VerifyCredentials(ctx context.Context, username, password string) error {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = auth.ComparePasswordAndHash(password, r.dummyHash())
			return auth.Reject(auth.DiagnosticUnknownUser, auth.ErrIdentityNotFound)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return auth.Reject(auth.DiagnosticCanceled, ctxErr)
		}
		return auth.Reject(auth.DiagnosticAuthorityUnavailable, err)
	}

	if err := auth.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrMismatchedHashAndPassword) {
			return auth.Reject(auth.DiagnosticWrongPassword, err)
		}
		return auth.Reject(auth.DiagnosticRejected, err)
	}

	return nil
}

func (r *Users) hash(password string) (string, error) {
	if r.HashCost > 0 {
		return auth.HashPasswordWithCost(password, r.HashCost)
	}
	return auth.HashPassword(password)
}

func (r *Users) dummyHash() string {
	r.dummyOnce.Do(func() {
		cost := r.HashCost
		if cost == 0 {
			cost = auth.DefaultHashCost()
		}
		r.dummy = auth.RandomPasswordHash(cost)
	})
	return r.dummy
}
