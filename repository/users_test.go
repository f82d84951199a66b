package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/goliatone/go-cookie-auth"
	"github.com/goliatone/go-cookie-auth/repository"
)

func setupUsers(t *testing.T) (*repository.Users, *bun.DB) {
	t.Helper()

	db, err := repository.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	users := repository.NewUsersRepository(db)
	users.HashCost = bcrypt.MinCost
	require.NoError(t, users.CreateSchema(context.Background()))

	return users, db
}

func TestUsers_CreateAndGet(t *testing.T) {
	users, _ := setupUsers(t)
	ctx := context.Background()

	created, err := users.Create(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.NotEqual(t, "wonderland", created.PasswordHash)

	found, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.PasswordHash, found.PasswordHash)

	_, err = users.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUsers_Create_Rejects(t *testing.T) {
	users, _ := setupUsers(t)
	ctx := context.Background()

	_, err := users.Create(ctx, "alice", "wonderland")
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice", "again")
	assert.ErrorIs(t, err, repository.ErrUserExists)

	_, err = users.Create(ctx, "", "pw")
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)

	_, err = users.Create(ctx, "bob", "")
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)
}

func TestUsers_List(t *testing.T) {
	users, _ := setupUsers(t)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := users.Create(ctx, name, "pw-"+name)
		require.NoError(t, err)
	}

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
	assert.Equal(t, "carol", list[2].Username)
}

func TestUsers_VerifyCredentials(t *testing.T) {
	users, db := setupUsers(t)
	ctx := context.Background()

	_, err := users.Create(ctx, "alice", "wonderland")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, users.VerifyCredentials(ctx, "alice", "wonderland"))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := users.VerifyCredentials(ctx, "alice", "nope")
		assert.Equal(t, auth.DiagnosticWrongPassword, auth.DiagnosticOf(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		err := users.VerifyCredentials(ctx, "mallory", "wonderland")
		assert.Equal(t, auth.DiagnosticUnknownUser, auth.DiagnosticOf(err))
	})

	t.Run("works as login authority", func(t *testing.T) {
		keys, err := auth.NewSigningKeys([]byte("repo-test-secret"))
		require.NoError(t, err)

		auther := auth.NewAuthenticator(users, auth.NewClaimsCodec(keys), nil)
		result, err := auther.Login(ctx, auth.Credentials{Username: "alice", Password: "wonderland"})
		require.NoError(t, err)
		assert.Equal(t, "alice", result.User.Username)
	})

	t.Run("closed database is unavailable", func(t *testing.T) {
		require.NoError(t, db.Close())

		err := users.VerifyCredentials(ctx, "alice", "wonderland")
		assert.Equal(t, auth.DiagnosticAuthorityUnavailable, auth.DiagnosticOf(err))
	})
}
