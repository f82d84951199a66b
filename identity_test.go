package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-cookie-auth"
)

func TestIdentityExtractor(t *testing.T) {
	codec := testCodec(t)
	extractor := auth.NewIdentityExtractor(codec, "")
	assert.Equal(t, auth.DefaultCookieName, extractor.CookieName())

	token, err := codec.Encode(codec.Mint("alice", time.Hour))
	require.NoError(t, err)

	t.Run("valid cookie", func(t *testing.T) {
		identity, err := extractor.FromCookieHeader("theme=dark; access_token=" + token)
		require.NoError(t, err)
		assert.Equal(t, auth.Identity{Username: "alice"}, identity)
	})

	t.Run("from request headers", func(t *testing.T) {
		headers := http.Header{}
		headers.Set(auth.HeaderCookie, "access_token="+token)

		identity, err := extractor.Extract(headers)
		require.NoError(t, err)
		assert.Equal(t, "alice", identity.Username)
	})

	failures := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"no token cookie", "theme=dark"},
		{"empty token", "access_token="},
		{"garbage token", "access_token=garbage"},
		{"expired token", "access_token=" + expiredToken(t, codec, "alice")},
		{"first duplicate is used", "access_token=garbage; access_token=" + token},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.FromCookieHeader(tt.header)
			assert.True(t, auth.IsKind(err, auth.KindInvalidToken), "got %v", err)
		})
	}

	t.Run("expired keeps cause", func(t *testing.T) {
		_, err := extractor.FromCookieHeader("access_token=" + expiredToken(t, codec, "alice"))
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("nil headers", func(t *testing.T) {
		_, err := extractor.Extract(nil)
		assert.True(t, auth.IsKind(err, auth.KindInvalidToken))
	})

	t.Run("custom cookie name", func(t *testing.T) {
		custom := auth.NewIdentityExtractor(codec, "session")
		_, err := custom.FromCookieHeader("access_token=" + token)
		assert.True(t, auth.IsKind(err, auth.KindInvalidToken))

		identity, err := custom.FromCookieHeader("session=" + token)
		require.NoError(t, err)
		assert.Equal(t, "alice", identity.Username)
	})

	t.Run("other keys", func(t *testing.T) {
		otherKeys, err := auth.NewSigningKeys([]byte("another-secret"))
		require.NoError(t, err)
		other := auth.NewIdentityExtractor(auth.NewClaimsCodec(otherKeys), "")

		_, err = other.FromCookieHeader("access_token=" + token)
		assert.ErrorIs(t, err, auth.ErrTokenSignatureInvalid)
	})
}
