package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-cookie-auth"
	"github.com/goliatone/go-cookie-auth/internal/activity"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return rdb
}

func TestStreamSink_Record(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	sink := activity.NewStreamSink(rdb, "", 0)

	occurred := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, sink.Record(ctx, auth.ActivityEvent{
		EventType:  auth.ActivityEventLoginFailure,
		Username:   "alice",
		Kind:       auth.KindWrongCredentials,
		Diagnostic: auth.DiagnosticWrongPassword,
		Metadata:   map[string]any{"path": "/auth/login"},
		OccurredAt: occurred,
	}))
	require.NoError(t, sink.Record(ctx, auth.ActivityEvent{
		EventType:  auth.ActivityEventLogout,
		Username:   "alice",
		OccurredAt: occurred,
	}))

	entries, err := rdb.XRange(ctx, activity.DefaultStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0].Values
	assert.Equal(t, "auth.login.failure", first["event"])
	assert.Equal(t, "alice", first["username"])
	assert.Equal(t, "wrong_credentials", first["kind"])
	assert.Equal(t, "wrong_password", first["diagnostic"])
	assert.Equal(t, `{"path":"/auth/login"}`, first["metadata"])
	assert.Equal(t, "2024-05-01T12:00:00Z", first["occurred_at"])

	second := entries[1].Values
	assert.Equal(t, "auth.logout", second["event"])
	assert.NotContains(t, second, "kind")
	assert.NotContains(t, second, "diagnostic")
}

func TestStreamSink_Unreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	sink := activity.NewStreamSink(rdb, "events", 10)
	err := sink.Record(context.Background(), auth.ActivityEvent{EventType: auth.ActivityEventLogout})
	assert.Error(t, err)
}

func TestMulti(t *testing.T) {
	var got []string
	ok := auth.ActivitySinkFunc(func(_ context.Context, e auth.ActivityEvent) error {
		got = append(got, e.Username)
		return nil
	})
	failing := auth.ActivitySinkFunc(func(context.Context, auth.ActivityEvent) error {
		return errors.New("down")
	})

	sink := activity.Multi(failing, nil, ok)
	err := sink.Record(context.Background(), auth.ActivityEvent{Username: "alice"})

	assert.EqualError(t, err, "down")
	assert.Equal(t, []string{"alice"}, got)
}
