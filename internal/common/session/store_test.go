package session

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"job-board/internal/common/errors"
	"job-board/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestStore_SaveGetDelete(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewStore(rdb, time.Hour, 5*time.Minute)
	ctx := context.Background()

	sess := &models.Session{
		Token:     "tok-1",
		UserID:    "user-1",
		Email:     "jane@example.com",
		Role:      models.RoleRegular,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))

	// expires with the token, not the longer configured TTL
	ttl := mr.TTL(SessionKey("tok-1"))
	assert.LessOrEqual(t, ttl, 10*time.Minute)
	assert.Greater(t, ttl, 9*time.Minute)

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, models.RoleRegular, got.Role)

	require.NoError(t, store.Delete(ctx, "tok-1"))
	got, err = store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveExpired(t *testing.T) {
	_, rdb := setupRedis(t)
	store := NewStore(rdb, time.Hour, time.Minute)

	err := store.Save(context.Background(), &models.Session{Token: "t", ExpiresAt: time.Now().Add(-time.Second)})
	assert.True(t, stderrors.Is(err, errors.ErrUnauthenticated))
}

func TestStore_GetCorrupt(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewStore(rdb, time.Hour, time.Minute)
	require.NoError(t, mr.Set(SessionKey("bad"), "{not json"))

	got, err := store.Get(context.Background(), "bad")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(SessionKey("bad")))
}

func TestStore_Revocation(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewStore(rdb, time.Hour, time.Minute)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "tok", 0))
	assert.Equal(t, time.Hour, mr.TTL(RevokedKey("tok")))

	revoked, err = store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestStore_RoleCache(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewStore(rdb, time.Hour, 5*time.Minute)
	ctx := context.Background()

	_, found, err := store.CachedRole(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.CacheRole(ctx, "user-1", models.RoleAdmin))
	assert.Equal(t, 5*time.Minute, mr.TTL(RoleKey("user-1")))

	role, found, err := store.CachedRole(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.RoleAdmin, role)

	require.NoError(t, mr.Set(RoleKey("user-2"), "superuser"))
	_, found, err = store.CachedRole(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.ClearRole(ctx, "user-1"))
	assert.False(t, mr.Exists(RoleKey("user-1")))
}

func TestStore_ResolveRole(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewStore(rdb, time.Hour, 5*time.Minute)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (models.Role, error) {
		calls++
		return models.RoleAdmin, nil
	}

	role, err := store.ResolveRole(ctx, "user-1", load)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
	assert.True(t, mr.Exists(RoleKey("user-1")))

	role, err = store.ResolveRole(ctx, "user-1", load)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
	assert.Equal(t, 1, calls)

	_, err = store.ResolveRole(ctx, "user-2", func(context.Context) (models.Role, error) {
		return "", stderrors.New("profiles unavailable")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists(RoleKey("user-2")))
}

func TestStore_RedisFailure(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb, time.Hour, time.Minute)

	mock.ExpectGet(SessionKey("tok")).SetErr(stderrors.New("connection refused"))
	_, err := store.Get(context.Background(), "tok")
	assert.True(t, stderrors.Is(err, errors.ErrSessionStoreFailed))

	mock.ExpectExists(RevokedKey("tok")).SetErr(stderrors.New("connection refused"))
	_, err = store.IsRevoked(context.Background(), "tok")
	assert.True(t, stderrors.Is(err, errors.ErrSessionStoreFailed))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	sess := &models.Session{UserID: "u"}
	got, ok := FromContext(WithSession(context.Background(), sess))
	assert.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = FromContext(WithSession(context.Background(), nil))
	assert.False(t, ok)
}
