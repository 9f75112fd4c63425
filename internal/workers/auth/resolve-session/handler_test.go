package resolvesession

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"job-board/internal/common/auth"
	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/common/session"
	"job-board/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeIdentity struct {
	calls    int
	validate func(token string) (*auth.TokenInfo, error)
}

func (f *fakeIdentity) PasswordGrant(context.Context, string, string) (*auth.TokenResponse, error) {
	return nil, stderrors.New("not used")
}

func (f *fakeIdentity) ValidateToken(_ context.Context, token string) (*auth.TokenInfo, error) {
	f.calls++
	return f.validate(token)
}

func (f *fakeIdentity) Logout(context.Context, string) error { return nil }

func activeToken(exp time.Time) *fakeIdentity {
	return &fakeIdentity{validate: func(string) (*auth.TokenInfo, error) {
		return &auth.TokenInfo{Active: true, Sub: "user-1", Email: "jane@example.com", Exp: exp.Unix()}, nil
	}}
}

func newHandler(t *testing.T, rdb *redis.Client, idp auth.IdentityProvider) (*Handler, sqlmock.Sqlmock, *session.Store) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := session.NewStore(rdb, time.Hour, 10*time.Minute)
	h := NewHandler(&Config{Timeout: 5 * time.Second}, ServiceDependencies{
		Identity: idp,
		Sessions: store,
		DB:       db,
		Logger:   logger.NewZapAdapter(zaptest.NewLogger(t)),
	})
	return h, mock, store
}

func setup(t *testing.T, idp auth.IdentityProvider) (*Handler, sqlmock.Sqlmock, *session.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	h, mock, store := newHandler(t, redis.NewClient(&redis.Options{Addr: mr.Addr()}), idp)
	return h, mock, store, mr
}

func TestHandler_Execute_FromStore(t *testing.T) {
	idp := activeToken(time.Now().Add(time.Hour))
	h, _, store, _ := setup(t, idp)

	require.NoError(t, store.Save(context.Background(), &models.Session{
		Token:     "tok-1",
		UserID:    "user-1",
		Role:      models.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	out, err := h.Execute(context.Background(), &Input{Token: "Bearer tok-1"})
	require.NoError(t, err)
	assert.True(t, out.Authenticated)
	assert.Equal(t, SourceCache, out.Source)
	assert.Equal(t, models.RoleAdmin, out.Session.Role)
	assert.Zero(t, idp.calls)
}

func TestHandler_Execute_RestoresFromIdentityProvider(t *testing.T) {
	h, mock, store, _ := setup(t, activeToken(time.Now().Add(20*time.Minute)))

	mock.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("user-1", "jane@example.com", "regular").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("regular"))

	out, err := h.Execute(context.Background(), &Input{Token: "tok-2"})
	require.NoError(t, err)
	assert.True(t, out.Authenticated)
	assert.Equal(t, SourceIdentityProvider, out.Source)
	assert.Equal(t, "user-1", out.Session.UserID)

	saved, err := store.Get(context.Background(), "tok-2")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, models.RoleRegular, saved.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NoSession(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		h, _, _, _ := setup(t, activeToken(time.Now().Add(time.Hour)))
		out, err := h.Execute(context.Background(), &Input{})
		require.NoError(t, err)
		assert.False(t, out.Authenticated)
		assert.Nil(t, out.Session)
	})

	t.Run("revoked", func(t *testing.T) {
		idp := activeToken(time.Now().Add(time.Hour))
		h, _, store, _ := setup(t, idp)
		require.NoError(t, store.Revoke(context.Background(), "tok-1", time.Hour))

		out, err := h.Execute(context.Background(), &Input{Token: "tok-1"})
		require.NoError(t, err)
		assert.False(t, out.Authenticated)
		assert.Zero(t, idp.calls)
	})

	t.Run("inactive at identity provider", func(t *testing.T) {
		idp := &fakeIdentity{validate: func(string) (*auth.TokenInfo, error) {
			return nil, errors.NewUnauthenticatedError("token is expired, revoked or invalid")
		}}
		h, _, _, _ := setup(t, idp)

		out, err := h.Execute(context.Background(), &Input{Token: "stale"})
		require.NoError(t, err)
		assert.False(t, out.Authenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		h, _, _, _ := setup(t, activeToken(time.Now().Add(-time.Minute)))

		out, err := h.Execute(context.Background(), &Input{Token: "old"})
		require.NoError(t, err)
		assert.False(t, out.Authenticated)
	})

	t.Run("expired stored session", func(t *testing.T) {
		h, _, _, mr := setup(t, activeToken(time.Now().Add(time.Hour)))
		// written directly so it outlives its own expiry
		require.NoError(t, mr.Set(session.SessionKey("tok-3"),
			`{"token":"tok-3","userId":"user-1","role":"regular","expiresAt":"2020-01-01T00:00:00Z"}`))

		out, err := h.Execute(context.Background(), &Input{Token: "tok-3"})
		require.NoError(t, err)
		assert.False(t, out.Authenticated)
		assert.False(t, mr.Exists(session.SessionKey("tok-3")))
	})
}

func TestHandler_Execute_StoreUnavailable(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	h, _, _ := newHandler(t, rdb, activeToken(time.Now().Add(time.Hour)))

	redisMock.ExpectExists(session.RevokedKey("tok-1")).SetErr(stderrors.New("connection refused"))

	_, err := h.Execute(context.Background(), &Input{Token: "tok-1"})
	assert.Equal(t, errors.ErrCodeSessionStoreFailed, errors.AsStandardError(err).Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
