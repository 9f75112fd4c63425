package signout

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

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeIdentity struct {
	loggedOut []string
	logoutErr error
}

func (f *fakeIdentity) PasswordGrant(context.Context, string, string) (*auth.TokenResponse, error) {
	return nil, stderrors.New("not used")
}

func (f *fakeIdentity) ValidateToken(context.Context, string) (*auth.TokenInfo, error) {
	return nil, stderrors.New("not used")
}

func (f *fakeIdentity) Logout(_ context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return f.logoutErr
}

func setup(t *testing.T, idp *fakeIdentity) (*Handler, *session.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := session.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour, 10*time.Minute)
	h := NewHandler(&Config{Timeout: 5 * time.Second}, ServiceDependencies{
		Identity: idp,
		Sessions: store,
		Logger:   logger.NewZapAdapter(zaptest.NewLogger(t)),
	})
	return h, store, mr
}

func signedIn(t *testing.T, store *session.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &models.Session{
		Token:        "tok-1",
		RefreshToken: "refresh-1",
		UserID:       "user-1",
		Role:         models.RoleAdmin,
		ExpiresAt:    time.Now().Add(20 * time.Minute),
	}))
	require.NoError(t, store.CacheRole(ctx, "user-1", models.RoleAdmin))
}

func TestHandler_Execute_EndsSession(t *testing.T) {
	idp := &fakeIdentity{}
	h, store, mr := setup(t, idp)
	signedIn(t, store)

	out, err := h.Execute(context.Background(), &Input{Token: "Bearer tok-1"})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.True(t, out.SessionEnded)
	assert.True(t, out.TokenRevoked)
	assert.True(t, out.ProviderEnded)
	assert.Equal(t, []string{"refresh-1"}, idp.loggedOut)

	assert.False(t, mr.Exists(session.SessionKey("tok-1")))
	assert.False(t, mr.Exists(session.RoleKey("user-1")))
	assert.True(t, mr.Exists(session.RevokedKey("tok-1")))
	assert.LessOrEqual(t, mr.TTL(session.RevokedKey("tok-1")), 20*time.Minute)

	revoked, err := store.IsRevoked(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestHandler_Execute_ProviderFailureIsSoft(t *testing.T) {
	idp := &fakeIdentity{logoutErr: errors.NewIdentityProviderError(stderrors.New("timeout"))}
	h, store, _ := setup(t, idp)
	signedIn(t, store)

	out, err := h.Execute(context.Background(), &Input{Token: "tok-1"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.False(t, out.ProviderEnded)
}

func TestHandler_Execute_UnknownTokenStillRevoked(t *testing.T) {
	idp := &fakeIdentity{}
	h, _, mr := setup(t, idp)

	out, err := h.Execute(context.Background(), &Input{Token: "tok-unknown"})
	require.NoError(t, err)
	assert.False(t, out.SessionEnded)
	assert.True(t, out.TokenRevoked)
	assert.Empty(t, idp.loggedOut)
	assert.Equal(t, time.Hour, mr.TTL(session.RevokedKey("tok-unknown")))
}

func TestHandler_Execute_RequiresToken(t *testing.T) {
	h, _, _ := setup(t, &fakeIdentity{})

	_, err := h.Execute(context.Background(), &Input{Token: "  "})
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.AsStandardError(err).Code)
}
