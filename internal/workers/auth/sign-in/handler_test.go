package signin

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
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeIdentity struct {
	grant    func(username, password string) (*auth.TokenResponse, error)
	validate func(token string) (*auth.TokenInfo, error)
}

func (f *fakeIdentity) PasswordGrant(_ context.Context, username, password string) (*auth.TokenResponse, error) {
	return f.grant(username, password)
}

func (f *fakeIdentity) ValidateToken(_ context.Context, token string) (*auth.TokenInfo, error) {
	return f.validate(token)
}

func (f *fakeIdentity) Logout(context.Context, string) error { return nil }

var expiry = time.Now().Add(30 * time.Minute).Truncate(time.Second).UTC()

func keycloakOK() *fakeIdentity {
	return &fakeIdentity{
		grant: func(username, password string) (*auth.TokenResponse, error) {
			if password != "correct horse" {
				return nil, errors.NewUnauthenticatedError("Invalid login credentials")
			}
			return &auth.TokenResponse{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresIn: 1800}, nil
		},
		validate: func(token string) (*auth.TokenInfo, error) {
			return &auth.TokenInfo{Active: true, Sub: "user-1", Email: "jane@example.com", Exp: expiry.Unix()}, nil
		},
	}
}

type fixture struct {
	handler *Handler
	sql     sqlmock.Sqlmock
	redis   *miniredis.Miniredis
	store   *session.Store
}

func setup(t *testing.T, idp auth.IdentityProvider) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := session.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour, 10*time.Minute)
	h := NewHandler(&Config{Timeout: 5 * time.Second}, ServiceDependencies{
		Identity: idp,
		Sessions: store,
		DB:       db,
		Logger:   logger.NewZapAdapter(zaptest.NewLogger(t)),
	})
	return &fixture{handler: h, sql: mock, redis: mr, store: store}
}

// ==========================
// Sign-in Tests
// ==========================

func TestHandler_Execute_FirstSignIn(t *testing.T) {
	f := setup(t, keycloakOK())

	f.sql.ExpectQuery(`INSERT INTO profiles`).
		WithArgs("user-1", "jane@example.com", "regular").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("regular"))

	out, err := f.handler.Execute(context.Background(), &Input{Email: " Jane@Example.com ", Password: "correct horse"})
	require.NoError(t, err)

	assert.Equal(t, "access-1", out.Token)
	assert.Equal(t, models.RoleRegular, out.Role)
	assert.Equal(t, expiry, out.ExpiresAt)

	stored, err := f.store.Get(context.Background(), "access-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, "refresh-1", stored.RefreshToken)

	// TTL follows the token, not the one hour default
	assert.LessOrEqual(t, f.redis.TTL(session.SessionKey("access-1")), 30*time.Minute)
	assert.True(t, f.redis.Exists(session.RoleKey("user-1")))
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestHandler_Execute_CachedAdminRole(t *testing.T) {
	f := setup(t, keycloakOK())
	require.NoError(t, f.store.CacheRole(context.Background(), "user-1", models.RoleAdmin))

	out, err := f.handler.Execute(context.Background(), &Input{Email: "jane@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, out.Role)
	assert.True(t, out.Session.IsAdmin())
	// no profile query expected
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestHandler_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		code  errors.ErrorCode
	}{
		{"missing password", &Input{Email: "jane@example.com"}, errors.ErrCodeValidationFailed},
		{"malformed email", &Input{Email: "jane", Password: "x"}, errors.ErrCodeValidationFailed},
		{"wrong password", &Input{Email: "jane@example.com", Password: "wrong"}, errors.ErrCodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, keycloakOK())
			_, err := f.handler.Execute(context.Background(), tt.input)
			assert.Equal(t, tt.code, errors.AsStandardError(err).Code)
			assert.Empty(t, f.redis.Keys())
		})
	}
}

func TestHandler_Execute_ProfileLookupFails(t *testing.T) {
	f := setup(t, keycloakOK())
	f.sql.ExpectQuery(`INSERT INTO profiles`).WillReturnError(stderrors.New("connection refused"))

	_, err := f.handler.Execute(context.Background(), &Input{Email: "jane@example.com", Password: "correct horse"})
	assert.Equal(t, errors.ErrCodeFetchFailed, errors.AsStandardError(err).Code)
	assert.False(t, f.redis.Exists(session.SessionKey("access-1")))
}

func TestHandler_Execute_IdentityProviderDown(t *testing.T) {
	idp := keycloakOK()
	idp.grant = func(string, string) (*auth.TokenResponse, error) {
		return nil, errors.NewIdentityProviderError(stderrors.New("connection refused"))
	}
	f := setup(t, idp)

	_, err := f.handler.Execute(context.Background(), &Input{Email: "jane@example.com", Password: "correct horse"})
	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeIdentityProviderFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
