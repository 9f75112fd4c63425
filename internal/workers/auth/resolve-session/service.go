// internal/workers/auth/resolve-session/service.go
package resolvesession

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"job-board/internal/common/auth"
	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/common/session"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-postgresql/queries"
)

type Service struct {
	identity auth.IdentityProvider
	sessions *session.Store
	db       *sql.DB
	logger   logger.Logger
	now      func() time.Time
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		identity: deps.Identity,
		sessions: deps.Sessions,
		db:       deps.DB,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

func anonymous() *Output { return &Output{Authenticated: false} }

// Execute restores the session behind a bearer token. Stored sessions are
// tried first; on a miss the token is introspected and a new session saved.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	token := ""
	if input != nil {
		token = strings.TrimSpace(strings.TrimPrefix(input.Token, "Bearer "))
	}
	if token == "" {
		return anonymous(), nil
	}

	revoked, err := s.sessions.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return anonymous(), nil
	}

	now := s.now().UTC()

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		if sess.IsExpired(now) {
			_ = s.sessions.Delete(ctx, token)
			return anonymous(), nil
		}
		return &Output{Authenticated: true, Session: sess, Source: SourceCache}, nil
	}

	info, err := s.identity.ValidateToken(ctx, token)
	if stderrors.Is(err, errors.ErrUnauthenticated) {
		return anonymous(), nil
	}
	if err != nil {
		return nil, err
	}
	if info.Sub == "" || (!info.ExpiresAt().IsZero() && !now.Before(info.ExpiresAt())) {
		return anonymous(), nil
	}

	role, err := s.sessions.ResolveRole(ctx, info.Sub, func(ctx context.Context) (models.Role, error) {
		return queries.EnsureProfile(ctx, s.db, info.Sub, info.Email)
	})
	if err != nil {
		return nil, errors.NewFetchFailedError("profile", err)
	}

	sess = &models.Session{
		Token:     token,
		UserID:    info.Sub,
		Email:     info.Email,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: info.ExpiresAt(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Warn("failed to persist restored session", map[string]interface{}{
			"userId": sess.UserID,
			"error":  err.Error(),
		})
	}

	s.logger.Debug("session restored from identity provider", map[string]interface{}{"userId": sess.UserID})
	return &Output{Authenticated: true, Session: sess, Source: SourceIdentityProvider}, nil
}
