// internal/workers/auth/sign-in/service.go
package signin

import (
	"context"
	"database/sql"
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

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationFailedError("input cannot be nil")
	}
	if result := validateInput(input); !result.Valid {
		return nil, errors.NewValidationFailedError(result.Summary()).
			WithMetadata("errors", result.Errors)
	}

	tokens, err := s.identity.PasswordGrant(ctx, input.Email, input.Password)
	if err != nil {
		s.logger.Warn("password grant failed", map[string]interface{}{
			"email": input.Email,
			"error": err.Error(),
		})
		return nil, err
	}

	info, err := s.identity.ValidateToken(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, errors.NewUnauthenticatedError("token has no subject")
	}

	email := info.Email
	if email == "" {
		email = input.Email
	}

	role, err := s.sessions.ResolveRole(ctx, info.Sub, func(ctx context.Context) (models.Role, error) {
		return queries.EnsureProfile(ctx, s.db, info.Sub, email)
	})
	if err != nil {
		return nil, errors.NewFetchFailedError("profile", err)
	}

	now := s.now().UTC()
	expiresAt := info.ExpiresAt()
	if expiresAt.IsZero() && tokens.ExpiresIn > 0 {
		expiresAt = now.Add(time.Duration(tokens.ExpiresIn) * time.Second)
	}

	sess := &models.Session{
		Token:        tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		UserID:       info.Sub,
		Email:        email,
		Role:         role,
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", map[string]interface{}{
		"userId": sess.UserID,
		"role":   string(sess.Role),
	})

	return &Output{
		Session:   sess,
		Token:     sess.Token,
		Role:      sess.Role,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}
