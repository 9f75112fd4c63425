// internal/workers/auth/sign-out/service.go
package signout

import (
	"context"
	"strings"
	"time"

	"job-board/internal/common/auth"
	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/common/session"
)

type Service struct {
	identity auth.IdentityProvider
	sessions *session.Store
	logger   logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		identity: deps.Identity,
		sessions: deps.Sessions,
		logger:   deps.Logger,
	}
}

// Execute deletes the session and revokes its token. The identity provider
// logout and role cache cleanup are best effort.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.Token) == "" {
		return nil, errors.NewValidationFailedError("token is required")
	}
	token := strings.TrimSpace(strings.TrimPrefix(input.Token, "Bearer "))
	now := time.Now().UTC()

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	out := &Output{LogoutAt: now}

	if sess != nil {
		if err := s.sessions.Delete(ctx, token); err != nil {
			return nil, err
		}
		out.SessionEnded = true
	}

	ttl := s.sessions.SessionTTL()
	if sess != nil {
		ttl = sess.TTL(now, ttl)
	}
	if err := s.sessions.Revoke(ctx, token, ttl); err != nil {
		return nil, err
	}
	out.TokenRevoked = true

	refresh := input.RefreshToken
	if refresh == "" && sess != nil {
		refresh = sess.RefreshToken
	}
	if refresh != "" && s.identity != nil {
		if err := s.identity.Logout(ctx, refresh); err != nil {
			s.logger.Warn("identity provider logout failed", map[string]interface{}{"error": err.Error()})
		} else {
			out.ProviderEnded = true
		}
	}

	if sess != nil {
		if err := s.sessions.ClearRole(ctx, sess.UserID); err != nil {
			s.logger.Warn("failed to clear cached role", map[string]interface{}{
				"userId": sess.UserID,
				"error":  err.Error(),
			})
		}
		s.logger.Info("user signed out", map[string]interface{}{"userId": sess.UserID})
	}

	out.Success = true
	out.Message = "Signed out"
	return out, nil
}
