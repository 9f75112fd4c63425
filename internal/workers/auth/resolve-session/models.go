// internal/workers/auth/resolve-session/models.go
package resolvesession

import (
	"database/sql"

	"job-board/internal/common/auth"
	"job-board/internal/common/logger"
	"job-board/internal/common/session"
	"job-board/internal/models"
)

type Input struct {
	Token string `json:"token"`
}

// Output carries the session, or Authenticated=false when the token does
// not resolve to one.
type Output struct {
	Authenticated bool            `json:"authenticated"`
	Session       *models.Session `json:"session,omitempty"`
	Source        string          `json:"source,omitempty"` // "cache" or "identity_provider"
}

const (
	SourceCache            = "cache"
	SourceIdentityProvider = "identity_provider"
)

type ServiceDependencies struct {
	Identity auth.IdentityProvider
	Sessions *session.Store
	DB       *sql.DB
	Logger   logger.Logger
}
