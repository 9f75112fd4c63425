// internal/workers/auth/sign-in/models.go
package signin

import (
	"database/sql"
	"time"

	"job-board/internal/common/auth"
	"job-board/internal/common/logger"
	"job-board/internal/common/session"
	"job-board/internal/models"
)

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Output struct {
	Session   *models.Session `json:"session"`
	Token     string          `json:"token"`
	Role      models.Role     `json:"role"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

type ServiceDependencies struct {
	Identity auth.IdentityProvider
	Sessions *session.Store
	DB       *sql.DB
	Logger   logger.Logger
}
