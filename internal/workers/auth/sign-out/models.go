// internal/workers/auth/sign-out/models.go
package signout

import (
	"time"

	"job-board/internal/common/auth"
	"job-board/internal/common/logger"
	"job-board/internal/common/session"
)

type Input struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type Output struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	SessionEnded  bool      `json:"sessionEnded"`
	TokenRevoked  bool      `json:"tokenRevoked"`
	ProviderEnded bool      `json:"providerEnded"`
	LogoutAt      time.Time `json:"logoutAt"`
}

type ServiceDependencies struct {
	Identity auth.IdentityProvider
	Sessions *session.Store
	Logger   logger.Logger
}
