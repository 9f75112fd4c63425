// internal/workers/auth/require-role/models.go
package requirerole

import "job-board/internal/models"

type Input struct {
	Session      *models.Session `json:"session,omitempty"`
	RequiredRole models.Role     `json:"requiredRole"`
}

// Decision is the guard outcome. When Allowed is false the caller sends
// the user to RedirectTo and shows Reason.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

const (
	SignInPath = "/auth"
	HomePath   = "/"

	ReasonSignIn = "Please sign in to continue"
	ReasonNoRole = "You do not have admin privileges"
)
