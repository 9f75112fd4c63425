// internal/workers/auth/require-role/guard.go
package requirerole

import (
	"time"

	"job-board/internal/models"
)

// Check decides whether sess may enter a view needing required. An empty
// required role only asks for a signed-in user.
func Check(sess *models.Session, required models.Role, now time.Time) Decision {
	if sess == nil || sess.UserID == "" || sess.IsExpired(now) {
		return Decision{RedirectTo: SignInPath, Reason: ReasonSignIn}
	}

	if required == models.RoleAdmin && sess.Role != models.RoleAdmin {
		return Decision{RedirectTo: HomePath, Reason: ReasonNoRole}
	}

	return Decision{Allowed: true}
}
