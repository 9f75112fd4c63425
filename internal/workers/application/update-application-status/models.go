// internal/workers/application/update-application-status/models.go
package updateapplicationstatus

import (
	"time"

	"job-board/internal/models"
)

type Input struct {
	ApplicationID string                   `json:"applicationId"`
	Status        models.ApplicationStatus `json:"status"`
	AdminNotes    string                   `json:"adminNotes,omitempty"`
	ReviewedBy    string                   `json:"reviewedBy,omitempty"`
}

type Output struct {
	ApplicationID  string                   `json:"applicationId"`
	Status         models.ApplicationStatus `json:"status"`
	PreviousStatus models.ApplicationStatus `json:"previousStatus"`
	StatusChanged  bool                     `json:"statusChanged"`
	AdminNotes     string                   `json:"adminNotes,omitempty"`
	ReviewedAt     time.Time                `json:"reviewedAt"`
}

// Review returns the change the update applied.
func (o *Output) Review() models.Review {
	return models.Review{
		Status:     o.Status,
		AdminNotes: o.AdminNotes,
		ReviewedAt: o.ReviewedAt,
	}
}

// ReviewedEvent is the application.reviewed payload.
type ReviewedEvent struct {
	ApplicationID  string                   `json:"applicationId"`
	Status         models.ApplicationStatus `json:"status"`
	PreviousStatus models.ApplicationStatus `json:"previousStatus"`
	AdminNotes     string                   `json:"adminNotes,omitempty"`
	ReviewedBy     string                   `json:"reviewedBy,omitempty"`
	ReviewedAt     time.Time                `json:"reviewedAt"`
}

// MessageName is the BPMN message correlated on a status change, keyed by application id.
const MessageName = "application-reviewed"
