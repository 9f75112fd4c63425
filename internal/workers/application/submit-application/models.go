// internal/workers/application/submit-application/models.go
package submitapplication

import (
	"time"

	"job-board/internal/models"
)

type Input struct {
	JobID          string `json:"jobId"`
	ApplicantID    string `json:"applicantId"`
	CoverLetter    string `json:"coverLetter"`
	ResumeURL      string `json:"resumeUrl,omitempty"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

type Output struct {
	ApplicationID     string                   `json:"applicationId"`
	ApplicationStatus models.ApplicationStatus `json:"applicationStatus"`
	AppliedAt         time.Time                `json:"appliedAt"`
	Application       *models.Application      `json:"application"`
}
