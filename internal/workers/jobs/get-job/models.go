// internal/workers/jobs/get-job/models.go
package getjob

import "job-board/internal/models"

type Input struct {
	JobID string `json:"jobId"`
	// UserID, when set, also reports whether that user already applied.
	UserID          string `json:"userId,omitempty"`
	IncludeInactive bool   `json:"includeInactive,omitempty"`
}

type Output struct {
	Job           *models.Job `json:"job"`
	HasApplied    bool        `json:"hasApplied"`
	ApplicationID string      `json:"applicationId,omitempty"`
}
