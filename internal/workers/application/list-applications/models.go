// internal/workers/application/list-applications/models.go
package listapplications

import "job-board/internal/models"

// Input optionally scopes the listing to one job.
type Input struct {
	JobID string `json:"jobId,omitempty"`
}

type Output struct {
	Applications []models.Application `json:"applications"`
	Total        int                  `json:"total"`
}
