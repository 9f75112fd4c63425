// internal/workers/jobs/list-jobs/models.go
package listjobs

import (
	"job-board/internal/models"
	filterjobs "job-board/internal/workers/jobs/filter-jobs"
)

type Input struct {
	filterjobs.Criteria
}

type Output struct {
	Jobs  []models.Job `json:"jobs"`
	Total int          `json:"total"`
	Shown int          `json:"shown"`
}
