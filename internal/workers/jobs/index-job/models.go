// internal/workers/jobs/index-job/models.go
package indexjob

import "job-board/internal/models"

type Action string

const (
	ActionIndex  Action = "index"
	ActionDelete Action = "delete"
)

type Input struct {
	Action Action      `json:"action"`
	JobID  string      `json:"jobId,omitempty"`
	Job    *models.Job `json:"job,omitempty"`
}

type Output struct {
	JobID  string `json:"jobId"`
	Action Action `json:"action"`
	Result string `json:"result"` // created, updated, deleted or not_found
}
