// internal/workers/jobs/delete-job/models.go
package deletejob

type Input struct {
	JobID     string `json:"jobId"`
	DeletedBy string `json:"deletedBy,omitempty"`
}

type Output struct {
	JobID   string `json:"jobId"`
	Deleted bool   `json:"deleted"`
}

// DeletedEvent is the job.deleted payload.
type DeletedEvent struct {
	JobID     string `json:"jobId"`
	DeletedBy string `json:"deletedBy,omitempty"`
}
