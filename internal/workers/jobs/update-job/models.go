// internal/workers/jobs/update-job/models.go
package updatejob

import (
	"job-board/internal/models"
	createjob "job-board/internal/workers/jobs/create-job"
)

// Input is a partial edit. Absent fields keep their stored value.
type Input struct {
	JobID        string               `json:"jobId"`
	Title        *string              `json:"title,omitempty"`
	Company      *string              `json:"company,omitempty"`
	Location     *string              `json:"location,omitempty"`
	Type         *string              `json:"type,omitempty"`
	Salary       *string              `json:"salary,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Requirements *createjob.Lines     `json:"requirements,omitempty"`
	Benefits     *createjob.Lines     `json:"benefits,omitempty"`
	Tags         *createjob.CommaList `json:"tags,omitempty"`
	Status       *string              `json:"status,omitempty"`
	UpdatedBy    string               `json:"updatedBy,omitempty"`
}

func (in *Input) empty() bool {
	return in.Title == nil && in.Company == nil && in.Location == nil && in.Type == nil &&
		in.Salary == nil && in.Description == nil && in.Requirements == nil &&
		in.Benefits == nil && in.Tags == nil && in.Status == nil
}

type Output struct {
	JobID          string           `json:"jobId"`
	Job            *models.Job      `json:"job"`
	Changed        []string         `json:"changed"`
	PreviousStatus models.JobStatus `json:"previousStatus"`
}
