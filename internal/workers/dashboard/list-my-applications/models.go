// internal/workers/dashboard/list-my-applications/models.go
package listmyapplications

import (
	"time"

	"job-board/internal/models"
)

type Input struct {
	ApplicantID string `json:"applicantId"`
}

// Entry is one row of the applicant's dashboard. Cover letter and
// attachments are left out.
type Entry struct {
	ID         string                   `json:"id"`
	Status     models.ApplicationStatus `json:"status"`
	AppliedAt  time.Time                `json:"appliedAt"`
	ReviewedAt *time.Time               `json:"reviewedAt,omitempty"`
	AdminNotes string                   `json:"adminNotes,omitempty"`
	Job        models.JobSummary        `json:"job"`
}

type Counts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type Output struct {
	Applications []Entry `json:"applications"`
	Total        int     `json:"total"`
	Counts       Counts  `json:"counts"`
}
