// internal/workers/jobs/filter-jobs/models.go
package filterjobs

import "job-board/internal/models"

type SortOrder string

const (
	SortRecent  SortOrder = "recent"
	SortCompany SortOrder = "company"
	SortSalary  SortOrder = "salary"
)

// Criteria are the listing selectors. Empty values and the "All ..."
// selector entries match every job.
type Criteria struct {
	Query    string    `json:"query,omitempty"`
	Location string    `json:"location,omitempty"`
	Type     string    `json:"type,omitempty"`
	Sort     SortOrder `json:"sort,omitempty"`

	// IncludeInactive is only honoured for admin callers.
	IncludeInactive bool `json:"includeInactive,omitempty"`
}

type Input struct {
	Jobs []models.Job `json:"jobs"`
	Criteria
}

type Output struct {
	Jobs  []models.Job `json:"jobs"`
	Total int          `json:"total"` // visible jobs before the selectors apply
	Shown int          `json:"shown"`
}
