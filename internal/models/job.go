package models

import "time"

// JobType is the employment type of a listing.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

func (t JobType) Valid() bool {
	for _, jt := range JobTypes {
		if t == jt {
			return true
		}
	}
	return false
}

// JobStatus controls public visibility; only active jobs are listed.
type JobStatus string

const (
	JobStatusActive   JobStatus = "active"
	JobStatusInactive JobStatus = "inactive"
)

var JobStatuses = []JobStatus{JobStatusActive, JobStatusInactive}

func (s JobStatus) Valid() bool {
	return s == JobStatusActive || s == JobStatusInactive
}

// Selector wildcards.
const (
	AllLocations = "All Locations"
	AllTypes     = "All Types"
)

// Locations and TypeOptions are the values offered by the listing selectors.
var (
	Locations = []string{
		AllLocations,
		"San Francisco, CA",
		"Remote",
		"New York, NY",
		"Austin, TX",
		"Chicago, IL",
		"Boston, MA",
	}
	TypeOptions = []string{
		AllTypes,
		string(JobTypeFullTime),
		string(JobTypePartTime),
		string(JobTypeContract),
		string(JobTypeInternship),
	}
)

type Job struct {
	ID                string    `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	Company           string    `json:"company" db:"company"`
	Location          string    `json:"location" db:"location"`
	Type              JobType   `json:"type" db:"type"`
	Salary            string    `json:"salary,omitempty" db:"salary"`
	Description       string    `json:"description" db:"description"`
	Requirements      []string  `json:"requirements" db:"requirements"`
	Benefits          []string  `json:"benefits" db:"benefits"`
	Tags              []string  `json:"tags" db:"tags"`
	Status            JobStatus `json:"status" db:"status"`
	ApplicationsCount int       `json:"applicationsCount" db:"applications_count"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	PostedBy          string    `json:"postedBy,omitempty" db:"posted_by"`
}

func (j Job) IsActive() bool {
	return j.Status == JobStatusActive
}

func (j Job) Summary() JobSummary {
	return JobSummary{
		ID:       j.ID,
		Title:    j.Title,
		Company:  j.Company,
		Location: j.Location,
		Type:     j.Type,
		Salary:   j.Salary,
	}
}

// JobSummary is the job subset embedded in application views.
type JobSummary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Location string  `json:"location,omitempty"`
	Type     JobType `json:"type,omitempty"`
	Salary   string  `json:"salary,omitempty"`
}
