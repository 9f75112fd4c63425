// internal/models/application.go
package models

import "time"

// ApplicationStatus is the review state. Every transition between the
// three values is allowed and none is terminal.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

var ApplicationStatuses = []ApplicationStatus{ApplicationPending, ApplicationApproved, ApplicationRejected}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// AdditionalInfo is stored as JSON in job_applications.additional_info.
type AdditionalInfo struct {
	Notes string `json:"notes"`
}

type Application struct {
	ID             string            `json:"id" db:"id"`
	JobID          string            `json:"jobId" db:"job_id"`
	ApplicantID    string            `json:"applicantId" db:"applicant_id"`
	CoverLetter    string            `json:"coverLetter" db:"cover_letter"`
	ResumeURL      string            `json:"resumeUrl,omitempty" db:"resume_url"`
	AdditionalInfo *AdditionalInfo   `json:"additionalInfo,omitempty" db:"additional_info"`
	Status         ApplicationStatus `json:"status" db:"status"`
	AdminNotes     string            `json:"adminNotes,omitempty" db:"admin_notes"`
	AppliedAt      time.Time         `json:"appliedAt" db:"applied_at"`
	ReviewedAt     *time.Time        `json:"reviewedAt,omitempty" db:"reviewed_at"`
	Job            *JobSummary       `json:"job,omitempty"`
}

// Review is the change an admin applies to an application.
type Review struct {
	Status     ApplicationStatus `json:"status"`
	AdminNotes string            `json:"adminNotes,omitempty"`
	ReviewedAt time.Time         `json:"reviewedAt"`
}

// ApplyReview overwrites status and notes and stamps the review time.
// Notes are replaced, never appended.
func (a Application) ApplyReview(r Review) Application {
	reviewedAt := r.ReviewedAt
	a.Status = r.Status
	a.AdminNotes = r.AdminNotes
	a.ReviewedAt = &reviewedAt
	return a
}
