// Package querytest builds sqlmock rows shaped like the queries package scans them.
package querytest

import (
	"database/sql/driver"
	"strings"
	"time"

	"job-board/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var (
	JobColumns = []string{
		"id", "title", "company", "location", "type", "salary", "description",
		"requirements", "benefits", "tags", "status", "applications_count", "created_at", "posted_by",
	}

	ApplicationColumns = []string{
		"id", "job_id", "applicant_id", "cover_letter", "resume_url", "additional_info",
		"status", "admin_notes", "applied_at", "reviewed_at",
		"title", "company", "location", "type", "salary",
	}

	ProfileColumns = []string{"id", "email", "full_name", "phone", "role", "created_at"}
)

// Created is the fixed creation time used by fixtures.
var Created = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func Job(id string) models.Job {
	return models.Job{
		ID:                id,
		Title:             "Backend Engineer",
		Company:           "Acme",
		Location:          "Remote",
		Type:              models.JobTypeFullTime,
		Salary:            "$120k - $150k",
		Description:       "Build APIs",
		Requirements:      []string{"Go", "SQL"},
		Benefits:          []string{"Remote"},
		Tags:              []string{"go", "backend"},
		Status:            models.JobStatusActive,
		ApplicationsCount: 2,
		CreatedAt:         Created,
		PostedBy:          "admin-1",
	}
}

func pgArray(a []string) string {
	return "{" + strings.Join(a, ",") + "}"
}

func optional(s string) driver.Value {
	if s == "" {
		return nil
	}
	return s
}

// JobRows returns rows for the given jobs in JobColumns order.
func JobRows(jobs ...models.Job) *sqlmock.Rows {
	rows := sqlmock.NewRows(JobColumns)
	for _, j := range jobs {
		rows.AddRow(
			j.ID, j.Title, j.Company, j.Location, string(j.Type), optional(j.Salary), j.Description,
			pgArray(j.Requirements), pgArray(j.Benefits), pgArray(j.Tags),
			string(j.Status), j.ApplicationsCount, j.CreatedAt, optional(j.PostedBy),
		)
	}
	return rows
}

func Application(id, jobID, applicantID string) models.Application {
	summary := Job(jobID).Summary()
	return models.Application{
		ID:          id,
		JobID:       jobID,
		ApplicantID: applicantID,
		CoverLetter: "I would love to join.",
		Status:      models.ApplicationPending,
		AppliedAt:   Created.Add(time.Hour),
		Job:         &summary,
	}
}

// ApplicationRows returns rows for the given applications in ApplicationColumns order.
func ApplicationRows(apps ...models.Application) *sqlmock.Rows {
	rows := sqlmock.NewRows(ApplicationColumns)
	for _, a := range apps {
		var info driver.Value
		if a.AdditionalInfo != nil {
			info = `{"notes":"` + a.AdditionalInfo.Notes + `"}`
		}
		var reviewed driver.Value
		if a.ReviewedAt != nil {
			reviewed = *a.ReviewedAt
		}
		summary := models.JobSummary{}
		if a.Job != nil {
			summary = *a.Job
		}
		rows.AddRow(
			a.ID, a.JobID, a.ApplicantID, a.CoverLetter, optional(a.ResumeURL), info,
			string(a.Status), optional(a.AdminNotes), a.AppliedAt, reviewed,
			summary.Title, summary.Company, summary.Location, string(summary.Type), optional(summary.Salary),
		)
	}
	return rows
}

func ProfileRows(profiles ...models.Profile) *sqlmock.Rows {
	rows := sqlmock.NewRows(ProfileColumns)
	for _, p := range profiles {
		rows.AddRow(p.ID, p.Email, optional(p.FullName), optional(p.Phone), string(p.Role), p.CreatedAt)
	}
	return rows
}
