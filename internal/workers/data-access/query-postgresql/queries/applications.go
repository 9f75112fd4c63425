// internal/workers/data-access/query-postgresql/queries/applications.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"job-board/internal/models"
)

const applicationColumns = `a.id, a.job_id, a.applicant_id, a.cover_letter, a.resume_url, a.additional_info,
		a.status, a.admin_notes, a.applied_at, a.reviewed_at,
		j.title, j.company, j.location, j.type, j.salary`

const applicationFrom = ` FROM job_applications a JOIN jobs j ON j.id = a.job_id`

// ApplicationFilter scopes ListApplications. Empty fields match everything.
type ApplicationFilter struct {
	JobID       string
	ApplicantID string
}

func scanApplication(row scanner) (*models.Application, error) {
	var (
		app                   models.Application
		summary               models.JobSummary
		resumeURL, adminNotes sql.NullString
		jobSalary             sql.NullString
		additionalInfo        []byte
		reviewedAt            sql.NullTime
	)

	err := row.Scan(
		&app.ID, &app.JobID, &app.ApplicantID, &app.CoverLetter, &resumeURL, &additionalInfo,
		&app.Status, &adminNotes, &app.AppliedAt, &reviewedAt,
		&summary.Title, &summary.Company, &summary.Location, &summary.Type, &jobSalary,
	)
	if err != nil {
		return nil, err
	}

	app.ResumeURL = resumeURL.String
	app.AdminNotes = adminNotes.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		app.ReviewedAt = &t
	}
	if len(additionalInfo) > 0 && string(additionalInfo) != "null" {
		var info models.AdditionalInfo
		if err := json.Unmarshal(additionalInfo, &info); err == nil {
			app.AdditionalInfo = &info
		}
	}

	summary.ID = app.JobID
	summary.Salary = jobSalary.String
	app.Job = &summary
	return &app, nil
}

func GetApplication(ctx context.Context, q Querier, id string) (*models.Application, error) {
	row := q.QueryRowContext(ctx, `SELECT `+applicationColumns+applicationFrom+` WHERE a.id = $1`, id)
	return scanApplication(row)
}

// ListApplications returns applications newest first with their job summary.
func ListApplications(ctx context.Context, q Querier, filter ApplicationFilter) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + applicationFrom
	var (
		args  []interface{}
		where string
	)
	if filter.JobID != "" {
		args = append(args, filter.JobID)
		where = fmt.Sprintf(" WHERE a.job_id = $%d", len(args))
	}
	if filter.ApplicantID != "" {
		args = append(args, filter.ApplicantID)
		if where == "" {
			where = fmt.Sprintf(" WHERE a.applicant_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND a.applicant_id = $%d", len(args))
		}
	}
	query += where + ` ORDER BY a.applied_at DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// FindApplicationID returns the id of the applicant's application for a job, if any.
func FindApplicationID(ctx context.Context, q Querier, jobID, applicantID string) (string, bool, error) {
	var id string
	err := q.QueryRowContext(ctx, `
		SELECT id FROM job_applications
		WHERE job_id = $1 AND applicant_id = $2
		LIMIT 1`, jobID, applicantID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func InsertApplication(ctx context.Context, q Querier, app *models.Application) error {
	var additionalInfo interface{}
	if app.AdditionalInfo != nil {
		data, err := json.Marshal(app.AdditionalInfo)
		if err != nil {
			return fmt.Errorf("encode additional_info: %w", err)
		}
		additionalInfo = data
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO job_applications (
			id, job_id, applicant_id, cover_letter, resume_url, additional_info, status, applied_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		app.ID, app.JobID, app.ApplicantID, app.CoverLetter, nullString(app.ResumeURL),
		additionalInfo, app.Status, app.AppliedAt,
	)
	return err
}

// UpdateReview overwrites status and notes and stamps reviewed_at.
// It returns the previous status; a missing id returns sql.ErrNoRows.
func UpdateReview(ctx context.Context, q Querier, id string, status models.ApplicationStatus, notes string, reviewedAt time.Time) (models.ApplicationStatus, error) {
	var previous models.ApplicationStatus
	err := q.QueryRowContext(ctx, `
		UPDATE job_applications a
		SET status = $2, admin_notes = $3, reviewed_at = $4
		FROM job_applications prev
		WHERE a.id = $1 AND prev.id = a.id
		RETURNING prev.status`,
		id, status, nullString(notes), reviewedAt,
	).Scan(&previous)
	return previous, err
}
