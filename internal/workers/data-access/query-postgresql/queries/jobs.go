// internal/workers/data-access/query-postgresql/queries/jobs.go
package queries

import (
	"context"
	"database/sql"
	"fmt"

	"job-board/internal/models"

	"github.com/lib/pq"
)

const jobColumns = `id, title, company, location, type, salary, description,
		requirements, benefits, tags, status, applications_count, created_at, posted_by`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row scanner) (*models.Job, error) {
	var (
		job                          models.Job
		salary, postedBy             sql.NullString
		requirements, benefits, tags pq.StringArray
	)

	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Type, &salary, &job.Description,
		&requirements, &benefits, &tags, &job.Status, &job.ApplicationsCount, &job.CreatedAt, &postedBy,
	)
	if err != nil {
		return nil, err
	}

	job.Salary = salary.String
	job.PostedBy = postedBy.String
	job.Requirements = nonNil(requirements)
	job.Benefits = nonNil(benefits)
	job.Tags = nonNil(tags)
	return &job, nil
}

func nonNil(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

// GetJob loads one job. A missing id returns sql.ErrNoRows.
func GetJob(ctx context.Context, q Querier, id string) (*models.Job, error) {
	row := q.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

// ListJobs returns jobs newest first. Inactive jobs are only included on request.
func ListJobs(ctx context.Context, q Querier, includeInactive bool) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var args []interface{}
	if !includeInactive {
		query += ` WHERE status = $1`
		args = append(args, models.JobStatusActive)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func InsertJob(ctx context.Context, q Querier, job *models.Job) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO jobs (
			id, title, company, location, type, salary, description,
			requirements, benefits, tags, status, applications_count, created_at, posted_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		job.ID, job.Title, job.Company, job.Location, job.Type, nullString(job.Salary), job.Description,
		pq.Array(job.Requirements), pq.Array(job.Benefits), pq.Array(job.Tags),
		job.Status, job.ApplicationsCount, job.CreatedAt, nullString(job.PostedBy),
	)
	return err
}

// UpdateJob overwrites the editable columns of a job. The id, counter,
// creation time and poster are kept.
func UpdateJob(ctx context.Context, q Querier, job *models.Job) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE jobs SET
			title = $2, company = $3, location = $4, type = $5, salary = $6, description = $7,
			requirements = $8, benefits = $9, tags = $10, status = $11
		WHERE id = $1`,
		job.ID, job.Title, job.Company, job.Location, job.Type, nullString(job.Salary), job.Description,
		pq.Array(job.Requirements), pq.Array(job.Benefits), pq.Array(job.Tags), job.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteJob removes a job and, through the foreign key, its applications.
func DeleteJob(ctx context.Context, q Querier, id string) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func IncrementApplicationsCount(ctx context.Context, q Querier, jobID string) error {
	_, err := q.ExecContext(ctx, `UPDATE jobs SET applications_count = applications_count + 1 WHERE id = $1`, jobID)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
