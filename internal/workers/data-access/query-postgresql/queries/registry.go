// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type QueryType string

const (
	QueryTypeJobDetails         QueryType = "job_details"
	QueryTypeActiveJobs         QueryType = "active_jobs"
	QueryTypeApplicationDetails QueryType = "application_details"
	QueryTypeJobApplications    QueryType = "job_applications"
	QueryTypeApplicantProfile   QueryType = "applicant_profile"
)

// QueryFunc returns: data, rowCount, error
type QueryFunc func(ctx context.Context, db *sql.DB, params map[string]string) (interface{}, int, error)

var Registry = map[QueryType]QueryFunc{
	QueryTypeJobDetails: func(ctx context.Context, db *sql.DB, p map[string]string) (interface{}, int, error) {
		if p["jobId"] == "" {
			return nil, 0, fmt.Errorf("%w: jobId", ErrMissingParam)
		}
		job, err := GetJob(ctx, db, p["jobId"])
		if err != nil {
			return nil, 0, err
		}
		return job, 1, nil
	},
	QueryTypeActiveJobs: func(ctx context.Context, db *sql.DB, p map[string]string) (interface{}, int, error) {
		jobs, err := ListJobs(ctx, db, false)
		return jobs, len(jobs), err
	},
	QueryTypeApplicationDetails: func(ctx context.Context, db *sql.DB, p map[string]string) (interface{}, int, error) {
		if p["applicationId"] == "" {
			return nil, 0, fmt.Errorf("%w: applicationId", ErrMissingParam)
		}
		app, err := GetApplication(ctx, db, p["applicationId"])
		if err != nil {
			return nil, 0, err
		}
		return app, 1, nil
	},
	QueryTypeJobApplications: func(ctx context.Context, db *sql.DB, p map[string]string) (interface{}, int, error) {
		apps, err := ListApplications(ctx, db, ApplicationFilter{JobID: p["jobId"], ApplicantID: p["userId"]})
		return apps, len(apps), err
	},
	QueryTypeApplicantProfile: func(ctx context.Context, db *sql.DB, p map[string]string) (interface{}, int, error) {
		if p["userId"] == "" {
			return nil, 0, fmt.Errorf("%w: userId", ErrMissingParam)
		}
		profile, err := GetProfile(ctx, db, p["userId"])
		if err != nil {
			return nil, 0, err
		}
		return profile, 1, nil
	},
}

// Execute runs a registered query and reports its duration in milliseconds.
func Execute(ctx context.Context, db *sql.DB, queryType QueryType, params map[string]string) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	start := time.Now()
	data, n, err := fn(ctx, db, params)
	return data, n, time.Since(start).Milliseconds(), err
}
