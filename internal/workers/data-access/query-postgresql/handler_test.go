package querypostgresql

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-postgresql/queries"
	"job-board/internal/workers/data-access/query-postgresql/queries/querytest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		mockQuery      func(mock sqlmock.Sqlmock)
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "job details",
			input: &Input{QueryType: string(queries.QueryTypeJobDetails), JobID: "job-1"},
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM jobs WHERE id = \$1`).
					WithArgs("job-1").
					WillReturnRows(querytest.JobRows(querytest.Job("job-1")))
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.RowCount)
				job := output.Data.(*models.Job)
				assert.Equal(t, "Backend Engineer", job.Title)
				assert.Equal(t, 2, job.ApplicationsCount)
			},
		},
		{
			name:  "active jobs",
			input: &Input{QueryType: string(queries.QueryTypeActiveJobs)},
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM jobs WHERE status = \$1`).
					WithArgs("active").
					WillReturnRows(querytest.JobRows(querytest.Job("job-1"), querytest.Job("job-2")))
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 2, output.RowCount)
				assert.Len(t, output.Data.([]models.Job), 2)
			},
		},
		{
			name:  "applications for a job",
			input: &Input{QueryType: string(queries.QueryTypeJobApplications), JobID: "job-1"},
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM job_applications a JOIN jobs j ON j.id = a.job_id WHERE a.job_id = \$1`).
					WithArgs("job-1").
					WillReturnRows(querytest.ApplicationRows(
						querytest.Application("app-1", "job-1", "user-1"),
						querytest.Application("app-2", "job-1", "user-2"),
					))
			},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 2, output.RowCount)
				apps := output.Data.([]models.Application)
				assert.Equal(t, "user-2", apps[1].ApplicantID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mockQuery(mock)

			handler := NewHandler(createTestConfig(), db, createTestLogger(t))
			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))
			assert.NoError(t, mock.ExpectationsWereMet())
			tt.validateOutput(t, output)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		mockQuery func(mock sqlmock.Sqlmock)
		code      errors.ErrorCode
	}{
		{
			name:  "nil input",
			input: nil,
			code:  errors.ErrCodeValidationFailed,
		},
		{
			name:  "unknown query type",
			input: &Input{QueryType: "franchise_details"},
			code:  errors.ErrCodeValidationFailed,
		},
		{
			name:  "missing job id",
			input: &Input{QueryType: string(queries.QueryTypeJobDetails)},
			code:  errors.ErrCodeValidationFailed,
		},
		{
			name:  "no rows",
			input: &Input{QueryType: string(queries.QueryTypeApplicationDetails), ApplicationID: "app-9"},
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE a.id = \$1`).
					WithArgs("app-9").
					WillReturnError(sql.ErrNoRows)
			},
			code: errors.ErrCodeNotFound,
		},
		{
			name:  "malformed id",
			input: &Input{QueryType: string(queries.QueryTypeApplicationDetails), ApplicationID: "not-a-uuid"},
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE a.id = \$1`).
					WithArgs("not-a-uuid").
					WillReturnError(&pq.Error{Code: "22P02"})
			},
			code: errors.ErrCodeNotFound,
		},
		{
			name:  "database error",
			input: &Input{QueryType: string(queries.QueryTypeActiveJobs)},
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM jobs`).
					WillReturnError(stderrors.New("connection refused"))
			},
			code: errors.ErrCodeFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			if tt.mockQuery != nil {
				tt.mockQuery(mock)
			}

			handler := NewHandler(createTestConfig(), db, createTestLogger(t))
			output, err := handler.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.AsStandardError(err).Code)
		})
	}
}

func TestHandler_Execute_NotFoundMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM profiles`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(querytest.ProfileColumns))

	handler := NewHandler(createTestConfig(), db, createTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{
		QueryType: string(queries.QueryTypeApplicantProfile),
		UserID:    "ghost",
	})

	stdErr := errors.AsStandardError(err)
	assert.Equal(t, "Profile not found", stdErr.Message)
	assert.Equal(t, "profile", stdErr.Metadata["resource"])
}
