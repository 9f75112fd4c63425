package listapplications

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/workers/data-access/query-postgresql/queries/querytest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const listQuery = `SELECT (.+) FROM job_applications a JOIN jobs j ON j.id = a.job_id`

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(&Config{Timeout: 5 * time.Second}, db, logger.NewZapAdapter(zaptest.NewLogger(t))), mock
}

func TestHandler_Execute_All(t *testing.T) {
	handler, mock := setup(t)

	newer := querytest.Application("app-2", "job-2", "user-1")
	newer.AppliedAt = newer.AppliedAt.Add(time.Hour)
	older := querytest.Application("app-1", "job-1", "user-2")

	mock.ExpectQuery(listQuery + ` ORDER BY a.applied_at DESC`).
		WithoutArgs().
		WillReturnRows(querytest.ApplicationRows(newer, older))

	out, err := handler.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	assert.Equal(t, "app-2", out.Applications[0].ID)
	assert.Equal(t, "Acme", out.Applications[1].Job.Company)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ScopedToJob(t *testing.T) {
	handler, mock := setup(t)

	mock.ExpectQuery(listQuery + ` WHERE a.job_id = \$1`).
		WithArgs("job-1").
		WillReturnRows(querytest.ApplicationRows())

	out, err := handler.Execute(context.Background(), &Input{JobID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Total)
	assert.NotNil(t, out.Applications)
}

func TestHandler_Execute_MalformedJobID(t *testing.T) {
	handler, mock := setup(t)
	mock.ExpectQuery(listQuery).
		WithArgs("not-a-uuid").
		WillReturnError(&pq.Error{Code: "22P02"})

	out, err := handler.Execute(context.Background(), &Input{JobID: "not-a-uuid"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Total)
	assert.NotNil(t, out.Applications)
}

func TestHandler_Execute_FetchFailure(t *testing.T) {
	handler, mock := setup(t)
	mock.ExpectQuery(listQuery).WillReturnError(stderrors.New("connection refused"))

	_, err := handler.Execute(context.Background(), &Input{})
	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeFetchFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
