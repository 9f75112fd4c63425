package listmyapplications

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-postgresql/queries/querytest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const listQuery = `SELECT (.+) FROM job_applications a JOIN jobs j ON j.id = a.job_id WHERE a.applicant_id = \$1 ORDER BY a.applied_at DESC`

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(&Config{Timeout: 5 * time.Second}, db, logger.NewZapAdapter(zaptest.NewLogger(t))), mock
}

func TestHandler_Execute(t *testing.T) {
	handler, mock := setup(t)

	reviewedAt := querytest.Created.Add(48 * time.Hour)
	approved := querytest.Application("app-2", "job-2", "user-1")
	approved.Status = models.ApplicationApproved
	approved.AdminNotes = "Welcome aboard"
	approved.ReviewedAt = &reviewedAt
	pending := querytest.Application("app-1", "job-1", "user-1")

	mock.ExpectQuery(listQuery).
		WithArgs("user-1").
		WillReturnRows(querytest.ApplicationRows(approved, pending))

	out, err := handler.Execute(context.Background(), &Input{ApplicantID: "user-1"})
	require.NoError(t, err)

	require.Equal(t, 2, out.Total)
	assert.Equal(t, Counts{Pending: 1, Approved: 1}, out.Counts)

	first := out.Applications[0]
	assert.Equal(t, "app-2", first.ID)
	assert.Equal(t, "Welcome aboard", first.AdminNotes)
	assert.Equal(t, "job-2", first.Job.ID)
	assert.Equal(t, "Backend Engineer", first.Job.Title)
	assert.Equal(t, "$120k - $150k", first.Job.Salary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Empty(t *testing.T) {
	handler, mock := setup(t)
	mock.ExpectQuery(listQuery).WillReturnRows(querytest.ApplicationRows())

	out, err := handler.Execute(context.Background(), &Input{ApplicantID: "user-1"})
	require.NoError(t, err)
	assert.NotNil(t, out.Applications)
	assert.Zero(t, out.Total)
}

func TestHandler_Execute_Errors(t *testing.T) {
	handler, mock := setup(t)

	_, err := handler.Execute(context.Background(), &Input{})
	assert.Equal(t, errors.ErrCodeUnauthenticated, errors.AsStandardError(err).Code)

	mock.ExpectQuery(listQuery).WillReturnError(stderrors.New("connection refused"))
	_, err = handler.Execute(context.Background(), &Input{ApplicantID: "user-1"})
	assert.Equal(t, errors.ErrCodeFetchFailed, errors.AsStandardError(err).Code)
}
