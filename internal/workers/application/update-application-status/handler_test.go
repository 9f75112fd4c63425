package updateapplicationstatus

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Test Helper Functions
// ==========================

const updateQuery = `UPDATE job_applications a SET status = \$2, admin_notes = \$3, reviewed_at = \$4`

var fixedNow = time.Date(2024, 6, 2, 8, 30, 0, 0, time.UTC)

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

type mockMessages struct {
	mock.Mock
}

func (m *mockMessages) PublishMessage(ctx context.Context, name, key string, vars interface{}) error {
	return m.Called(ctx, name, key, vars).Error(0)
}

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock, *recorder) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := &recorder{}
	h := NewHandler(&Config{Timeout: 5 * time.Second}, db, rec, logger.NewZapAdapter(zaptest.NewLogger(t)))
	h.now = func() time.Time { return fixedNow }
	return h, sqlMock, rec
}

func returnsPrevious(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"status"}).AddRow(status)
}

// ==========================
// Status Update Tests
// ==========================

func TestHandler_Execute_StatusChange(t *testing.T) {
	handler, sqlMock, rec := setup(t)

	sqlMock.ExpectQuery(updateQuery).
		WithArgs("app-1", "approved", "Strong profile", fixedNow).
		WillReturnRows(returnsPrevious("pending"))
	sqlMock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		Status:        models.ApplicationApproved,
		AdminNotes:    "Strong profile",
		ReviewedBy:    "admin-1",
	})
	require.NoError(t, err)

	assert.True(t, out.StatusChanged)
	assert.Equal(t, models.ApplicationPending, out.PreviousStatus)
	assert.Equal(t, fixedNow, out.ReviewedAt)

	require.Len(t, rec.events, 1)
	assert.Equal(t, events.ApplicationReviewed, rec.events[0].Type)

	var payload ReviewedEvent
	require.NoError(t, rec.events[0].Decode(&payload))
	assert.Equal(t, "app-1", payload.ApplicationID)
	assert.Equal(t, models.ApplicationApproved, payload.Status)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestHandler_Execute_SameStatusRefreshesReviewTime(t *testing.T) {
	handler, sqlMock, rec := setup(t)

	// absent notes clear the stored ones
	sqlMock.ExpectQuery(updateQuery).
		WithArgs("app-1", "rejected", nil, fixedNow).
		WillReturnRows(returnsPrevious("rejected"))
	sqlMock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-1", Status: models.ApplicationRejected})
	require.NoError(t, err)

	assert.False(t, out.StatusChanged)
	assert.Equal(t, fixedNow, out.ReviewedAt)
	assert.Empty(t, rec.events)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestHandler_Execute_AnyTransitionAllowed(t *testing.T) {
	transitions := [][2]models.ApplicationStatus{
		{models.ApplicationApproved, models.ApplicationPending},
		{models.ApplicationRejected, models.ApplicationApproved},
		{models.ApplicationApproved, models.ApplicationRejected},
	}

	for _, tr := range transitions {
		t.Run(string(tr[0])+"->"+string(tr[1]), func(t *testing.T) {
			handler, sqlMock, _ := setup(t)
			sqlMock.ExpectQuery(updateQuery).WillReturnRows(returnsPrevious(string(tr[0])))
			sqlMock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(0, 1))

			out, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-1", Status: tr[1]})
			require.NoError(t, err)
			assert.True(t, out.StatusChanged)
		})
	}
}

func TestHandler_Execute_CorrelatesMessage(t *testing.T) {
	handler, sqlMock, _ := setup(t)
	messages := &mockMessages{}
	handler.WithMessages(messages)

	messages.On("PublishMessage", mock.Anything, MessageName, "app-1", mock.AnythingOfType("ReviewedEvent")).
		Return(stderrors.New("zeebe unavailable"))

	sqlMock.ExpectQuery(updateQuery).WillReturnRows(returnsPrevious("pending"))
	sqlMock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(0, 1))

	// a failed correlation does not fail the review
	_, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-1", Status: models.ApplicationApproved})
	require.NoError(t, err)
	messages.AssertExpectations(t)
}

// ==========================
// Error Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		setupMock func(sqlmock.Sqlmock)
		code      errors.ErrorCode
	}{
		{
			name:  "missing id",
			input: &Input{Status: models.ApplicationApproved},
			code:  errors.ErrCodeValidationFailed,
		},
		{
			name:  "unknown status",
			input: &Input{ApplicationID: "app-1", Status: "archived"},
			code:  errors.ErrCodeValidationFailed,
		},
		{
			name:  "no such application",
			input: &Input{ApplicationID: "app-404", Status: models.ApplicationApproved},
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(updateQuery).WillReturnError(sql.ErrNoRows)
			},
			code: errors.ErrCodeNotFound,
		},
		{
			name:  "malformed id",
			input: &Input{ApplicationID: "not-a-uuid", Status: models.ApplicationApproved},
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(updateQuery).WillReturnError(&pq.Error{Code: "22P02"})
			},
			code: errors.ErrCodeNotFound,
		},
		{
			name:  "backend rejects",
			input: &Input{ApplicationID: "app-1", Status: models.ApplicationApproved},
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(updateQuery).WillReturnError(stderrors.New("permission denied for table"))
			},
			code: errors.ErrCodeMutationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, sqlMock, rec := setup(t)
			if tt.setupMock != nil {
				tt.setupMock(sqlMock)
			}

			_, err := handler.Execute(context.Background(), tt.input)
			assert.Equal(t, tt.code, errors.AsStandardError(err).Code)
			assert.Empty(t, rec.events)
			assert.NoError(t, sqlMock.ExpectationsWereMet())
		})
	}
}
