package updateapplicationstatus

import (
	"context"
	"testing"
	"time"

	"job-board/internal/common/errors"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-postgresql/queries/querytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUpdater struct {
	mock.Mock
}

func (m *mockUpdater) Execute(ctx context.Context, input *Input) (*Output, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*Output)
	return out, args.Error(1)
}

func newBoard(updater Updater) *ReviewBoard {
	first := querytest.Application("app-1", "job-1", "user-1")
	first.AdminNotes = "Call back"
	second := querytest.Application("app-2", "job-1", "user-2")
	return NewReviewBoard(updater, []models.Application{first, second})
}

func TestReviewBoard_AppliesAfterConfirmation(t *testing.T) {
	updater := &mockUpdater{}
	board := newBoard(updater)
	reviewedAt := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	input := &Input{ApplicationID: "app-1", Status: models.ApplicationApproved, AdminNotes: "Hire"}
	updater.On("Execute", mock.Anything, input).Return(&Output{
		ApplicationID:  "app-1",
		Status:         models.ApplicationApproved,
		PreviousStatus: models.ApplicationPending,
		StatusChanged:  true,
		AdminNotes:     "Hire",
		ReviewedAt:     reviewedAt,
	}, nil)

	_, err := board.UpdateStatus(context.Background(), input)
	require.NoError(t, err)

	got, ok := board.Get("app-1")
	require.True(t, ok)
	assert.Equal(t, models.ApplicationApproved, got.Status)
	assert.Equal(t, "Hire", got.AdminNotes)
	assert.Equal(t, reviewedAt, *got.ReviewedAt)

	untouched, _ := board.Get("app-2")
	assert.Equal(t, models.ApplicationPending, untouched.Status)
	updater.AssertExpectations(t)
}

func TestReviewBoard_FailureLeavesListUnchanged(t *testing.T) {
	updater := &mockUpdater{}
	board := newBoard(updater)
	before := board.Applications()

	updater.On("Execute", mock.Anything, mock.Anything).
		Return(nil, errors.NewMutationFailedError("update application status", assert.AnError))

	_, err := board.UpdateStatus(context.Background(), &Input{ApplicationID: "app-1", Status: models.ApplicationRejected})
	assert.Equal(t, errors.ErrCodeMutationFailed, errors.AsStandardError(err).Code)
	assert.Equal(t, before, board.Applications())
}

func TestReviewBoard_UnknownApplication(t *testing.T) {
	updater := &mockUpdater{}
	board := newBoard(updater)

	_, err := board.UpdateStatus(context.Background(), &Input{ApplicationID: "app-9", Status: models.ApplicationRejected})
	assert.Equal(t, errors.ErrCodeNotFound, errors.AsStandardError(err).Code)
	updater.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestReviewBoard_ApplicationsIsACopy(t *testing.T) {
	board := newBoard(&mockUpdater{})

	apps := board.Applications()
	apps[0].Status = models.ApplicationRejected

	got, _ := board.Get("app-1")
	assert.Equal(t, models.ApplicationPending, got.Status)
}
