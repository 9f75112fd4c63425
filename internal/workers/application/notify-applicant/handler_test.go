package notifyapplicant

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
	"job-board/internal/workers/data-access/query-postgresql/queries/querytest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Mock AWS Services
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

const (
	applicationQuery = `SELECT (.+) FROM job_applications a JOIN jobs j ON j.id = a.job_id WHERE a.id = \$1`
	profileQuery     = `SELECT (.+) FROM profiles WHERE id = \$1`
)

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@jobboard.example",
		SenderID:     "JobBoard",
		Timeout:      5 * time.Second,
	}
}

type sent struct {
	emails []*ses.SendEmailInput
	sms    []*sns.PublishInput
}

func setup(t *testing.T, cfg *Config, sesErr, snsErr error) (*Handler, sqlmock.Sqlmock, *sent) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := &sent{}
	sesClient := &MockSESService{SendEmailFunc: func(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		s.emails = append(s.emails, in)
		return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, sesErr
	}}
	snsClient := &MockSNSService{PublishFunc: func(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
		s.sms = append(s.sms, in)
		return &sns.PublishOutput{MessageId: aws.String("sms-1")}, snsErr
	}}

	h := NewHandler(cfg, db, sesClient, snsClient, logger.NewZapAdapter(zaptest.NewLogger(t)))
	return h, mock, s
}

func expectApplication(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(applicationQuery).
		WithArgs("app-1").
		WillReturnRows(querytest.ApplicationRows(querytest.Application("app-1", "job-1", "user-1")))
}

func expectProfile(mock sqlmock.Sqlmock, phone string) {
	mock.ExpectQuery(profileQuery).
		WithArgs("user-1").
		WillReturnRows(querytest.ProfileRows(models.Profile{
			ID:        "user-1",
			Email:     "jane@example.com",
			FullName:  "Jane Doe",
			Phone:     phone,
			Role:      models.RoleRegular,
			CreatedAt: querytest.Created,
		}))
}

// ==========================
// Delivery Tests
// ==========================

func TestHandler_Execute_EmailAndSMS(t *testing.T) {
	handler, mock, s := setup(t, createTestConfig(), nil, nil)
	expectApplication(mock)
	expectProfile(mock, "+15551234567")

	out, err := handler.Execute(context.Background(), &Input{
		ApplicationID: "app-1",
		Status:        models.ApplicationApproved,
		AdminNotes:    "Expect a call on Monday.",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.True(t, out.EmailSent)
	assert.True(t, out.SMSSent)
	assert.NotEmpty(t, out.NotificationID)

	require.Len(t, s.emails, 1)
	email := s.emails[0]
	assert.Equal(t, []string{"jane@example.com"}, email.Destination.ToAddresses)
	assert.Equal(t, "noreply@jobboard.example", *email.Source)
	assert.Equal(t, "Your application for Backend Engineer at Acme", *email.Message.Subject.Data)
	assert.Contains(t, *email.Message.Body.Text.Data, "Hello Jane Doe")
	assert.Contains(t, *email.Message.Body.Text.Data, "has been approved")
	assert.Contains(t, *email.Message.Body.Text.Data, "Expect a call on Monday.")

	require.Len(t, s.sms, 1)
	assert.Equal(t, "+15551234567", *s.sms[0].PhoneNumber)
	assert.Equal(t, "JobBoard", *s.sms[0].MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NoPhoneSkipsSMS(t *testing.T) {
	handler, mock, s := setup(t, createTestConfig(), nil, nil)
	expectApplication(mock)
	expectProfile(mock, "")

	out, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-1", Status: models.ApplicationRejected})
	require.NoError(t, err)
	assert.True(t, out.EmailSent)
	assert.False(t, out.SMSSent)
	assert.Empty(t, s.sms)
}

func TestHandler_Execute_ChannelsDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false

	handler, mock, s := setup(t, cfg, nil, nil)
	expectApplication(mock)
	expectProfile(mock, "+15551234567")

	out, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, s.emails)
}

func TestHandler_Execute_MissingRecipient(t *testing.T) {
	handler, mock, s := setup(t, createTestConfig(), nil, nil)
	expectApplication(mock)
	mock.ExpectQuery(profileQuery).WillReturnError(sql.ErrNoRows)

	out, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-1", Status: models.ApplicationApproved})
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, s.emails)
}

// ==========================
// Error Tests
// ==========================

func TestHandler_Execute_SendFailure(t *testing.T) {
	handler, mock, _ := setup(t, createTestConfig(), stderrors.New("throttled"), nil)
	expectApplication(mock)
	expectProfile(mock, "")

	_, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-1", Status: models.ApplicationApproved})
	stdErr := errors.AsStandardError(err)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_UnknownApplication(t *testing.T) {
	handler, mock, _ := setup(t, createTestConfig(), nil, nil)
	mock.ExpectQuery(applicationQuery).WillReturnError(sql.ErrNoRows)

	_, err := handler.Execute(context.Background(), &Input{ApplicationID: "app-404"})
	assert.Equal(t, errors.ErrCodeNotFound, errors.AsStandardError(err).Code)

	mock.ExpectQuery(applicationQuery).WithArgs("not-a-uuid").WillReturnError(&pq.Error{Code: "22P02"})
	_, err = handler.Execute(context.Background(), &Input{ApplicationID: "not-a-uuid"})
	assert.Equal(t, errors.ErrCodeNotFound, errors.AsStandardError(err).Code)

	_, err = handler.Execute(context.Background(), &Input{})
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.AsStandardError(err).Code)
}

func TestHandler_HandleEvent(t *testing.T) {
	handler, mock, s := setup(t, createTestConfig(), nil, nil)
	expectApplication(mock)
	expectProfile(mock, "")

	event, err := events.New(events.ApplicationReviewed, map[string]string{"applicationId": "app-1", "status": "approved"})
	require.NoError(t, err)
	require.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Len(t, s.emails, 1)

	other, err := events.New(events.JobCreated, map[string]string{})
	require.NoError(t, err)
	assert.NoError(t, handler.HandleEvent(context.Background(), other))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("Hi {{name}}, about {{jobTitle}}. {{missing}}", map[string]interface{}{
		"name":     "Jane",
		"jobTitle": "SRE",
	})
	assert.Equal(t, "Hi Jane, about SRE.", got)
}
