// internal/workers/application/notify-applicant/handler.go
package notifyapplicant

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	commonaws "job-board/internal/common/aws"
	"job-board/internal/common/camunda"
	"job-board/internal/common/database"
	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-applicant"
)

type Handler struct {
	config       *Config
	db           *sql.DB
	sesClient    commonaws.SESService
	snsClient    commonaws.SNSService
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, sesClient commonaws.SESService, snsClient commonaws.SNSService, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		sesClient:    sesClient,
		snsClient:    snsClient,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewValidationFailedError(err.Error()))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
	}
}

// HandleEvent notifies the applicant of an application.reviewed event.
func (h *Handler) HandleEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.ApplicationReviewed {
		return nil
	}

	var input Input
	if err := event.Decode(&input); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	_, err := h.execute(ctx, &input)
	return err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.ApplicationID == "" {
		return nil, errors.NewValidationFailedError("applicationId is required")
	}

	app, err := queries.GetApplication(ctx, h.db, input.ApplicationID)
	if database.IsMissing(err) {
		return nil, errors.NewNotFoundError("application", input.ApplicationID)
	}
	if err != nil {
		return nil, errors.NewFetchFailedError("application", err)
	}

	status := input.Status
	if status == "" {
		status = app.Status
	}
	tmpl, ok := templates[status]
	if !ok {
		return nil, errors.NewValidationFailedError(fmt.Sprintf("no template for status %q", status))
	}

	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	profile, err := queries.GetProfile(ctx, h.db, app.ApplicantID)
	if stderrors.Is(err, sql.ErrNoRows) {
		h.logger.Warn("recipient not found", map[string]interface{}{"applicantId": app.ApplicantID})
		return &Output{NotificationID: notificationID, Status: StatusDisabled, SentAt: sentAt}, nil
	}
	if err != nil {
		return nil, errors.NewFetchFailedError("profile", err)
	}

	data := map[string]interface{}{
		"name":          displayName(profile),
		"applicationId": app.ID,
		"status":        string(status),
		"notes":         input.AdminNotes,
	}
	if app.Job != nil {
		data["jobTitle"] = app.Job.Title
		data["company"] = app.Job.Company
	}

	out := &Output{NotificationID: notificationID, Status: StatusDisabled, SentAt: sentAt}

	if h.config.EmailEnabled && profile.Email != "" {
		if err := h.sendEmail(ctx, profile.Email, renderTemplate(tmpl.Subject, data), renderTemplate(tmpl.Body, data)); err != nil {
			return nil, errors.NewNotificationSendFailedError("email", err)
		}
		out.EmailSent = true
	}

	if h.config.SMSEnabled && profile.Phone != "" {
		if err := h.sendSMS(ctx, profile.Phone, renderTemplate(tmpl.SMS, data)); err != nil {
			return nil, errors.NewNotificationSendFailedError("sms", err)
		}
		out.SMSSent = true
	}

	if out.EmailSent || out.SMSSent {
		out.Status = StatusSent
	}

	h.logger.Info("applicant notified", map[string]interface{}{
		"applicationId":  app.ID,
		"notificationId": notificationID,
		"status":         out.Status,
		"emailSent":      out.EmailSent,
		"smsSent":        out.SMSSent,
	})

	return out, nil
}

func displayName(p *models.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if h.config.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(h.config.SenderID)},
		}
	}
	_, err := h.snsClient.Publish(ctx, input)
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
