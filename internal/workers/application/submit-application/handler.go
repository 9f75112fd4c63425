// internal/workers/application/submit-application/handler.go
package submitapplication

import (
	"context"
	"database/sql"
	"time"

	"job-board/internal/common/camunda"
	"job-board/internal/common/database"
	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/common/metrics"
	"job-board/internal/models"
	validateapplicationdata "job-board/internal/workers/application/validate-application-data"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "submit-application"
)

type Handler struct {
	config       *Config
	db           *sql.DB
	publisher    events.Publisher
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, db *sql.DB, publisher events.Publisher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		publisher:    publisher,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
		now:          time.Now,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationFailedError("input cannot be nil")
	}
	if input.ApplicantID == "" {
		return nil, errors.NewUnauthenticatedError("applicant is not signed in")
	}
	if input.JobID == "" {
		return nil, errors.NewValidationFailedError("jobId is required")
	}

	form, errs := validateapplicationdata.Validate(validateapplicationdata.Input{
		CoverLetter: input.CoverLetter,
		ResumeURL:   input.ResumeURL,
		Notes:       input.AdditionalInfo,
	})
	if len(errs) > 0 {
		return nil, errors.NewValidationFailedError(validateapplicationdata.Summary(errs)).
			WithMetadata("errors", errs)
	}

	job, err := queries.GetJob(ctx, h.db, input.JobID)
	if database.IsMissing(err) {
		return nil, errors.NewNotFoundError("job", input.JobID)
	}
	if err != nil {
		return nil, errors.NewFetchFailedError("job", err)
	}
	if !job.IsActive() {
		return nil, errors.NewNotFoundError("job", input.JobID)
	}

	// Refuse before any write when the pair already exists.
	if _, found, err := queries.FindApplicationID(ctx, h.db, input.JobID, input.ApplicantID); err != nil {
		return nil, errors.NewFetchFailedError("application", err)
	} else if found {
		return nil, errors.NewDuplicateApplicationError(input.JobID, input.ApplicantID)
	}

	app := &models.Application{
		ID:          uuid.New().String(),
		JobID:       input.JobID,
		ApplicantID: input.ApplicantID,
		CoverLetter: form.CoverLetter,
		ResumeURL:   form.ResumeURL,
		Status:      models.ApplicationPending,
		AppliedAt:   h.now().UTC(),
	}
	if form.Notes != "" {
		app.AdditionalInfo = &models.AdditionalInfo{Notes: form.Notes}
	}

	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		if err := queries.InsertApplication(ctx, tx, app); err != nil {
			return err
		}
		return queries.IncrementApplicationsCount(ctx, tx, app.JobID)
	})
	if database.IsUniqueViolation(err) {
		return nil, errors.NewDuplicateApplicationError(input.JobID, input.ApplicantID)
	}
	if err != nil {
		return nil, errors.NewMutationFailedError("submit application", err)
	}

	summary := job.Summary()
	app.Job = &summary

	metrics.ApplicationsSubmitted.Inc()
	h.logger.Info("application submitted", map[string]interface{}{
		"applicationId": app.ID,
		"jobId":         app.JobID,
		"applicantId":   app.ApplicantID,
	})

	if err := queries.InsertAudit(ctx, h.db, string(events.ApplicationSubmitted), "application", app.ID, map[string]interface{}{
		"jobId":       app.JobID,
		"applicantId": app.ApplicantID,
	}); err != nil {
		h.logger.Warn("audit write failed", map[string]interface{}{"error": err, "applicationId": app.ID})
	}

	events.Emit(ctx, h.publisher, h.logger, events.ApplicationSubmitted, app)

	return &Output{
		ApplicationID:     app.ID,
		ApplicationStatus: app.Status,
		AppliedAt:         app.AppliedAt,
		Application:       app,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
