// internal/workers/jobs/create-job/handler.go
package createjob

import (
	"context"
	"database/sql"
	"time"

	"job-board/internal/common/camunda"
	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "create-job"
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

	if result := Validate(input); !result.Valid {
		return nil, errors.NewValidationFailedError(result.Summary()).
			WithMetadata("errors", result.Errors)
	}

	job := &models.Job{
		ID:                uuid.New().String(),
		Title:             input.Title,
		Company:           input.Company,
		Location:          input.Location,
		Type:              models.JobType(input.Type),
		Salary:            input.Salary,
		Description:       input.Description,
		Requirements:      orEmpty(input.Requirements),
		Benefits:          orEmpty(input.Benefits),
		Tags:              orEmpty(input.Tags),
		Status:            models.JobStatusActive,
		ApplicationsCount: 0,
		CreatedAt:         h.now().UTC(),
		PostedBy:          input.PostedBy,
	}

	if err := queries.InsertJob(ctx, h.db, job); err != nil {
		return nil, errors.NewMutationFailedError("create job", err)
	}

	h.logger.Info("job created", map[string]interface{}{
		"jobId":    job.ID,
		"postedBy": job.PostedBy,
	})

	if err := queries.InsertAudit(ctx, h.db, string(events.JobCreated), "job", job.ID, map[string]interface{}{
		"title":    job.Title,
		"postedBy": job.PostedBy,
	}); err != nil {
		h.logger.Warn("audit write failed", map[string]interface{}{"error": err})
	}

	events.Emit(ctx, h.publisher, h.logger, events.JobCreated, job)

	return &Output{
		JobID: job.ID,
		Job:   job,
	}, nil
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
