// internal/workers/jobs/update-job/handler.go
package updatejob

import (
	"context"
	"database/sql"
	"strings"

	"job-board/internal/common/camunda"
	"job-board/internal/common/database"
	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-job"
)

type Handler struct {
	config       *Config
	db           *sql.DB
	publisher    events.Publisher
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, publisher events.Publisher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		publisher:    publisher,
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

// execute applies a partial edit. Setting status to inactive takes the job
// out of the public listing without touching its applications.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.JobID) == "" {
		return nil, errors.NewValidationFailedError("jobId is required")
	}
	if input.empty() {
		return nil, errors.NewValidationFailedError("no fields to update")
	}

	job, err := queries.GetJob(ctx, h.db, input.JobID)
	if database.IsMissing(err) {
		return nil, errors.NewNotFoundError("job", input.JobID)
	}
	if err != nil {
		return nil, errors.NewFetchFailedError("job", err)
	}

	previous := job.Status
	changed := apply(job, input)
	if changed == nil {
		changed = []string{}
	}

	if result := Validate(job); !result.Valid {
		return nil, errors.NewValidationFailedError(result.Summary()).
			WithMetadata("errors", result.Errors)
	}

	output := &Output{JobID: job.ID, Job: job, Changed: changed, PreviousStatus: previous}
	if len(changed) == 0 {
		return output, nil
	}

	affected, err := queries.UpdateJob(ctx, h.db, job)
	if err != nil {
		return nil, errors.NewMutationFailedError("update job", err)
	}
	if affected == 0 {
		// deleted since it was read
		return nil, errors.NewNotFoundError("job", input.JobID)
	}

	h.logger.Info("job updated", map[string]interface{}{
		"jobId":     job.ID,
		"changed":   changed,
		"status":    string(job.Status),
		"updatedBy": input.UpdatedBy,
	})

	if err := queries.InsertAudit(ctx, h.db, string(events.JobUpdated), "job", job.ID, map[string]interface{}{
		"changed":   changed,
		"updatedBy": input.UpdatedBy,
	}); err != nil {
		h.logger.Warn("audit write failed", map[string]interface{}{"error": err})
	}

	events.Emit(ctx, h.publisher, h.logger, events.JobUpdated, job)

	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
