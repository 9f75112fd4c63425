// internal/workers/jobs/delete-job/handler.go
package deletejob

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
	TaskType = "delete-job"
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

// execute deletes the job. Its applications go with it through ON DELETE CASCADE.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.JobID) == "" {
		return nil, errors.NewValidationFailedError("jobId is required")
	}

	affected, err := queries.DeleteJob(ctx, h.db, input.JobID)
	if database.IsInvalidText(err) {
		return nil, errors.NewNotFoundError("job", input.JobID)
	}
	if err != nil {
		return nil, errors.NewMutationFailedError("delete job", err)
	}
	if affected == 0 {
		return nil, errors.NewNotFoundError("job", input.JobID)
	}

	h.logger.Info("job deleted", map[string]interface{}{
		"jobId":     input.JobID,
		"deletedBy": input.DeletedBy,
	})

	if err := queries.InsertAudit(ctx, h.db, string(events.JobDeleted), "job", input.JobID, map[string]interface{}{
		"deletedBy": input.DeletedBy,
	}); err != nil {
		h.logger.Warn("audit write failed", map[string]interface{}{"error": err})
	}

	events.Emit(ctx, h.publisher, h.logger, events.JobDeleted, DeletedEvent{
		JobID:     input.JobID,
		DeletedBy: input.DeletedBy,
	})

	return &Output{JobID: input.JobID, Deleted: true}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
