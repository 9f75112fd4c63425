// internal/workers/jobs/get-job/handler.go
package getjob

import (
	"context"
	"database/sql"
	"strings"

	"job-board/internal/common/camunda"
	"job-board/internal/common/database"
	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-job"
)

type Handler struct {
	config       *Config
	db           *sql.DB
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.JobID) == "" {
		return nil, errors.NewValidationFailedError("jobId is required")
	}

	job, err := queries.GetJob(ctx, h.db, input.JobID)
	if database.IsMissing(err) {
		return nil, errors.NewNotFoundError("job", input.JobID)
	}
	if err != nil {
		return nil, errors.NewFetchFailedError("job", err)
	}

	// inactive listings are hidden from the public
	if !job.IsActive() && !input.IncludeInactive {
		return nil, errors.NewNotFoundError("job", input.JobID)
	}

	output := &Output{Job: job}
	if input.UserID == "" {
		return output, nil
	}

	id, found, err := queries.FindApplicationID(ctx, h.db, job.ID, input.UserID)
	if err != nil {
		// the listing is still useful without the flag
		h.logger.Warn("application lookup failed", map[string]interface{}{
			"jobId": job.ID,
			"error": err,
		})
		return output, nil
	}
	output.HasApplied = found
	output.ApplicationID = id
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
