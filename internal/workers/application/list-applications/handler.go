// internal/workers/application/list-applications/handler.go
package listapplications

import (
	"context"
	"database/sql"

	"job-board/internal/common/camunda"
	"job-board/internal/common/database"
	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-applications"
)

// Handler lists applications for admin review. Callers are expected to
// have passed the admin role guard.
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
	if input == nil {
		input = &Input{}
	}

	apps, err := queries.ListApplications(ctx, h.db, queries.ApplicationFilter{JobID: input.JobID})
	if database.IsInvalidText(err) {
		// a malformed job id scopes to nothing
		return &Output{Applications: []models.Application{}}, nil
	}
	if err != nil {
		return nil, errors.NewFetchFailedError("applications", err)
	}

	h.logger.Debug("applications listed", map[string]interface{}{
		"jobId": input.JobID,
		"count": len(apps),
	})

	return &Output{Applications: apps, Total: len(apps)}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
