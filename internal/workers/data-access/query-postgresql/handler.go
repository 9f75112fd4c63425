// internal/workers/data-access/query-postgresql/handler.go
package querypostgresql

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"job-board/internal/common/camunda"
	"job-board/internal/common/database"
	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "query-postgresql"
)

// Handler runs read-only registered queries for BPMN gateways that need
// job, application or profile data without a dedicated worker.
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
		return nil, errors.NewValidationFailedError("input cannot be nil")
	}

	queryType := queries.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, errors.NewValidationFailedError(fmt.Sprintf("unknown query type %q", input.QueryType))
	}

	params := map[string]string{
		"jobId":         input.JobID,
		"applicationId": input.ApplicationID,
		"userId":        input.UserID,
	}

	data, rowCount, execTime, err := queries.Execute(ctx, h.db, queryType, params)
	switch {
	case err == nil:
	case stderrors.Is(err, queries.ErrMissingParam):
		return nil, errors.NewValidationFailedError(err.Error())
	case database.IsMissing(err):
		return nil, errors.NewNotFoundError(resourceFor(queryType), firstNonEmpty(input.JobID, input.ApplicationID, input.UserID))
	case ctx.Err() == context.DeadlineExceeded:
		return nil, errors.NewTimeoutError("postgres", err)
	default:
		return nil, errors.NewFetchFailedError(string(queryType), err)
	}

	h.logger.Debug("query executed", map[string]interface{}{
		"queryType":  queryType,
		"rowCount":   rowCount,
		"durationMs": execTime,
	})

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
}

func resourceFor(q queries.QueryType) string {
	switch q {
	case queries.QueryTypeApplicationDetails:
		return "application"
	case queries.QueryTypeApplicantProfile:
		return "profile"
	default:
		return "job"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
