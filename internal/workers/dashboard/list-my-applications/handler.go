// internal/workers/dashboard/list-my-applications/handler.go
package listmyapplications

import (
	"context"
	"database/sql"

	"job-board/internal/common/camunda"
	"job-board/internal/common/errors"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "list-my-applications"
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
	if input == nil || input.ApplicantID == "" {
		return nil, errors.NewUnauthenticatedError("applicant is not signed in")
	}

	apps, err := queries.ListApplications(ctx, h.db, queries.ApplicationFilter{ApplicantID: input.ApplicantID})
	if err != nil {
		return nil, errors.NewFetchFailedError("applications", err)
	}

	out := &Output{Applications: make([]Entry, 0, len(apps)), Total: len(apps)}
	for _, app := range apps {
		entry := Entry{
			ID:         app.ID,
			Status:     app.Status,
			AppliedAt:  app.AppliedAt,
			ReviewedAt: app.ReviewedAt,
			AdminNotes: app.AdminNotes,
		}
		if app.Job != nil {
			entry.Job = *app.Job
		}
		out.Applications = append(out.Applications, entry)

		switch app.Status {
		case models.ApplicationPending:
			out.Counts.Pending++
		case models.ApplicationApproved:
			out.Counts.Approved++
		case models.ApplicationRejected:
			out.Counts.Rejected++
		}
	}

	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
