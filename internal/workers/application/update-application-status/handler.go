// internal/workers/application/update-application-status/handler.go
package updateapplicationstatus

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"job-board/internal/common/camunda"
	"job-board/internal/common/database"
	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/common/metrics"
	"job-board/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-application-status"
)

// MessagePublisher correlates BPMN messages; *camunda.Client satisfies it.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, name, correlationKey string, variables interface{}) error
}

type Handler struct {
	config       *Config
	db           *sql.DB
	publisher    events.Publisher
	messages     MessagePublisher
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

// WithMessages makes status changes also correlate MessageName.
func (h *Handler) WithMessages(m MessagePublisher) *Handler {
	h.messages = m
	return h
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
	if input == nil || input.ApplicationID == "" {
		return nil, errors.NewValidationFailedError("applicationId is required")
	}
	if !input.Status.Valid() {
		return nil, errors.NewValidationFailedError(fmt.Sprintf("invalid status %q", input.Status))
	}

	reviewedAt := h.now().UTC()
	previous, err := queries.UpdateReview(ctx, h.db, input.ApplicationID, input.Status, input.AdminNotes, reviewedAt)
	if database.IsMissing(err) {
		return nil, errors.NewNotFoundError("application", input.ApplicationID)
	}
	if err != nil {
		return nil, errors.NewMutationFailedError("update application status", err)
	}

	out := &Output{
		ApplicationID:  input.ApplicationID,
		Status:         input.Status,
		PreviousStatus: previous,
		StatusChanged:  previous != input.Status,
		AdminNotes:     input.AdminNotes,
		ReviewedAt:     reviewedAt,
	}

	metrics.ApplicationReviews.WithLabelValues(string(out.Status), strconv.FormatBool(out.StatusChanged)).Inc()
	h.logger.Info("application reviewed", map[string]interface{}{
		"applicationId":  out.ApplicationID,
		"status":         string(out.Status),
		"previousStatus": string(out.PreviousStatus),
		"statusChanged":  out.StatusChanged,
	})

	if err := queries.InsertAudit(ctx, h.db, string(events.ApplicationReviewed), "application", out.ApplicationID, map[string]interface{}{
		"status":         out.Status,
		"previousStatus": out.PreviousStatus,
		"reviewedBy":     input.ReviewedBy,
	}); err != nil {
		h.logger.Warn("audit write failed", map[string]interface{}{"error": err, "applicationId": out.ApplicationID})
	}

	if !out.StatusChanged {
		return out, nil
	}

	reviewed := ReviewedEvent{
		ApplicationID:  out.ApplicationID,
		Status:         out.Status,
		PreviousStatus: out.PreviousStatus,
		AdminNotes:     out.AdminNotes,
		ReviewedBy:     input.ReviewedBy,
		ReviewedAt:     out.ReviewedAt,
	}
	events.Emit(ctx, h.publisher, h.logger, events.ApplicationReviewed, reviewed)

	if h.messages != nil {
		if err := h.messages.PublishMessage(ctx, MessageName, out.ApplicationID, reviewed); err != nil {
			h.logger.Warn("failed to correlate review message", map[string]interface{}{
				"applicationId": out.ApplicationID,
				"error":         err.Error(),
			})
		}
	}

	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
