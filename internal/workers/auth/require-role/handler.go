// internal/workers/auth/require-role/handler.go
package requirerole

import (
	"context"
	"time"

	"job-board/internal/common/camunda"
	"job-board/internal/common/errors"
	"job-board/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "require-role"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
	}
}

// Execute returns a redirect decision rather than an error on denial.
func (h *Handler) Execute(_ context.Context, input *Input) (*Decision, error) {
	if input == nil {
		input = &Input{}
	}
	if input.RequiredRole != "" && !input.RequiredRole.Valid() {
		return nil, errors.NewValidationFailedError("unknown role " + string(input.RequiredRole))
	}

	decision := Check(input.Session, input.RequiredRole, time.Now())
	if !decision.Allowed {
		h.logger.Debug("access denied", map[string]interface{}{
			"requiredRole": string(input.RequiredRole),
			"redirectTo":   decision.RedirectTo,
		})
	}
	return &decision, nil
}
