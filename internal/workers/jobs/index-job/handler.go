// internal/workers/jobs/index-job/handler.go
package indexjob

import (
	"context"
	"fmt"

	"job-board/internal/common/camunda"
	"job-board/internal/common/errors"
	"job-board/internal/common/events"
	"job-board/internal/common/logger"
	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-elasticsearch/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "index-job"
)

// Handler keeps the jobs search index in step with the jobs table.
type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
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

// HandleEvent indexes created and updated jobs and removes deleted ones.
// Inactive jobs stay in the index; searches filter on status.
func (h *Handler) HandleEvent(ctx context.Context, event events.Event) error {
	var input Input
	switch event.Type {
	case events.JobCreated, events.JobUpdated:
		var job models.Job
		if err := event.Decode(&job); err != nil {
			return err
		}
		input = Input{Action: ActionIndex, Job: &job}
	case events.JobDeleted:
		var payload struct {
			JobID string `json:"jobId"`
		}
		if err := event.Decode(&payload); err != nil {
			return err
		}
		input = Input{Action: ActionDelete, JobID: payload.JobID}
	default:
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	_, err := h.execute(ctx, &input)
	return err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationFailedError("input cannot be nil")
	}

	switch input.Action {
	case ActionIndex:
		if input.Job == nil || input.Job.ID == "" {
			return nil, errors.NewValidationFailedError("job with id is required to index")
		}
		result, err := queries.IndexJob(ctx, h.client, h.config.Index, input.Job)
		if err != nil {
			return nil, errors.NewSearchFailedError(err)
		}
		h.logger.Debug("job indexed", map[string]interface{}{"jobId": input.Job.ID, "result": result})
		return &Output{JobID: input.Job.ID, Action: ActionIndex, Result: result}, nil

	case ActionDelete:
		id := input.JobID
		if id == "" && input.Job != nil {
			id = input.Job.ID
		}
		if id == "" {
			return nil, errors.NewValidationFailedError("jobId is required to delete")
		}
		found, err := queries.DeleteJob(ctx, h.client, h.config.Index, id)
		if err != nil {
			return nil, errors.NewSearchFailedError(err)
		}
		result := "deleted"
		if !found {
			result = "not_found"
		}
		return &Output{JobID: id, Action: ActionDelete, Result: result}, nil

	default:
		return nil, errors.NewValidationFailedError(fmt.Sprintf("unknown action %q", input.Action))
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
