package camunda

import (
	"context"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

type countingHandler struct{ calls int }

func (h *countingHandler) Handle(worker.JobClient, entities.Job) { h.calls++ }

type recordedSample struct {
	taskType string
	status   string
}

type sampleRecorder struct{ samples []recordedSample }

func (r *sampleRecorder) RecordJobDuration(_ context.Context, taskType string, _ time.Duration, status string) {
	r.samples = append(r.samples, recordedSample{taskType, status})
}

func TestInstrument(t *testing.T) {
	h := &countingHandler{}
	rec := &sampleRecorder{}
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Type: "get-job"}}

	instrument("get-job", h, rec)(nil, job)
	instrument("get-job", h, nil)(nil, job)

	assert.Equal(t, 2, h.calls)
	assert.Equal(t, []recordedSample{{"get-job", "handled"}}, rec.samples)
}
