package queries

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"job-board/internal/models"
	"job-board/internal/workers/data-access/query-elasticsearch/queries/estest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalized(t *testing.T) {
	tests := []struct {
		in   JobSearch
		from int
		size int
	}{
		{JobSearch{}, 0, DefaultSize},
		{JobSearch{Size: 500}, 0, MaxSize},
		{JobSearch{Size: 1, From: -4}, 0, 1},
		{JobSearch{Size: 50, From: 40}, 40, 50},
	}
	for _, tt := range tests {
		got := tt.in.Normalized()
		assert.Equal(t, tt.from, got.From)
		assert.Equal(t, tt.size, got.Size)
	}
}

func TestBuildJobSearchBody(t *testing.T) {
	t.Run("text with filters", func(t *testing.T) {
		body := BuildJobSearchBody(JobSearch{Query: "golang", Location: "Remote", Type: "Contract"})
		filter := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
		must := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})

		assert.Len(t, filter, 3)
		mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
		assert.Equal(t, []string{"title^3", "company^2", "tags^2", "description"}, mm["fields"])
		assert.NotContains(t, body, "sort")
	})

	t.Run("wildcards only keep the status filter", func(t *testing.T) {
		body := BuildJobSearchBody(JobSearch{Location: models.AllLocations, Type: models.AllTypes})
		filter := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})

		require.Len(t, filter, 1)
		assert.Equal(t, map[string]interface{}{"status": "active"}, filter[0].(map[string]interface{})["term"])
		assert.Contains(t, body, "sort")
	})
}

func TestBuildSearchRequest_MissingIndex(t *testing.T) {
	_, err := BuildSearchRequest(JobSearch{Query: "go"})
	assert.ErrorIs(t, err, ErrMissingIndex)
}

func TestSearch(t *testing.T) {
	doc, _ := json.Marshal(models.Job{ID: "job-1", Title: "Go Developer", Status: models.JobStatusActive})
	es := estest.NewClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/_search", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("size"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"multi_match"`)
		_, _ = w.Write([]byte(estest.HitsBody(7, string(doc))))
	})

	result, err := Search(context.Background(), es, JobSearch{Index: "jobs", Query: "go"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.TotalHits)
	assert.Equal(t, 1.5, result.MaxScore)
	require.Len(t, result.Jobs, 1)
	assert.Equal(t, "Go Developer", result.Jobs[0].Title)
}

func TestSearch_ErrorStatus(t *testing.T) {
	es := estest.NewClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, err := Search(context.Background(), es, JobSearch{Index: "jobs"})
	assert.Error(t, err)
}

func TestIndexAndDeleteJob(t *testing.T) {
	es := estest.NewClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/jobs/_doc/job-1":
			_, _ = w.Write([]byte(`{"result":"created"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/jobs/_doc/job-1":
			_, _ = w.Write([]byte(`{"result":"deleted"}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	result, err := IndexJob(context.Background(), es, "jobs", &models.Job{ID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, "created", result)

	found, err := DeleteJob(context.Background(), es, "jobs", "job-1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = DeleteJob(context.Background(), es, "jobs", "job-2")
	require.NoError(t, err)
	assert.False(t, found)
}
