// internal/workers/data-access/query-elasticsearch/queries/registry.go
package queries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"job-board/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type SearchResult struct {
	Jobs      []models.Job
	TotalHits int64
	MaxScore  float64
	Took      int64
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Source models.Job `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a JobSearch and decodes the hits as jobs.
func Search(ctx context.Context, es *elasticsearch.Client, s JobSearch) (*SearchResult, error) {
	req, err := BuildSearchRequest(s)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, es)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	result := &SearchResult{
		Jobs:      make([]models.Job, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
		Took:      time.Since(start).Milliseconds(),
	}
	if r.Hits.MaxScore != nil {
		result.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		result.Jobs = append(result.Jobs, hit.Source)
	}
	return result, nil
}

// IndexJob writes the job document under its own id.
func IndexJob(ctx context.Context, es *elasticsearch.Client, index string, job *models.Job) (string, error) {
	if index == "" {
		return "", ErrMissingIndex
	}
	body, err := json.Marshal(job)
	if err != nil {
		return "", err
	}

	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: job.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}.Do(ctx, es)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("index job %s failed: %s", job.ID, res.String())
	}

	var r struct {
		Result string `json:"result"`
	}
	_ = json.NewDecoder(res.Body).Decode(&r)
	return r.Result, nil
}

// DeleteJob removes the job document. A missing document is not an error.
func DeleteJob(ctx context.Context, es *elasticsearch.Client, index, id string) (bool, error) {
	if index == "" {
		return false, ErrMissingIndex
	}

	res, err := esapi.DeleteRequest{
		Index:      index,
		DocumentID: id,
	}.Do(ctx, es)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, fmt.Errorf("delete job %s failed: %s", id, res.String())
	}
	return true, nil
}
