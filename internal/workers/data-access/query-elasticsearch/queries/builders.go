// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"job-board/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

var ErrMissingIndex = errors.New("index name is required")

// JobSearch is a full-text query over the jobs index.
type JobSearch struct {
	Index    string
	Query    string
	Location string
	Type     string
	From     int
	Size     int
}

// Normalized clamps pagination: size to 1..MaxSize (0 means DefaultSize)
// and from to a non-negative offset.
func (s JobSearch) Normalized() JobSearch {
	if s.Size <= 0 {
		s.Size = DefaultSize
	}
	if s.Size > MaxSize {
		s.Size = MaxSize
	}
	if s.From < 0 {
		s.From = 0
	}
	s.Query = strings.TrimSpace(s.Query)
	return s
}

func isWildcard(value, all string) bool {
	return value == "" || value == all
}

// BuildJobSearchBody builds the bool query. Inactive jobs are always filtered out.
func BuildJobSearchBody(s JobSearch) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": string(models.JobStatusActive)},
		},
	}

	if s.Query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  s.Query,
				"fields": []string{"title^3", "company^2", "tags^2", "description"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if !isWildcard(s.Location, models.AllLocations) {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"location": s.Location},
		})
	}
	if !isWildcard(s.Type, models.AllTypes) {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"type": s.Type},
		})
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}

	// without a text query relevance is flat, so newest first
	if s.Query == "" {
		body["sort"] = []map[string]interface{}{{"createdAt": "desc"}}
	}

	return body
}

func BuildSearchRequest(s JobSearch) (*esapi.SearchRequest, error) {
	if s.Index == "" {
		return nil, ErrMissingIndex
	}
	s = s.Normalized()

	body, err := json.Marshal(BuildJobSearchBody(s))
	if err != nil {
		return nil, err
	}

	return &esapi.SearchRequest{
		Index: []string{s.Index},
		Body:  bytes.NewReader(body),
		From:  &s.From,
		Size:  &s.Size,
	}, nil
}
