// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-board/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// JobsIndexMapping is the mapping used when the jobs index is created.
const JobsIndexMapping = `{
  "mappings": {
    "properties": {
      "id":                {"type": "keyword"},
      "title":             {"type": "text"},
      "company":           {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "location":          {"type": "keyword"},
      "type":              {"type": "keyword"},
      "salary":            {"type": "keyword"},
      "description":       {"type": "text"},
      "tags":              {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "status":            {"type": "keyword"},
      "applicationsCount": {"type": "integer"},
      "createdAt":         {"type": "date"}
    }
  }
}`

type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.GetAddresses(),
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(
		c.Client.Ping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return nil
}

// EnsureIndex creates index with JobsIndexMapping unless it already exists.
func (c *ElasticsearchClient) EnsureIndex(ctx context.Context, index string) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, c.Client)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{
		Index: index,
		Body:  strings.NewReader(JobsIndexMapping),
	}.Do(ctx, c.Client)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	defer res.Body.Close()

	// 400 here means a concurrent create won the race
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("create index %s error: %s", index, res.Status())
	}
	return nil
}
