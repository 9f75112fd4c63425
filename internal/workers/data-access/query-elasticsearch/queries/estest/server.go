// Package estest serves canned Elasticsearch responses from httptest.
package estest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"
)

// NewClient returns a client whose requests reach handler. The product
// header is set so the client accepts the fake server.
func NewClient(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{srv.URL},
	})
	require.NoError(t, err)
	return client
}

// HitsBody renders a search response with the given _source documents.
func HitsBody(total int, sources ...string) string {
	body := `{"took":3,"hits":{"total":{"value":` + strconv.Itoa(total) + `},"max_score":1.5,"hits":[`
	for i, s := range sources {
		if i > 0 {
			body += ","
		}
		body += `{"_source":` + s + `}`
	}
	return body + `]}}`
}
