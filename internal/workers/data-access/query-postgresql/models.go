// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

type Input struct {
	QueryType     string `json:"queryType"`
	JobID         string `json:"jobId,omitempty"`
	ApplicationID string `json:"applicationId,omitempty"`
	UserID        string `json:"userId,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}
