// internal/workers/jobs/search-jobs/models.go
package searchjobs

import "job-board/internal/models"

type Input struct {
	Query    string `json:"query,omitempty"`
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
	From     int    `json:"from,omitempty"`
	Size     int    `json:"size,omitempty"`
}

type Output struct {
	Jobs      []models.Job `json:"jobs"`
	TotalHits int64        `json:"totalHits"`
	MaxScore  float64      `json:"maxScore"`
	From      int          `json:"from"`
	Size      int          `json:"size"`
	Took      int64        `json:"took"` // milliseconds
}
