// internal/workers/jobs/create-job/models.go
package createjob

import (
	"encoding/json"
	"strings"

	"job-board/internal/models"
)

// Lines accepts a JSON array or newline-separated text.
type Lines []string

// CommaList accepts a JSON array or comma-separated text.
type CommaList []string

func (l *Lines) UnmarshalJSON(data []byte) error {
	items, err := splitText(data, "\n")
	*l = items
	return err
}

func (l *CommaList) UnmarshalJSON(data []byte) error {
	items, err := splitText(data, ",")
	*l = items
	return err
}

func splitText(data []byte, sep string) ([]string, error) {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return cleanList(strings.Split(text, sep)), nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return cleanList(items), nil
}

// cleanList trims entries and drops the empty ones.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type Input struct {
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Type         string    `json:"type,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	Description  string    `json:"description"`
	Requirements Lines     `json:"requirements,omitempty"`
	Benefits     Lines     `json:"benefits,omitempty"`
	Tags         CommaList `json:"tags,omitempty"`
	PostedBy     string    `json:"postedBy"`
}

type Output struct {
	JobID string      `json:"jobId"`
	Job   *models.Job `json:"job"`
}
