// internal/workers/jobs/update-job/validation.go
package updatejob

import (
	"strings"

	"job-board/internal/common/validation"
	"job-board/internal/models"
)

// jobSchema checks the job as it will be stored once the edit is applied.
var jobSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"title":       {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(200)},
		"company":     {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(200)},
		"location":    {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(200)},
		"type":        {Type: "string", Enum: enumOf(models.JobTypes)},
		"salary":      {Type: "string", MaxLength: validation.IntPtr(100)},
		"description": {Type: "string", MinLength: validation.IntPtr(1)},
		"status":      {Type: "string", Enum: enumOf(models.JobStatuses)},
		"tags": {
			Type:  "array",
			Items: &validation.Property{Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(50)},
		},
	},
	Required: []string{"title", "company", "location", "type", "description", "status"},
}

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

type edited struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Salary      string   `json:"salary,omitempty"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
}

// apply copies the present fields of input onto job and names the ones
// whose value changed.
func apply(job *models.Job, input *Input) []string {
	var changed []string
	setText := func(name string, src *string, dst *string) {
		if src == nil {
			return
		}
		if v := strings.TrimSpace(*src); v != *dst {
			*dst = v
			changed = append(changed, name)
		}
	}
	setList := func(name string, src *[]string, dst *[]string) {
		if src == nil {
			return
		}
		items := *src
		if items == nil {
			items = []string{}
		}
		if !equal(items, *dst) {
			*dst = items
			changed = append(changed, name)
		}
	}

	jobType, status := string(job.Type), string(job.Status)

	setText("title", input.Title, &job.Title)
	setText("company", input.Company, &job.Company)
	setText("location", input.Location, &job.Location)
	setText("type", input.Type, &jobType)
	setText("salary", input.Salary, &job.Salary)
	setText("description", input.Description, &job.Description)
	setList("requirements", (*[]string)(input.Requirements), &job.Requirements)
	setList("benefits", (*[]string)(input.Benefits), &job.Benefits)
	setList("tags", (*[]string)(input.Tags), &job.Tags)
	setText("status", input.Status, &status)

	job.Type = models.JobType(jobType)
	job.Status = models.JobStatus(status)
	return changed
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Validate checks the edited job against the listing rules.
func Validate(job *models.Job) *validation.ValidationResult {
	return validation.ValidateDocument(jobSchema, edited{
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Type:        string(job.Type),
		Salary:      job.Salary,
		Description: job.Description,
		Status:      string(job.Status),
		Tags:        append([]string{}, job.Tags...),
	})
}

// GetInputSchema returns the schema an edited job is checked against.
func GetInputSchema() validation.JSONSchema {
	return jobSchema
}
