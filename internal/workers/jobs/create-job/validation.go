// internal/workers/jobs/create-job/validation.go
package createjob

import (
	"strings"

	"job-board/internal/common/validation"
	"job-board/internal/models"
)

var inputSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"title":       {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(200)},
		"company":     {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(200)},
		"location":    {Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(200)},
		"type":        {Type: "string", Enum: jobTypeValues()},
		"salary":      {Type: "string", MaxLength: validation.IntPtr(100)},
		"description": {Type: "string", MinLength: validation.IntPtr(1)},
		"requirements": {
			Type:  "array",
			Items: &validation.Property{Type: "string", MinLength: validation.IntPtr(1)},
		},
		"benefits": {
			Type:  "array",
			Items: &validation.Property{Type: "string", MinLength: validation.IntPtr(1)},
		},
		"tags": {
			Type:  "array",
			Items: &validation.Property{Type: "string", MinLength: validation.IntPtr(1), MaxLength: validation.IntPtr(50)},
		},
		"postedBy": {Type: "string", MinLength: validation.IntPtr(1)},
	},
	Required:             []string{"title", "company", "location", "type", "description", "postedBy"},
	AdditionalProperties: false,
}

func jobTypeValues() []string {
	values := make([]string, len(models.JobTypes))
	for i, t := range models.JobTypes {
		values[i] = string(t)
	}
	return values
}

// normalize trims the text fields and applies the Full-time default.
func normalize(input *Input) {
	input.Title = strings.TrimSpace(input.Title)
	input.Company = strings.TrimSpace(input.Company)
	input.Location = strings.TrimSpace(input.Location)
	input.Salary = strings.TrimSpace(input.Salary)
	input.Description = strings.TrimSpace(input.Description)
	input.Type = strings.TrimSpace(input.Type)
	if input.Type == "" {
		input.Type = string(models.JobTypeFullTime)
	}
}

// Validate normalizes input and checks it against the schema.
func Validate(input *Input) *validation.ValidationResult {
	normalize(input)
	return validation.ValidateDocument(inputSchema, input)
}

// GetInputSchema returns the schema request bodies are checked against.
func GetInputSchema() validation.JSONSchema {
	return inputSchema
}
