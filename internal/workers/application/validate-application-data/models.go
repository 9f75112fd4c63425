// internal/workers/application/validate-application-data/models.go
package validateapplicationdata

import "job-board/internal/common/validation"

// Input is the applicant-supplied part of an application form.
type Input struct {
	CoverLetter string `json:"coverLetter"`
	ResumeURL   string `json:"resumeUrl,omitempty"`
	Notes       string `json:"additionalInfo,omitempty"`
}

type Output struct {
	IsValid          bool                         `json:"isValid"`
	ValidatedData    Input                        `json:"validatedData"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
}

const (
	CodeMissingRequired = "MISSING_REQUIRED"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeTooLong         = "MAX_LENGTH_VIOLATION"
)

const (
	maxCoverLetter = 10000
	maxNotes       = 5000
	maxResumeURL   = 2048
)
