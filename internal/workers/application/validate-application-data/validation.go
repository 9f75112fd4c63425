// internal/workers/application/validate-application-data/validation.go
package validateapplicationdata

import (
	"strings"
	"unicode/utf8"

	"job-board/internal/common/validation"
)

// Validate trims the form fields and checks them. The returned Input holds
// the cleaned values and is only meaningful when no errors are returned.
func Validate(in Input) (Input, []validation.ValidationError) {
	cleaned := Input{
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
		Notes:       strings.TrimSpace(in.Notes),
	}
	errs := []validation.ValidationError{}

	switch {
	case cleaned.CoverLetter == "":
		errs = append(errs, validation.ValidationError{
			Field:   "coverLetter",
			Code:    CodeMissingRequired,
			Message: "Cover letter is required",
		})
	case utf8.RuneCountInString(cleaned.CoverLetter) > maxCoverLetter:
		errs = append(errs, validation.ValidationError{
			Field:   "coverLetter",
			Code:    CodeTooLong,
			Message: "Cover letter is too long",
		})
	}

	if cleaned.ResumeURL != "" {
		if len(cleaned.ResumeURL) > maxResumeURL || !validation.ValidateURL(cleaned.ResumeURL) {
			errs = append(errs, validation.ValidationError{
				Field:   "resumeUrl",
				Code:    CodeInvalidFormat,
				Message: "Resume URL must be a valid http, https or ftp URL",
			})
		}
	}

	if utf8.RuneCountInString(cleaned.Notes) > maxNotes {
		errs = append(errs, validation.ValidationError{
			Field:   "additionalInfo",
			Code:    CodeTooLong,
			Message: "Additional information is too long",
		})
	}

	return cleaned, errs
}

// Summary joins the messages of errs.
func Summary(errs []validation.ValidationError) string {
	result := validation.ValidationResult{Errors: errs}
	return result.Summary()
}
