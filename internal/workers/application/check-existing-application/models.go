// internal/workers/application/check-existing-application/models.go
package checkexistingapplication

type Input struct {
	JobID       string `json:"jobId"`
	ApplicantID string `json:"applicantId"`
}

type Output struct {
	HasApplied    bool   `json:"hasApplied"`
	ApplicationID string `json:"applicationId,omitempty"`
}
