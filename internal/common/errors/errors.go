// Package errors provides the job board's error taxonomy and its BPMN/HTTP mappings.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeFetchFailed    ErrorCode = "FETCH_FAILED"
	ErrCodeMutationFailed ErrorCode = "MUTATION_FAILED"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"

	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"

	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"

	ErrCodeSearchFailed           ErrorCode = "SEARCH_FAILED"
	ErrCodeSessionStoreFailed     ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeIdentityProviderFailed ErrorCode = "IDENTITY_PROVIDER_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeBusinessRule    ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any StandardError carrying the same code, so the sentinels
// below work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// WithMetadata sets one metadata key and returns the error for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrFetchFailed          = &StandardError{Code: ErrCodeFetchFailed}
	ErrMutationFailed       = &StandardError{Code: ErrCodeMutationFailed}
	ErrNotFound             = &StandardError{Code: ErrCodeNotFound}
	ErrUnauthenticated      = &StandardError{Code: ErrCodeUnauthenticated}
	ErrForbidden            = &StandardError{Code: ErrCodeForbidden}
	ErrValidationFailed     = &StandardError{Code: ErrCodeValidationFailed}
	ErrDuplicateApplication = &StandardError{Code: ErrCodeDuplicateApplication}
	ErrSearchFailed         = &StandardError{Code: ErrCodeSearchFailed}
	ErrSessionStoreFailed   = &StandardError{Code: ErrCodeSessionStoreFailed}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewFetchFailedError reports a failed read of a list or single record.
func NewFetchFailedError(resource string, err error) *StandardError {
	return newError(ErrCodeFetchFailed, fmt.Sprintf("Failed to load %s", resource), errDetails(err), true)
}

// NewMutationFailedError reports a rejected insert, update or delete.
func NewMutationFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeMutationFailed, fmt.Sprintf("Failed to %s", operation), errDetails(err), true)
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(resource, id string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", capitalize(resource)), fmt.Sprintf("id: %s", id), false).
		WithMetadata("resource", resource)
}

func NewUnauthenticatedError(details string) *StandardError {
	return newError(ErrCodeUnauthenticated, "Authentication required", details, false)
}

func NewForbiddenError(details string) *StandardError {
	return newError(ErrCodeForbidden, "Access Denied", details, false)
}

func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

// NewDuplicateApplicationError is returned when (job, applicant) already has an application.
func NewDuplicateApplicationError(jobID, applicantID string) *StandardError {
	return newError(ErrCodeDuplicateApplication, "Already Applied",
		fmt.Sprintf("application already exists for job %s and applicant %s", jobID, applicantID), false).
		WithMetadata("jobId", jobID).
		WithMetadata("applicantId", applicantID)
}

func NewSearchFailedError(err error) *StandardError {
	return newError(ErrCodeSearchFailed, "Job search failed", errDetails(err), true)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store unavailable", errDetails(err), true)
}

func NewIdentityProviderError(err error) *StandardError {
	return newError(ErrCodeIdentityProviderFailed, "Identity provider request failed", errDetails(err), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s notification", channel), errDetails(err), true)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError(ErrCodeBusinessRule, message, details, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), errDetails(err), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), errDetails(err), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errDetails(err), false)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ==========================
// 4. Conversions
// ==========================

// AsStandardError unwraps err to a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeFetchFailed,
		ErrCodeMutationFailed,
		ErrCodeSearchFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeSessionStoreFailed,
		ErrCodeIdentityProviderFailed,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN codes are identical to the internal codes.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// HTTPStatus maps an error code to the status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateApplication, ErrCodeBusinessRule:
		return http.StatusConflict
	case ErrCodeSessionStoreFailed:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeFetchFailed, ErrCodeMutationFailed, ErrCodeSearchFailed,
		ErrCodeIdentityProviderFailed, ErrCodeNotificationSendFailed, ErrCodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes into the taxonomy used in logs and metrics.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeFetchFailed:
		return "FETCH"
	case ErrCodeMutationFailed:
		return "MUTATION"
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodeUnauthenticated, ErrCodeForbidden:
		return "AUTHORIZATION"
	case ErrCodeValidationFailed, ErrCodeDuplicateApplication, ErrCodeBusinessRule:
		return "VALIDATION"
	case ErrCodeSearchFailed:
		return "SEARCH"
	case ErrCodeSessionStoreFailed, ErrCodeIdentityProviderFailed:
		return "SESSION"
	case ErrCodeNotificationSendFailed:
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
