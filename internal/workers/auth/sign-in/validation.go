// internal/workers/auth/sign-in/validation.go
package signin

import (
	"strings"

	"job-board/internal/common/validation"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"email", "password"},
		Properties: map[string]validation.Property{
			"email": {
				Type:        "string",
				Description: "Account email",
				MinLength:   validation.IntPtr(3),
				MaxLength:   validation.IntPtr(320),
			},
			"password": {
				Type:        "string",
				Description: "Account password",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(1024),
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"session":   {Type: "object", Description: "Stored session"},
			"token":     {Type: "string", Description: "Bearer token for later requests"},
			"role":      {Type: "string", Description: "Profile role", Enum: []string{"admin", "regular"}},
			"expiresAt": {Type: "string", Description: "Session expiry"},
		},
	}
}

// validateInput normalizes the email and checks both fields.
func validateInput(input *Input) *validation.ValidationResult {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	result := validation.ValidateInput(map[string]interface{}{
		"email":    input.Email,
		"password": input.Password,
	}, GetInputSchema())

	if result.Valid && !validation.ValidateEmail(input.Email) {
		result.Valid = false
		result.Errors = append(result.Errors, validation.ValidationError{
			Field:   "email",
			Message: "Email address is not valid",
			Code:    "PATTERN_MISMATCH",
		})
	}
	return result
}
