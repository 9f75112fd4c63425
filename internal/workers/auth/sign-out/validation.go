// internal/workers/auth/sign-out/validation.go
package signout

import "job-board/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"token"},
		Properties: map[string]validation.Property{
			"token": {
				Type:        "string",
				Description: "Access token of the session to end",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(4096),
			},
			"refreshToken": {
				Type:        "string",
				Description: "Refresh token to log out at the identity provider",
				MaxLength:   validation.IntPtr(4096),
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"success":       {Type: "boolean", Description: "Whether sign-out completed"},
			"message":       {Type: "string", Description: "Result message"},
			"sessionEnded":  {Type: "boolean", Description: "Whether a stored session was deleted"},
			"tokenRevoked":  {Type: "boolean", Description: "Whether the token was revoked"},
			"providerEnded": {Type: "boolean", Description: "Whether the identity provider session was ended"},
			"logoutAt":      {Type: "string", Description: "Timestamp of sign-out"},
		},
	}
}
