// internal/workers/application/notify-applicant/templates.go
package notifyapplicant

import (
	"fmt"
	"strings"

	"job-board/internal/models"
)

type template struct {
	Subject string
	Body    string
	SMS     string
}

var templates = map[models.ApplicationStatus]template{
	models.ApplicationApproved: {
		Subject: "Your application for {{jobTitle}} at {{company}}",
		Body:    "Hello {{name}},\n\nGood news: your application for {{jobTitle}} at {{company}} has been approved.\n\n{{notes}}",
		SMS:     "Your application for {{jobTitle}} at {{company}} was approved.",
	},
	models.ApplicationRejected: {
		Subject: "Your application for {{jobTitle}} at {{company}}",
		Body:    "Hello {{name}},\n\nThank you for applying to {{jobTitle}} at {{company}}. The team has decided not to move forward.\n\n{{notes}}",
		SMS:     "Your application for {{jobTitle}} at {{company}} was not selected.",
	},
	models.ApplicationPending: {
		Subject: "Your application for {{jobTitle}} is under review",
		Body:    "Hello {{name}},\n\nYour application for {{jobTitle}} at {{company}} is back under review.\n\n{{notes}}",
		SMS:     "Your application for {{jobTitle}} at {{company}} is under review.",
	},
}

// renderTemplate substitutes {{key}} placeholders and drops unknown ones.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}

	return strings.TrimSpace(result)
}
