// internal/workers/application/notify-applicant/config.go
package notifyapplicant

import (
	"time"

	"job-board/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SenderID     string
	Timeout      time.Duration
}

func LoadConfig(ncfg config.NotificationConfig, wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		EmailEnabled: ncfg.Email.Enabled,
		SMSEnabled:   ncfg.SMS.Enabled,
		FromEmail:    ncfg.Email.FromEmail,
		SenderID:     ncfg.SMS.SenderID,
		Timeout:      timeout,
	}
}
