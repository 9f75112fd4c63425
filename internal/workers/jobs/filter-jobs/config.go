// internal/workers/jobs/filter-jobs/config.go
package filterjobs

import (
	"time"

	"job-board/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Config{Timeout: timeout}
}
