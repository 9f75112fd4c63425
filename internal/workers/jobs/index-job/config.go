// internal/workers/jobs/index-job/config.go
package indexjob

import (
	"time"

	"job-board/internal/common/config"
)

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig(index string, wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if index == "" {
		index = "jobs"
	}
	return &Config{Index: index, Timeout: timeout}
}
