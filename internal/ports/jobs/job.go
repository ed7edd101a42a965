package jobs

import (
	"context"
	"time"
)

// Job периодическая задача планировщика
type Job interface {
	// Name метка джобы в логах, метриках и алертах
	Name() string
	// NextRun время следующего запуска относительно now
	NextRun(now time.Time) time.Time
	Run(ctx context.Context) error
}
