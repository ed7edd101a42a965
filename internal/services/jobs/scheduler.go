package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/jobs"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/service"
)

// DefaultRetries паузы между повторами упавшей джобы | now + 1m + 10m + 30m
var DefaultRetries = []time.Duration{
	1 * time.Minute,
	10 * time.Minute,
	30 * time.Minute,
}

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs           []jobs.Job
	retries        []time.Duration
	alerterService service.IAlerterService
	metrics        *metrics.Metrics
	log            *slog.Logger
	now            func() time.Time
	after          func(d time.Duration) <-chan time.Time
}

// NewScheduler создаёт новый планировщик джоб
func NewScheduler(log *slog.Logger, alerterService service.IAlerterService, m *metrics.Metrics, retries []time.Duration) *Scheduler {
	if retries == nil {
		retries = DefaultRetries
	}
	return &Scheduler{
		jobs:           make([]jobs.Job, 0),
		retries:        retries,
		alerterService: alerterService,
		metrics:        m,
		log:            log,
		now:            time.Now,
		after:          time.After,
	}
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start запускает все джобы и блокируется до отмены контекста
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Warn("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		job := job
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runJob(ctx, job)
		}()
	}
	wg.Wait()

	s.log.Info("job scheduler stopped")
	return nil
}

// runJob запускает отдельную джобу в цикле
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()
	for {
		now := s.now()
		wait := job.NextRun(now).Sub(now)
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-s.after(wait):
			attemptErrors, err := s.executeJobWithRetry(ctx, job)
			switch {
			case err == nil:
				s.observe(jobName, "ok")
				s.log.Info("job executed successfully", "job_name", jobName)
			case ctx.Err() != nil:
				return
			default:
				s.observe(jobName, "failed")
				s.log.Error("job failed after all retries",
					"job_name", jobName,
					"error", err,
					"attempts", len(attemptErrors),
					"last_error", attemptErrors[len(attemptErrors)-1].err,
				)
				s.sendAlert(ctx, jobName, attemptErrors)
			}
		}
	}
}

// jobAttemptError ошибка конкретной попытки выполнения джобы
type jobAttemptError struct {
	attempt int
	err     error
}

// executeJobWithRetry выполняет джобу, при ошибке повторяет с паузами s.retries.
// Возвращает ошибки всех попыток и финальную ошибку
func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job) ([]jobAttemptError, error) {
	jobName := job.Name()
	var attemptErrors []jobAttemptError

	for attempt := 1; attempt <= len(s.retries)+1; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return attemptErrors, ctx.Err()
			case <-s.after(s.retries[attempt-2]):
			}
		}

		err := job.Run(ctx)
		if err == nil {
			return nil, nil
		}

		attemptErrors = append(attemptErrors, jobAttemptError{attempt: attempt, err: err})
		s.log.Warn("job attempt failed",
			"job_name", jobName,
			"attempt", attempt,
			"retries_remaining", len(s.retries)+1-attempt,
			"error", err,
		)
	}

	return attemptErrors, fmt.Errorf("all retry attempts failed (total attempts: %d)", len(attemptErrors))
}

// sendAlert алертит на финальную ошибку после ретраев
func (s *Scheduler) sendAlert(ctx context.Context, jobName string, attemptErrors []jobAttemptError) {
	if s.alerterService == nil {
		return
	}

	errorLines := make([]string, 0, len(attemptErrors))
	for _, attemptErr := range attemptErrors {
		errorLines = append(errorLines, fmt.Sprintf("Attempt %d: %s", attemptErr.attempt, attemptErr.err.Error()))
	}

	var message strings.Builder
	message.WriteString("⚠️ cnctd scheduler: job failed, retries exhausted\n\n")
	message.WriteString(fmt.Sprintf("Job: %s\n\n", jobName))
	message.WriteString("Errors:\n")
	message.WriteString(strings.Join(errorLines, "\n"))

	if alertErr := s.alerterService.SendAlert(ctx, message.String()); alertErr != nil {
		s.log.Warn("failed to send job failure alert",
			"job_name", jobName,
			"error", alertErr,
		)
	}
}

func (s *Scheduler) observe(jobName, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.JobRuns.WithLabelValues(jobName, result).Inc()
}
