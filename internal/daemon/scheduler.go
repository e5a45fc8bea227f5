package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const publishJobName = "scheduled-publish"

// Scheduler wraps a gocron scheduler holding the single periodic publish job.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobID     uuid.UUID
	scheduled bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for a running task to return.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// SchedulePeriodic registers task to run every interval, optionally firing once
// right away. Calling it again replaces the existing job.
func (s *Scheduler) SchedulePeriodic(interval time.Duration, immediate bool, task func()) error {
	if interval <= 0 {
		return fmt.Errorf("schedule interval must be positive, got %s", interval)
	}

	def := gocron.DurationJob(interval)
	opts := []gocron.JobOption{
		gocron.WithName(publishJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if immediate {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	var (
		job gocron.Job
		err error
	)
	if s.scheduled {
		job, err = s.scheduler.Update(s.jobID, def, gocron.NewTask(task), opts...)
	} else {
		job, err = s.scheduler.NewJob(def, gocron.NewTask(task), opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to schedule periodic publish: %w", err)
	}

	s.jobID = job.ID()
	s.scheduled = true
	slog.Info("Scheduled periodic publish", slog.Duration("interval", interval))
	return nil
}
