package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"savor/internal/config"
	"savor/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// JobScheduler runs the periodic pantry jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	alerts    *jobs.ExpiryAlertService
	cfg       config.JobsConfig
	logger    *zap.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers the built-in jobs.
func NewJobScheduler(alerts *jobs.ExpiryAlertService, cfg config.JobsConfig, logger *zap.Logger, opts ...gocron.SchedulerOption) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		alerts:    alerts,
		cfg:       cfg,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("Starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	interval := js.cfg.ExpiryInterval
	if interval <= 0 {
		interval = time.Hour
	}

	// Expiry sweep; a slow run is rescheduled rather than stacked
	return js.AddJob("expiry-alerts", interval, func(ctx context.Context) error {
		if err := js.alerts.ScheduledExpiryCheck(ctx); err != nil {
			js.logger.Error("Scheduled expiry check failed", zap.Error(err))
			return err
		}
		return nil
	})
}

// AddJob schedules fn every interval in singleton mode. gocron injects the
// job context, which is cancelled on shutdown.
func (js *JobScheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}

	js.jobs[name] = job
	js.logger.Debug("Registered job", zap.String("name", name), zap.Duration("interval", interval))
	return nil
}

// RemoveJob unschedules a job until the next restart.
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, exists := js.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not registered", name)
	}

	delete(js.jobs, name)
	if err := js.scheduler.RemoveJob(job.ID()); err != nil {
		return fmt.Errorf("remove job %s: %w", name, err)
	}
	js.logger.Info("Removed job", zap.String("name", name))
	return nil
}

// RunNow triggers a registered job immediately.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, exists := js.jobs[name]
	js.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not registered", name)
	}
	return job.RunNow()
}

// JobStatus describes one scheduled job.
type JobStatus struct {
	Name    string    `json:"name"`
	LastRun time.Time `json:"last_run,omitempty"`
	NextRun time.Time `json:"next_run,omitempty"`
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		s := JobStatus{Name: name}
		if last, err := job.LastRun(); err == nil {
			s.LastRun = last
		}
		if next, err := job.NextRun(); err == nil {
			s.NextRun = next
		}
		status = append(status, s)
	}

	sort.Slice(status, func(i, j int) bool { return status[i].Name < status[j].Name })
	return status
}
