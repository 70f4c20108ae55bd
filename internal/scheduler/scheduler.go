package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Reloader is the part of the rental service the scheduler drives.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Scheduler periodically reloads the usage dataset.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reloader  Reloader
	interval  time.Duration
	timeout   time.Duration
	log       *zap.Logger
}

// New creates a new Scheduler. timeout bounds each reload.
func New(interval, timeout time.Duration, reloader Reloader, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		reloader:  reloader,
		interval:  interval,
		timeout:   timeout,
		log:       log,
	}
}

// Start schedules the periodic reload and starts the underlying scheduler.
// A zero interval disables reloading.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("scheduler: reload interval not set; dataset stays as loaded at startup")
		return nil
	}

	// The startup load already happened; the first run waits one interval.
	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler: dataset reload scheduled", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) run() {
	s.log.Debug("scheduler: running dataset reload job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.reloader.Reload(ctx); err != nil {
		s.log.Warn("scheduler: reload failed; keeping last good dataset", zap.Error(err))
		return
	}
	s.log.Debug("scheduler: completed dataset reload job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
