package trace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler for the given pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "trace.scheduler"),
	}
}

// Start begins scheduled pruning. An empty PruneSchedule disables the
// scheduler. The scheduler stops itself when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.pruner.Prune(ctx); err != nil {
			s.logger.Error("scheduled pruning failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("trace retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("trace retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pruning time, if any.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
