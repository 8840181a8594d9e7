package trace

import (
	"context"
	"testing"

	"sigil-hq/sigil/pkg/config"
)

func TestScheduler_EmptyScheduleIsNoop(t *testing.T) {
	s := openTestStore(t)
	sched := NewScheduler(NewPruner(s, config.TraceConfig{RetentionDays: 14}))

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sched.IsRunning() {
		t.Error("scheduler running with empty schedule")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := openTestStore(t)
	sched := NewScheduler(NewPruner(s, config.TraceConfig{
		RetentionDays: 14,
		PruneSchedule: "not a cron line",
	}))

	if err := sched.Start(context.Background()); err == nil {
		t.Error("Start() with bad schedule = nil, want error")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := openTestStore(t)
	sched := NewScheduler(NewPruner(s, config.TraceConfig{
		RetentionDays: 14,
		PruneSchedule: "0 3 * * *",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !sched.IsRunning() {
		t.Fatal("scheduler not running after Start")
	}
	if sched.NextRun() == nil {
		t.Error("NextRun() = nil, want a scheduled time")
	}

	sched.Stop()
	if sched.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}
