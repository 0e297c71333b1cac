package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestStart_BadSpec(t *testing.T) {
	s := NewNavScheduler("not a cron spec", time.Minute, func(ctx context.Context) error {
		return nil
	})
	if err := s.Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
	if s.Running() {
		t.Fatal("scheduler must not be running after failed start")
	}
}

func TestStartStop(t *testing.T) {
	s := NewNavScheduler("@every 1h", time.Minute, func(ctx context.Context) error {
		return nil
	})

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.Running() {
		t.Fatal("expected running after start")
	}

	// Second start is a no-op
	if err := s.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}

	s.Stop()
	if s.Running() {
		t.Fatal("expected stopped")
	}

	// Second stop is a no-op
	s.Stop()
}

func TestRunNow(t *testing.T) {
	calls := 0
	s := NewNavScheduler("@every 1h", time.Minute, func(ctx context.Context) error {
		calls++
		return nil
	})

	if err := s.RunNow(context.Background()); err != nil {
		t.Fatalf("run now: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}
