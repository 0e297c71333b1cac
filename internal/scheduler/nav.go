package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc performs one estimation run.
type RunFunc func(ctx context.Context) error

type NavScheduler struct {
	cronSpec   string
	runTimeout time.Duration
	run        RunFunc

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewNavScheduler(cronSpec string, runTimeout time.Duration, run RunFunc) *NavScheduler {
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}
	return &NavScheduler{
		cronSpec:   cronSpec,
		runTimeout: runTimeout,
		run:        run,
	}
}

func (s *NavScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		fmt.Println("[SCHEDULER] Already running")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.cronSpec, s.job); err != nil {
		return fmt.Errorf("parse schedule %q: %w", s.cronSpec, err)
	}
	c.Start()

	s.cron = c
	s.running = true
	fmt.Printf("[SCHEDULER] Started (schedule: %s)\n", s.cronSpec)
	return nil
}

func (s *NavScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	s.running = false
	fmt.Println("[SCHEDULER] Stopped")
}

func (s *NavScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunNow triggers an estimation run outside the normal schedule.
func (s *NavScheduler) RunNow(ctx context.Context) error {
	fmt.Println("[SCHEDULER] Manual run triggered")
	return s.run(ctx)
}

func (s *NavScheduler) job() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()
	if err := s.run(ctx); err != nil {
		fmt.Printf("[SCHEDULER] Scheduled run failed: %v\n", err)
	}
}
