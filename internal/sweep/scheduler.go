// Package sweep runs the overdue sweep on a cron schedule. Nothing starts it
// implicitly; the CLI only builds one when asked for --schedule.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// RunFunc performs one sweep.
type RunFunc func(ctx context.Context) error

// Scheduler fires a RunFunc on a cron spec. Runs never overlap: a tick that
// arrives while the previous sweep is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
	run  RunFunc
	log  *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entry   cron.EntryID
	runs    int
	lastErr error
}

// New parses spec (standard 5-field cron or descriptors like "@daily" and
// "@every 1h") and returns a stopped Scheduler.
func New(spec string, run RunFunc, log *slog.Logger) (*Scheduler, error) {
	if run == nil {
		return nil, fmt.Errorf("sweep: nil run func")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Scheduler{run: run, log: log}
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	id, err := s.cron.AddFunc(spec, s.tick)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

// Start begins firing. Sweeps run with a context derived from ctx, which is
// canceled by Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()
	s.cron.Start()
	s.log.Info("sweep scheduled", "next", s.cron.Entry(s.entry).Next)
}

// Stop halts the schedule and waits for a running sweep to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	<-s.cron.Stop().Done()
}

// RunNow performs one sweep immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) error {
	err := s.run(ctx)
	s.record(err)
	return err
}

// Runs returns how many sweeps have completed and the last error.
func (s *Scheduler) Runs() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs, s.lastErr
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	if err := s.run(ctx); err != nil {
		s.log.Warn("scheduled sweep failed", "err", err)
		s.record(err)
		return
	}
	s.record(nil)
}

func (s *Scheduler) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastErr = err
}
