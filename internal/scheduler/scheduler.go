package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"netpulse/internal/domain"
)

// cycleRunner is what the scheduler drives; satisfied by *CycleRunner.
type cycleRunner interface {
	RunCycle(ctx context.Context, targets []domain.Target)
}

// Scheduler fires a full probe cycle immediately on start, then every
// interval plus a fresh random jitter, so independent instances do not
// synchronize into bursts. TriggerNow starts an extra cycle without touching
// the periodic timer; cycles run on their own goroutines and may overlap.
type Scheduler struct {
	Logger    *zap.Logger
	Runner    cycleRunner
	Targets   []domain.Target
	Interval  time.Duration
	JitterMax time.Duration

	trigger chan struct{}
	wg      sync.WaitGroup
}

func New(logger *zap.Logger, runner cycleRunner, targets []domain.Target, interval, jitterMax time.Duration) *Scheduler {
	return &Scheduler{
		Logger:    logger,
		Runner:    runner,
		Targets:   targets,
		Interval:  interval,
		JitterMax: jitterMax,
		trigger:   make(chan struct{}, 1),
	}
}

// TriggerNow requests an immediate cycle. Never blocks; requests arriving
// while one is already pending coalesce.
func (s *Scheduler) TriggerNow() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run drives the cycle loop until ctx is cancelled, then waits for in-flight
// cycles to finish. The startup cycle always runs; a zero interval only
// disables the periodic firings, manual triggers keep working.
func (s *Scheduler) Run(ctx context.Context) {
	s.launch(ctx)

	var timer *time.Timer
	var timerC <-chan time.Time
	if s.Interval > 0 {
		timer = time.NewTimer(s.nextDelay())
		defer timer.Stop()
		timerC = timer.C
	} else {
		s.Logger.Info("periodic_cycles_disabled")
	}

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler_stopped")
			s.wg.Wait()
			return
		case <-timerC:
			s.launch(ctx)
			timer.Reset(s.nextDelay())
		case <-s.trigger:
			s.Logger.Info("manual_trigger")
			s.launch(ctx)
		}
	}
}

// launch starts a cycle on its own goroutine. There is deliberately no
// mutual exclusion between cycles: a periodic and a manual cycle may run at
// the same time and race on the store, last write wins per target.
func (s *Scheduler) launch(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Runner.RunCycle(ctx, s.Targets)
	}()
}

// nextDelay recomputes the jitter for every firing.
func (s *Scheduler) nextDelay() time.Duration {
	d := s.Interval
	if s.JitterMax > 0 {
		d += time.Duration(rand.Int63n(int64(s.JitterMax)))
	}
	return d
}
