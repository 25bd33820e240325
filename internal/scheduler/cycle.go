package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"netpulse/internal/domain"
	"netpulse/internal/probe"
	"netpulse/internal/store"
)

// CycleRunner fans one probe cycle out across the target list with a hard
// concurrency cap. Results are published to the store and the observer as
// each probe resolves, not batched at the end of the cycle.
type CycleRunner struct {
	Logger      *zap.Logger
	Store       *store.Store
	Prober      probe.Prober
	Observer    domain.Observer
	Timeout     time.Duration
	Concurrency int
}

func NewCycleRunner(
	logger *zap.Logger,
	st *store.Store,
	prober probe.Prober,
	obs domain.Observer,
	timeout time.Duration,
	concurrency int,
) *CycleRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &CycleRunner{
		Logger:      logger,
		Store:       st,
		Prober:      prober,
		Observer:    obs,
		Timeout:     timeout,
		Concurrency: concurrency,
	}
}

// RunCycle probes every target once and returns when the last probe has
// resolved. One target's failure never aborts the cycle; the worst outcome
// for a target is a down classification.
func (c *CycleRunner) RunCycle(ctx context.Context, targets []domain.Target) {
	if len(targets) == 0 {
		return
	}
	started := time.Now()

	// Mark everything in progress before the first probe goes out so a
	// consumer sees the transition immediately.
	now := time.Now().UTC()
	for _, t := range targets {
		c.Store.Set(t.ID(), domain.ProbeResult{Status: domain.StatusChecking, CheckedAt: now})
	}
	c.notify()

	// Exactly Concurrency workers drain an ordered cursor: every target is
	// claimed once, none skipped, at most Concurrency probes in flight.
	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < c.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := next.Add(1) - 1
				if i >= int64(len(targets)) {
					return
				}
				c.probeOne(ctx, targets[i])
			}
		}()
	}
	wg.Wait()

	c.Logger.Debug("cycle_done",
		zap.Int("targets", len(targets)),
		zap.Duration("took", time.Since(started)),
	)
}

func (c *CycleRunner) probeOne(ctx context.Context, t domain.Target) {
	cctx, cancel := context.WithTimeout(ctx, c.Timeout)
	res := c.Prober.Probe(cctx, t.URL)
	cancel()

	res.CheckedAt = time.Now().UTC()
	c.Store.Set(t.ID(), res)

	fields := []zap.Field{
		zap.String("url", t.URL),
		zap.String("name", t.Name),
		zap.String("status", string(res.Status)),
		zap.String("note", res.Note),
	}
	if res.LatencyMS != nil {
		fields = append(fields, zap.Float64("latency_ms", *res.LatencyMS))
	}
	c.Logger.Debug("probe_checked", fields...)

	c.notify()
}

func (c *CycleRunner) notify() {
	if c.Observer != nil {
		c.Observer.StateChanged(c.Store.Snapshot())
	}
}
