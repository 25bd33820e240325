package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"netpulse/internal/domain"
	"netpulse/internal/store"
)

type slowProber struct {
	delay time.Duration

	mu          sync.Mutex
	inflight    int
	maxInflight int
	sawDeadline bool
}

func (p *slowProber) Probe(ctx context.Context, target string) domain.ProbeResult {
	p.mu.Lock()
	p.inflight++
	if p.inflight > p.maxInflight {
		p.maxInflight = p.inflight
	}
	if _, ok := ctx.Deadline(); ok {
		p.sawDeadline = true
	}
	p.mu.Unlock()

	time.Sleep(p.delay)

	p.mu.Lock()
	p.inflight--
	p.mu.Unlock()

	lat := 1.0
	return domain.ProbeResult{Status: domain.StatusUp, LatencyMS: &lat, Note: "HTTP 200"}
}

type recordingObserver struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
}

func (o *recordingObserver) StateChanged(s domain.Snapshot) {
	o.mu.Lock()
	o.snaps = append(o.snaps, s)
	o.mu.Unlock()
}

func makeTargets(n int) []domain.Target {
	out := make([]domain.Target, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Target{URL: fmt.Sprintf("https://t%d.example.com", i), Name: fmt.Sprintf("t%d", i)})
	}
	return out
}

func TestCycleRunner_BoundsConcurrencyAndCompletes(t *testing.T) {
	targets := makeTargets(5)
	st := store.New(targets)
	p := &slowProber{delay: 30 * time.Millisecond}
	obs := &recordingObserver{}

	r := NewCycleRunner(zap.NewNop(), st, p, obs, time.Second, 2)
	r.RunCycle(context.Background(), targets)

	p.mu.Lock()
	maxInflight := p.maxInflight
	sawDeadline := p.sawDeadline
	p.mu.Unlock()

	if maxInflight != 2 {
		t.Fatalf("want exactly 2 probes in flight at peak, got %d", maxInflight)
	}
	if !sawDeadline {
		t.Fatalf("each probe should run under a per-probe deadline")
	}

	// Completeness: every target resolved, none still checking.
	snap := st.Snapshot()
	if len(snap.Rows) != len(targets) {
		t.Fatalf("want %d rows, got %d", len(targets), len(snap.Rows))
	}
	for _, row := range snap.Rows {
		if row.Result.Status == domain.StatusChecking {
			t.Fatalf("target %s still checking after RunCycle returned", row.Target.URL)
		}
		if row.Result.CheckedAt.IsZero() {
			t.Fatalf("target %s missing checked_at", row.Target.URL)
		}
	}
}

func TestCycleRunner_PublishesCheckingFirstThenIncrementally(t *testing.T) {
	targets := makeTargets(3)
	st := store.New(targets)
	obs := &recordingObserver{}

	r := NewCycleRunner(zap.NewNop(), st, &slowProber{delay: 5 * time.Millisecond}, obs, time.Second, 1)
	r.RunCycle(context.Background(), targets)

	obs.mu.Lock()
	defer obs.mu.Unlock()

	// One notification for the checking transition plus one per completion.
	if len(obs.snaps) != 1+len(targets) {
		t.Fatalf("want %d notifications, got %d", 1+len(targets), len(obs.snaps))
	}
	first := obs.snaps[0]
	if first.Summary.Checking != len(targets) {
		t.Fatalf("first snapshot should show every target checking: %+v", first.Summary)
	}
	last := obs.snaps[len(obs.snaps)-1]
	if last.Summary.Checking != 0 || last.Summary.Up != len(targets) {
		t.Fatalf("last snapshot should show every target up: %+v", last.Summary)
	}
}

func TestCycleRunner_EmptyTargetListIsANoop(t *testing.T) {
	st := store.New(nil)
	obs := &recordingObserver{}
	r := NewCycleRunner(zap.NewNop(), st, &slowProber{}, obs, time.Second, 4)
	r.RunCycle(context.Background(), nil)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.snaps) != 0 {
		t.Fatalf("no notifications expected for an empty cycle, got %d", len(obs.snaps))
	}
}
