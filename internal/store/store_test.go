package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"netpulse/internal/domain"
)

func targets(n int) []domain.Target {
	out := make([]domain.Target, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Target{
			URL:  fmt.Sprintf("https://t%d.example.com", i),
			Name: fmt.Sprintf("t%d", i),
			Kind: "web",
		})
	}
	return out
}

func TestStore_SetOverwritesInPlace(t *testing.T) {
	ts := targets(1)
	s := New(ts)
	id := ts[0].ID()

	if _, ok := s.Get(id); ok {
		t.Fatalf("expected no result before first Set")
	}

	s.Set(id, domain.ProbeResult{Status: domain.StatusChecking, CheckedAt: time.Now()})
	s.Set(id, domain.ProbeResult{Status: domain.StatusDown, Note: "timeout", CheckedAt: time.Now()})

	got, ok := s.Get(id)
	if !ok || got.Status != domain.StatusDown {
		t.Fatalf("want the last write, got %+v ok=%v", got, ok)
	}

	snap := s.Snapshot()
	if len(snap.Rows) != 1 {
		t.Fatalf("want exactly one row per target, got %d", len(snap.Rows))
	}
}

func TestStore_SnapshotOrderAndCounts(t *testing.T) {
	ts := targets(4)
	s := New(ts)
	lat := 12.5
	s.Set(ts[0].ID(), domain.ProbeResult{Status: domain.StatusUp, LatencyMS: &lat})
	s.Set(ts[1].ID(), domain.ProbeResult{Status: domain.StatusDown, Note: "unreachable"})
	s.Set(ts[2].ID(), domain.ProbeResult{Status: domain.StatusChecking})
	s.Set(ts[3].ID(), domain.ProbeResult{Status: domain.StatusSlow, LatencyMS: &lat})

	snap := s.Snapshot()
	if len(snap.Rows) != 4 {
		t.Fatalf("want 4 rows, got %d", len(snap.Rows))
	}
	for i, row := range snap.Rows {
		if row.Target.URL != ts[i].URL {
			t.Fatalf("row %d out of registry order: %s", i, row.Target.URL)
		}
	}
	sum := snap.Summary
	if sum.Up != 1 || sum.Down != 1 || sum.Checking != 1 || sum.Slow != 1 || sum.UpOpaque != 0 {
		t.Fatalf("bad summary: %+v", sum)
	}
}

func TestStore_ConcurrentWritersDoNotCorrupt(t *testing.T) {
	ts := targets(8)
	s := New(ts)

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tgt := ts[(w+i)%len(ts)]
				lat := float64(i)
				s.Set(tgt.ID(), domain.ProbeResult{
					Status:    domain.StatusUp,
					LatencyMS: &lat,
					Note:      "HTTP 200",
					CheckedAt: time.Now(),
				})
				_ = s.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.Rows) != len(ts) {
		t.Fatalf("want %d rows, got %d", len(ts), len(snap.Rows))
	}
	for _, row := range snap.Rows {
		if row.Result.Status != domain.StatusUp || row.Result.LatencyMS == nil {
			t.Fatalf("corrupted entry: %+v", row.Result)
		}
	}
}
