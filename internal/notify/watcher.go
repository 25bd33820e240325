package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"netpulse/internal/domain"
)

// Watcher observes state snapshots and sends an alert whenever a target
// flips between reachable and unreachable. checking results are ignored; a
// target's first resolved result only seeds the baseline, so startup never
// produces a storm of alerts.
type Watcher struct {
	Logger   *zap.Logger
	Notifier Notifier
	Timeout  time.Duration

	mu   sync.Mutex
	last map[domain.TargetID]bool // reachable?
}

func NewWatcher(logger *zap.Logger, n Notifier) *Watcher {
	return &Watcher{
		Logger:   logger,
		Notifier: n,
		Timeout:  10 * time.Second,
		last:     make(map[domain.TargetID]bool),
	}
}

func (w *Watcher) StateChanged(s domain.Snapshot) {
	for _, row := range s.Rows {
		if row.Result.Status == domain.StatusChecking {
			continue
		}
		reachable := row.Result.Status != domain.StatusDown

		w.mu.Lock()
		prev, seen := w.last[row.Target.ID()]
		w.last[row.Target.ID()] = reachable
		w.mu.Unlock()

		if !seen || prev == reachable {
			continue
		}
		w.alert(row, reachable)
	}
}

func (w *Watcher) alert(row domain.Row, reachable bool) {
	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()

	a := Alert{Recovered: reachable, Target: row.Target, Result: row.Result}
	if err := w.Notifier.Send(ctx, a); err != nil {
		w.Logger.Warn("alert_send_failed",
			zap.String("url", row.Target.URL),
			zap.Error(err),
		)
	}
}
