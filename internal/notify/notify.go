package notify

import (
	"context"

	"go.uber.org/multierr"

	"netpulse/internal/domain"
)

// Alert describes one reachability flip of one target: either it stopped
// answering or it came back.
type Alert struct {
	Recovered bool
	Target    domain.Target
	Result    domain.ProbeResult
}

type Notifier interface {
	Send(ctx context.Context, a Alert) error
}

// Multi fans an alert out to every notifier, best effort, and reports all
// failures together.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, a Alert) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, a))
	}
	return errs
}
