package probe

import (
	"context"

	"netpulse/internal/domain"
)

// Prober performs one reachability check of one target URL. The ctx deadline
// is the time budget for the whole check; implementations never return an
// error — every failure mode is encoded in the result.
type Prober interface {
	Probe(ctx context.Context, target string) domain.ProbeResult
}
