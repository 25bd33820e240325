package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"netpulse/internal/domain"
)

// DefaultSlowThreshold is the cumulative round-trip time above which a
// reachable target is classified slow instead of up.
const DefaultSlowThreshold = 1200 * time.Millisecond

const (
	noteTimeout     = "timeout"
	noteUnreachable = "unreachable"
	noteOpaque      = "connect ok (response unreadable)"
)

// HTTPProber checks a target in two phases under one shared deadline:
// a direct GET, then, if the GET failed for any reason other than the
// deadline, a raw TCP connect to the target's host:port. The connect phase
// distinguishes "network path exists but no readable HTTP response" from
// "truly unreachable".
type HTTPProber struct {
	Client        *http.Client
	Dialer        *net.Dialer
	SlowThreshold time.Duration
}

// NewHTTPProber returns a prober with the given slow threshold
// (DefaultSlowThreshold when zero). The client carries no timeout of its
// own; the caller's ctx deadline governs both phases.
func NewHTTPProber(slowThreshold time.Duration) *HTTPProber {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}
	return &HTTPProber{
		Client:        &http.Client{},
		Dialer:        &net.Dialer{},
		SlowThreshold: slowThreshold,
	}
}

func (p *HTTPProber) Probe(ctx context.Context, target string) domain.ProbeResult {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.ProbeResult{Status: domain.StatusDown, Note: noteUnreachable}
	}

	resp, err := p.Client.Do(req)
	if err == nil {
		_ = resp.Body.Close()
		elapsed := time.Since(start)
		lat := millis(elapsed)
		note := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if resp.StatusCode >= 200 && resp.StatusCode < 400 {
			return domain.ProbeResult{Status: p.classify(elapsed, domain.StatusUp), LatencyMS: &lat, Note: note}
		}
		return domain.ProbeResult{Status: domain.StatusDown, LatencyMS: &lat, Note: note}
	}

	if deadlineHit(ctx, err) {
		// No budget left for a second attempt.
		return domain.ProbeResult{Status: domain.StatusDown, Note: noteTimeout}
	}

	return p.connect(ctx, target, start)
}

// connect is the reduced-visibility fallback: establishing a TCP connection
// proves the network path without an application-layer response. Elapsed
// time stays cumulative from the start of phase one.
func (p *HTTPProber) connect(ctx context.Context, target string, start time.Time) domain.ProbeResult {
	addr, err := hostPort(target)
	if err != nil {
		return domain.ProbeResult{Status: domain.StatusDown, Note: noteUnreachable}
	}

	conn, err := p.Dialer.DialContext(ctx, "tcp", addr)
	if err == nil {
		_ = conn.Close()
		elapsed := time.Since(start)
		lat := millis(elapsed)
		return domain.ProbeResult{Status: p.classify(elapsed, domain.StatusUpOpaque), LatencyMS: &lat, Note: noteOpaque}
	}

	if deadlineHit(ctx, err) {
		return domain.ProbeResult{Status: domain.StatusDown, Note: noteTimeout}
	}
	return domain.ProbeResult{Status: domain.StatusDown, Note: noteUnreachable}
}

func (p *HTTPProber) classify(elapsed time.Duration, fast domain.Status) domain.Status {
	if elapsed > p.SlowThreshold {
		return domain.StatusSlow
	}
	return fast
}

func deadlineHit(ctx context.Context, err error) bool {
	return ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded)
}

func millis(d time.Duration) float64 {
	return d.Seconds() * 1000 // ms
}

// hostPort pulls host:port from a URL, defaulting the port by scheme.
func hostPort(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("no host in %q", raw)
	}
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
