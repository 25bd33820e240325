package domain

import "time"

// TargetID identifies a target for the life of the process. The URL is the
// identity; the registry rejects duplicates.
type TargetID string

// Target is one monitored endpoint. Supplied by the registry at startup and
// never mutated afterwards.
type Target struct {
	URL  string `yaml:"url" json:"url"`
	Name string `yaml:"name" json:"name"`
	Kind string `yaml:"kind" json:"kind"`
}

func (t Target) ID() TargetID { return TargetID(t.URL) }

// Status classifies the latest probe of a target.
type Status string

const (
	StatusChecking Status = "checking"  // probe in flight
	StatusUp       Status = "up"        // readable ok response within the slow threshold
	StatusUpOpaque Status = "up_opaque" // reachable, but the response was not readable
	StatusSlow     Status = "slow"      // reachable, past the slow threshold
	StatusDown     Status = "down"      // bad status, timeout, or unreachable
)

// ProbeResult is the outcome of a single probe.
//
// LatencyMS is a pointer so absence is representable: it is set only when a
// network round-trip actually completed (nil for checking, timeout and
// unreachable results).
type ProbeResult struct {
	Status    Status    `json:"status"`
	LatencyMS *float64  `json:"latency_ms,omitempty"`
	Note      string    `json:"note,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Row pairs a target with its latest result.
type Row struct {
	Target Target      `json:"target"`
	Result ProbeResult `json:"result"`
}

// Summary holds aggregate counts per status.
type Summary struct {
	Checking int `json:"checking"`
	Up       int `json:"up"`
	UpOpaque int `json:"up_opaque"`
	Slow     int `json:"slow"`
	Down     int `json:"down"`
}

// Snapshot is what observers receive after every state change: all rows in
// registry order plus the aggregate counts.
type Snapshot struct {
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// Observer is notified after each state-store change. Implemented by
// collaborators (renderer, alerting); the core only calls it.
type Observer interface {
	StateChanged(Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) StateChanged(s Snapshot) { f(s) }

// MultiObserver fans a notification out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) StateChanged(s Snapshot) {
	for _, o := range m {
		if o != nil {
			o.StateChanged(s)
		}
	}
}
