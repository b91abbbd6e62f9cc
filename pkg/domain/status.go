package domain

import "time"

// Status is a point-in-time copy of the scheduler state, safe to render
type Status struct {
	Paused         bool          `json:"paused"`
	Interval       time.Duration `json:"interval"`
	MinInterval    time.Duration `json:"min_interval"`
	MaxInterval    time.Duration `json:"max_interval"`
	LastRun        time.Time     `json:"last_run"`
	TotalDelivered int64         `json:"total_delivered"`
	LastError      string        `json:"last_error,omitempty"`
	LastErrorAt    time.Time     `json:"last_error_at"`
}

// NeverRun reports whether no cycle has completed yet
func (s Status) NeverRun() bool { return s.LastRun.IsZero() }
