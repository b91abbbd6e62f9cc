package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/umputun/newscast/pkg/domain"
)

// ErrIntervalOutOfRange is returned when an interval is outside the configured bounds
var ErrIntervalOutOfRange = errors.New("interval out of range")

// State is the shared pause flag, interval and run counters.
// Admin commands and the scheduler loop both use it, every access is under the mutex.
type State struct {
	mu             sync.RWMutex
	paused         bool
	interval       time.Duration
	minInterval    time.Duration
	maxInterval    time.Duration
	lastRun        time.Time
	totalDelivered int64
	lastError      string
	lastErrorAt    time.Time
}

// NewState makes a State with the initial interval clamped into [minInterval, maxInterval]
func NewState(interval, minInterval, maxInterval time.Duration) *State {
	if maxInterval < minInterval {
		maxInterval = minInterval
	}
	interval = max(min(interval, maxInterval), minInterval)
	return &State{interval: interval, minInterval: minInterval, maxInterval: maxInterval}
}

// Pause stops scheduled cycles
func (s *State) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume restarts scheduled cycles
func (s *State) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// Paused reports the pause flag
func (s *State) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// SetInterval changes the delivery interval. Out of range values leave it unchanged.
func (s *State) SetInterval(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < s.minInterval || d > s.maxInterval {
		return fmt.Errorf("%w: %v is not within [%v, %v]", ErrIntervalOutOfRange, d, s.minInterval, s.maxInterval)
	}
	s.interval = d
	return nil
}

// Due reports whether a scheduled cycle should start at now
func (s *State) Due(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.paused {
		return false
	}
	return s.lastRun.IsZero() || now.Sub(s.lastRun) >= s.interval
}

// FinishRun stamps a completed cycle and adds its delivered count
func (s *State) FinishRun(now time.Time, delivered int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = now
	s.totalDelivered += int64(delivered)
}

// SetError keeps err as the last error shown to admins
func (s *State) SetError(err error, now time.Time) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err.Error()
	s.lastErrorAt = now
}

// Status returns a consistent snapshot of all fields
func (s *State) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Status{
		Paused:         s.paused,
		Interval:       s.interval,
		MinInterval:    s.minInterval,
		MaxInterval:    s.maxInterval,
		LastRun:        s.lastRun,
		TotalDelivered: s.totalDelivered,
		LastError:      s.lastError,
		LastErrorAt:    s.lastErrorAt,
	}
}
