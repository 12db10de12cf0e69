package clock

import (
	"sync"
	"time"
)

// Clock is the only source of "now" inside the engine. Every duration
// computation must read the same instance.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function, e.g. time.Now, to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Monotonic wraps a base clock and never returns an instant earlier than one
// it already returned, so wall-clock steps backwards cannot rewind lifecycle
// progress.
type Monotonic struct {
	base Clock

	mu   sync.Mutex
	last time.Time
}

func NewMonotonic(base Clock) *Monotonic {
	if base == nil {
		base = Func(time.Now)
	}
	return &Monotonic{base: base}
}

func (m *Monotonic) Now() time.Time {
	now := m.base.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Before(m.last) {
		return m.last
	}
	m.last = now
	return now
}

// System is the production clock.
func System() Clock {
	return NewMonotonic(Func(time.Now))
}

// Manual is a settable clock for tests and replays.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
