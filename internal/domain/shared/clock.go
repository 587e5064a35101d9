package shared

import (
	"sync"
	"time"
)

// Clock abstracts time so planning dates and feed backoff can be driven by tests
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now().UTC() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// NewRealClock returns the wall clock in UTC
func NewRealClock() Clock {
	return realClock{}
}

// MockClock is a manually driven clock. Sleep returns immediately after moving
// time forward, so retry backoff in tests is observable without waiting.
// It is safe for concurrent use by feed fan-out.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock starts a mock clock at start, or at the wall clock when start is zero
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *MockClock) Sleep(d time.Duration) {
	m.Advance(d)
}

// Advance moves the clock forward
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set moves the clock to t
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
