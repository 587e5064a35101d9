package esi

import (
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed lets every call through
	CircuitClosed CircuitState = iota
	// CircuitOpen fails calls immediately
	CircuitOpen
	// CircuitHalfOpen lets one trial call through after the cool-down
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// ErrCircuitOpen is returned without calling the API while the breaker is open
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitBreaker stops calling the API after consecutive failures and tries
// again once the cool-down has passed
type CircuitBreaker struct {
	maxFailures int
	cooldown    time.Duration
	clock       shared.Clock

	mu          sync.Mutex
	state       CircuitState
	failures    int
	lastFailure time.Time
}

// NewCircuitBreaker creates a closed breaker. If clock is nil, uses the wall clock
func NewCircuitBreaker(maxFailures int, cooldown time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		clock:       clock,
		state:       CircuitClosed,
	}
}

// Call runs fn unless the circuit is open. The lock is not held while fn runs,
// so retries and backoff inside fn do not block other callers.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == CircuitOpen {
		if cb.clock.Now().Sub(cb.lastFailure) < cb.cooldown {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		cb.lastFailure = cb.clock.Now()
		if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = CircuitOpen
		}
		return err
	}
	cb.failures = 0
	cb.state = CircuitClosed
	return nil
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the consecutive failure count
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
