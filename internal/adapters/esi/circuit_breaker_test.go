package esi_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/industry-planner/internal/adapters/esi"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

var errBoom = errors.New("boom")

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := esi.NewCircuitBreaker(3, time.Minute, shared.NewMockClock(clockStart))

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Call(func() error { return errBoom }), errBoom)
	}

	assert.Equal(t, esi.CircuitOpen, cb.State())
	assert.Equal(t, 3, cb.Failures())
	called := false
	assert.ErrorIs(t, cb.Call(func() error { called = true; return nil }), esi.ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := esi.NewCircuitBreaker(3, time.Minute, shared.NewMockClock(clockStart))

	_ = cb.Call(func() error { return errBoom })
	_ = cb.Call(func() error { return errBoom })
	assert.NoError(t, cb.Call(func() error { return nil }))

	assert.Zero(t, cb.Failures())
	assert.Equal(t, esi.CircuitClosed, cb.State())
}

func TestCircuitBreaker_FailedTrialCallReopens(t *testing.T) {
	clock := shared.NewMockClock(clockStart)
	cb := esi.NewCircuitBreaker(1, time.Minute, clock)
	_ = cb.Call(func() error { return errBoom })

	clock.Advance(30 * time.Second)
	assert.ErrorIs(t, cb.Call(func() error { return nil }), esi.ErrCircuitOpen)

	clock.Advance(30 * time.Second)
	assert.ErrorIs(t, cb.Call(func() error { return errBoom }), errBoom)
	assert.Equal(t, esi.CircuitOpen, cb.State())
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", esi.CircuitClosed.String())
	assert.Equal(t, "open", esi.CircuitOpen.String())
	assert.Equal(t, "half_open", esi.CircuitHalfOpen.String())
}
