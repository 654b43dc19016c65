package circuit_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/circuit"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func fail() error { return errBoom }
func ok() error   { return nil }

func TestBreaker_TripsAfterThreshold(t *testing.T) {
	cb := circuit.New(circuit.Config{FailureThreshold: 3, OpenTimeout: time.Hour})
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBoom)
	}
	assert.Equal(t, circuit.Open, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, circuit.ErrOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	cb := circuit.New(circuit.Config{FailureThreshold: 2})
	_ = cb.Execute(fail)
	_ = cb.Execute(ok)
	_ = cb.Execute(fail)
	assert.Equal(t, circuit.Closed, cb.State())
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	cb := circuit.New(circuit.Config{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})
	_ = cb.Execute(fail)
	assert.Equal(t, circuit.Open, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, circuit.HalfOpen, cb.State())

	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, circuit.HalfOpen, cb.State())
	assert.NoError(t, cb.Execute(ok))
	assert.Equal(t, circuit.Closed, cb.State())
}

func TestBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	cb := circuit.New(circuit.Config{FailureThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	_ = cb.Execute(fail)
	time.Sleep(20 * time.Millisecond)
	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, circuit.Open, cb.State())
}

func TestBreaker_FailureFilter(t *testing.T) {
	clientErr := errors.New("409")
	cb := circuit.New(circuit.Config{FailureThreshold: 1}).
		WithFailureFilter(func(err error) bool { return !errors.Is(err, clientErr) })

	assert.ErrorIs(t, cb.Execute(func() error { return clientErr }), clientErr)
	assert.Equal(t, circuit.Closed, cb.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "half-open", circuit.HalfOpen.String())
	assert.Equal(t, "unknown", circuit.State(9).String())
}
