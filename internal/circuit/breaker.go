// Package circuit implements a Closed → Open → Half-Open circuit breaker
// guarding calls to remote services (the API as seen from micctl, the SMTP
// relay as seen from the email worker).
package circuit

import (
	"errors"
	"sync"
	"time"
)

// State of a Breaker.
type State int

const (
	Closed   State = iota // requests flow
	Open                  // fast-fail every request
	HalfOpen              // probing recovery
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned by Execute while the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

// Config holds the tunables. Zero values take the defaults.
type Config struct {
	FailureThreshold int           // consecutive failures to trip open (5)
	SuccessThreshold int           // consecutive half-open successes to close (2)
	OpenTimeout      time.Duration // time open before probing (60s)
}

func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// Breaker is safe for concurrent use.
type Breaker struct {
	mu               sync.Mutex
	state            State
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	// IsFailure decides which errors count against the breaker; nil means all.
	isFailure func(error) bool
}

// New creates a breaker in the Closed state.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &Breaker{
		state:            Closed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
	}
}

// WithFailureFilter restricts which errors trip the breaker. Errors that do
// not match still reach the caller but count as successes.
func (cb *Breaker) WithFailureFilter(isFailure func(error) bool) *Breaker {
	cb.isFailure = isFailure
	return cb
}

// State returns the current state, moving open → half-open once the open
// timeout has elapsed.
func (cb *Breaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == Open && time.Since(cb.lastFailureTime) >= cb.openTimeout {
		cb.state = HalfOpen
		cb.successCount = 0
	}
	return cb.state
}

// Execute runs fn through the breaker, failing fast with ErrOpen.
func (cb *Breaker) Execute(fn func() error) error {
	if cb.State() == Open {
		return ErrOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil && (cb.isFailure == nil || cb.isFailure(err)) {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return err
}

// onFailure must be called under lock.
func (cb *Breaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	switch cb.state {
	case Closed:
		if cb.failureCount >= cb.failureThreshold {
			cb.state = Open
			cb.successCount = 0
		}
	case HalfOpen:
		cb.state = Open
		cb.failureCount = 0
	}
}

// onSuccess must be called under lock.
func (cb *Breaker) onSuccess() {
	switch cb.state {
	case Closed:
		cb.failureCount = 0
	case HalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = Closed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}
