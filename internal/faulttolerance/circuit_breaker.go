// Package faulttolerance guards upstream quote sources with retries and circuit breakers.
package faulttolerance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// State is the current state of a circuit breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds configuration for the circuit breaker
type CircuitBreakerConfig struct {
	MaxFailures      int           // consecutive failures before opening
	Timeout          time.Duration // wait before Open -> Half-Open
	SuccessThreshold int           // consecutive successes needed to close from Half-Open
	Name             string
}

// Stats is a point-in-time view of a breaker, served on the health endpoint.
type Stats struct {
	Name            string    `json:"name"`
	State           string    `json:"state"`
	Failures        int       `json:"failures"`
	Successes       int       `json:"successes"`
	LastFailureTime time.Time `json:"lastFailureTime,omitempty"`
	LastError       string    `json:"lastError,omitempty"`
}

// CircuitBreaker stops calling a failing source until Timeout has passed.
type CircuitBreaker struct {
	config          CircuitBreakerConfig
	state           State
	failures        int
	successes       int
	lastFailureTime time.Time
	lastErr         error
	mu              sync.Mutex
	logger          logrus.FieldLogger
	now             func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig, logger logrus.FieldLogger) *CircuitBreaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.Name == "" {
		config.Name = "CircuitBreaker"
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		logger: logger.WithField("breaker", config.Name),
		now:    time.Now,
	}
}

// Execute runs fn unless the breaker is open.
// A cancelled context or a permanent error is not counted as a source failure.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !cb.allow() {
		return ErrCircuitBreakerOpen
	}

	err := fn(ctx)
	if err != nil && (ctx.Err() != nil || IsPermanent(err)) {
		return err
	}
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) > cb.config.Timeout {
			cb.setState(StateHalfOpen)
			cb.successes = 0
			return true
		}
		return false
	default:
		return false
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.successes = 0
		cb.lastFailureTime = cb.now()
		cb.lastErr = err

		switch cb.state {
		case StateClosed:
			if cb.failures >= cb.config.MaxFailures {
				cb.setState(StateOpen)
			}
		case StateHalfOpen:
			cb.setState(StateOpen)
		}
		return
	}

	cb.failures = 0
	cb.successes++
	if cb.state == StateHalfOpen && cb.successes >= cb.config.SuccessThreshold {
		cb.setState(StateClosed)
		cb.lastErr = nil
	}
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}
	old := cb.state
	cb.state = state
	cb.logger.WithFields(logrus.Fields{
		"from":     old.String(),
		"to":       state.String(),
		"failures": cb.failures,
	}).Warn("Circuit breaker state changed")
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns current statistics
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s := Stats{
		Name:            cb.config.Name,
		State:           cb.state.String(),
		Failures:        cb.failures,
		Successes:       cb.successes,
		LastFailureTime: cb.lastFailureTime,
	}
	if cb.lastErr != nil {
		s.LastError = cb.lastErr.Error()
	}
	return s
}
