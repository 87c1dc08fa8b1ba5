package faulttolerance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig holds configuration for retry mechanisms
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	JitterRange float64 // 0.0 to 1.0
	Name        string

	// NonRetryable errors end the loop at once (matched with errors.Is).
	NonRetryable []error
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig(name string) RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		BaseDelay:    1 * time.Second,
		MaxDelay:     15 * time.Second,
		Multiplier:   2.0,
		JitterRange:  0.1,
		Name:         name,
		NonRetryable: []error{ErrCircuitBreakerOpen, context.Canceled},
	}
}

// Retryer handles retry logic with exponential backoff and jitter
type Retryer struct {
	config RetryConfig
	logger logrus.FieldLogger

	// rng is shared by concurrent callers
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRetryer creates a new retryer
func NewRetryer(config RetryConfig, logger logrus.FieldLogger) *Retryer {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 1 * time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 1.0 {
		config.Multiplier = 2.0
	}
	if config.JitterRange < 0 || config.JitterRange > 1.0 {
		config.JitterRange = 0.1
	}
	if config.Name == "" {
		config.Name = "Retryer"
	}

	return &Retryer{
		config: config,
		logger: logger.WithField("retryer", config.Name),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Execute runs fn until it succeeds, hits a non-retryable error,
// runs out of attempts, or ctx is done.
func (r *Retryer) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				r.logger.WithField("attempt", attempt).Info("Operation succeeded after retry")
			}
			return nil
		}
		lastErr = err

		if !r.isRetryable(err) {
			return err
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.delay(attempt)
		r.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay,
			"error":   err,
		}).Warn("Attempt failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", r.config.MaxAttempts, lastErr)
}

// delay is BaseDelay * Multiplier^(attempt-1), capped at MaxDelay, with jitter.
func (r *Retryer) delay(attempt int) time.Duration {
	d := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if d > float64(r.config.MaxDelay) {
		d = float64(r.config.MaxDelay)
	}

	if r.config.JitterRange > 0 {
		r.mu.Lock()
		defer r.mu.Unlock()
		jitter := r.rng.Float64() * r.config.JitterRange * d
		if r.rng.Float64() < 0.5 {
			d -= jitter
		} else {
			d += jitter
		}
	}

	if d < float64(r.config.BaseDelay) {
		d = float64(r.config.BaseDelay)
	}
	return time.Duration(d)
}

// PermanentError marks a failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so Retryer gives up at once and CircuitBreaker does not
// count it as a failure. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

func (r *Retryer) isRetryable(err error) bool {
	if IsPermanent(err) {
		return false
	}
	for _, target := range r.config.NonRetryable {
		if errors.Is(err, target) {
			return false
		}
	}
	return true
}

// ExecuteWithCircuitBreaker retries fn, each attempt guarded by cb.
func (r *Retryer) ExecuteWithCircuitBreaker(ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) error) error {
	return r.Execute(ctx, func(ctx context.Context) error {
		return cb.Execute(ctx, fn)
	})
}
