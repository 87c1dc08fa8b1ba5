package crawler

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Default values
	DefaultPollInterval   = 60 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultRequestsPerSec = 2.0
	DefaultRateBurst      = 5

	// Circuit breaker per source
	MaxConsecutiveErrors = 5
	BreakerCooldown      = 2 * time.Minute
)

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// RunWithGracefulShutdown starts workers and blocks until SIGINT/SIGTERM
// cancels their context and every worker has returned.
func RunWithGracefulShutdown(
	logger logrus.FieldLogger,
	startWorkers func(ctx context.Context, wg *sync.WaitGroup),
) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("Received shutdown signal, gracefully shutting down...")
	}()

	var wg sync.WaitGroup
	startWorkers(ctx, &wg)

	logger.Info("All workers started")
	wg.Wait()

	return nil
}
