package crawler

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		logger := NewLogger(tt.level)
		if logger.GetLevel() != tt.expected {
			t.Errorf("Level %q: expected %s, got %s", tt.level, tt.expected, logger.GetLevel())
		}
	}
}

func TestDefaultHTTPConfig(t *testing.T) {
	cfg := DefaultHTTPConfig(0)

	if cfg.RateLimiter == nil {
		t.Fatal("Expected RateLimiter to be initialized")
	}
	if float64(cfg.RateLimiter.Limit()) != DefaultRequestsPerSec {
		t.Errorf("Expected default limit %v, got %v", DefaultRequestsPerSec, cfg.RateLimiter.Limit())
	}
	if cfg.RateLimiter.Burst() != DefaultRateBurst {
		t.Errorf("Expected burst %d, got %d", DefaultRateBurst, cfg.RateLimiter.Burst())
	}
	if cfg.PollingInterval != DefaultPollInterval {
		t.Errorf("Expected PollingInterval %v, got %v", DefaultPollInterval, cfg.PollingInterval)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("Expected RequestTimeout %v, got %v", DefaultRequestTimeout, cfg.RequestTimeout)
	}

	if custom := DefaultHTTPConfig(7); float64(custom.RateLimiter.Limit()) != 7 {
		t.Errorf("Expected limit 7, got %v", custom.RateLimiter.Limit())
	}
}
