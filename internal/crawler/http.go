package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPConfig controls polling cadence and outbound request pacing.
type HTTPConfig struct {
	RateLimiter     *rate.Limiter
	PollingInterval time.Duration
	RequestTimeout  time.Duration
}

func DefaultHTTPConfig(requestsPerSecond float64) *HTTPConfig {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSec
	}
	return &HTTPConfig{
		RateLimiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), DefaultRateBurst),
		PollingInterval: DefaultPollInterval,
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// NewHTTPClient returns the client shared by HTTP sources.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// StatusError reports a non-200 upstream response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Permanent reports a client error that a retry cannot fix.
// 408 and 429 are left retryable.
func (e *StatusError) Permanent() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// GetJSON performs a GET and decodes a 200 JSON response into out.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
