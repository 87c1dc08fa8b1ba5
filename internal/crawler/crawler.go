// Package crawler periodically pulls exchange quotes from the configured
// sources and replaces the current snapshot per asset.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/navid-fn/spread-radar/internal/faulttolerance"
	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/sirupsen/logrus"
)

// Crawler refreshes one snapshot per asset every polling interval.
type Crawler struct {
	sources   []Source
	assets    []string
	sink      SnapshotSink
	publisher SnapshotPublisher
	cfg       *HTTPConfig
	logger    *logrus.Entry
	breakers  map[string]*faulttolerance.CircuitBreaker
	retryer   *faulttolerance.Retryer
	now       func() time.Time
}

// NewCrawler wires sources to a sink. publisher may be nil.
//
// Simulated sources are never blended with live ones: when at least one live
// source is configured, simulated sources are dropped.
func NewCrawler(sources []Source, assets []string, sink SnapshotSink, publisher SnapshotPublisher, cfg *HTTPConfig, logger logrus.FieldLogger) *Crawler {
	if cfg == nil {
		cfg = DefaultHTTPConfig(DefaultRequestsPerSec)
	}
	log := logger.WithField("component", "crawler")

	hasLive := false
	for _, s := range sources {
		if s.Live() {
			hasLive = true
			break
		}
	}

	kept := make([]Source, 0, len(sources))
	breakers := make(map[string]*faulttolerance.CircuitBreaker, len(sources))
	for _, s := range sources {
		if hasLive && !s.Live() {
			log.WithField("source", s.Name()).Warn("Ignoring simulated source alongside live sources")
			continue
		}
		kept = append(kept, s)
		breakers[s.Name()] = faulttolerance.NewCircuitBreaker(faulttolerance.CircuitBreakerConfig{
			MaxFailures: MaxConsecutiveErrors,
			Timeout:     BreakerCooldown,
			Name:        s.Name(),
		}, log)
	}

	retryCfg := faulttolerance.DefaultRetryConfig("crawler")
	return &Crawler{
		sources:   kept,
		assets:    assets,
		sink:      sink,
		publisher: publisher,
		cfg:       cfg,
		logger:    log,
		breakers:  breakers,
		retryer:   faulttolerance.NewRetryer(retryCfg, log),
		now:       time.Now,
	}
}

func (c *Crawler) Name() string { return "crawler" }

// Run refreshes immediately, then on every tick until ctx is cancelled.
func (c *Crawler) Run(ctx context.Context) error {
	if len(c.sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	if len(c.assets) == 0 {
		return fmt.Errorf("no assets configured")
	}

	names := make([]string, 0, len(c.sources))
	for _, s := range c.sources {
		names = append(names, s.Name())
	}
	c.logger.WithFields(logrus.Fields{
		"sources":  names,
		"assets":   c.assets,
		"interval": c.cfg.PollingInterval,
	}).Info("Starting crawler")

	c.RefreshAll(ctx)

	ticker := time.NewTicker(c.cfg.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping crawler")
			return nil
		case <-ticker.C:
			c.RefreshAll(ctx)
		}
	}
}

// RefreshAll refreshes every configured asset once.
func (c *Crawler) RefreshAll(ctx context.Context) {
	for _, asset := range c.assets {
		if ctx.Err() != nil {
			return
		}
		if _, err := c.Refresh(ctx, asset); err != nil && ctx.Err() == nil {
			c.logger.WithField("asset", asset).WithError(err).Error("Refresh failed, keeping previous snapshot")
		}
	}
}

type fetchResult struct {
	source string
	quotes []models.ExchangeQuote
	err    error
}

// Refresh fetches asset from every source concurrently, merges the results in
// source order and stores the snapshot. It fails only when every source fails.
func (c *Crawler) Refresh(ctx context.Context, asset string) (models.Snapshot, error) {
	results := make([]fetchResult, len(c.sources))

	var wg sync.WaitGroup
	for i, src := range c.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			quotes, err := c.fetch(ctx, src, asset)
			results[i] = fetchResult{source: src.Name(), quotes: quotes, err: err}
		}(i, src)
	}
	wg.Wait()

	var (
		merged  []models.ExchangeQuote
		used    []string
		lastErr error
	)
	for _, r := range results {
		if r.err != nil {
			lastErr = r.err
			c.logger.WithFields(logrus.Fields{"source": r.source, "asset": asset}).WithError(r.err).Warn("Source fetch failed")
			continue
		}
		used = append(used, r.source)
		merged = append(merged, r.quotes...)
	}

	if len(used) == 0 {
		return models.Snapshot{}, fmt.Errorf("all sources failed for %s: %w", asset, lastErr)
	}

	snap := models.Snapshot{
		ID:        uuid.NewString(),
		Asset:     strings.ToUpper(asset),
		Source:    strings.Join(used, ","),
		Live:      c.sources[0].Live(),
		FetchedAt: c.now().UTC(),
		Quotes:    Sanitize(merged, c.logger.WithField("asset", asset)),
	}

	c.sink.Set(snap)
	c.logger.WithFields(logrus.Fields{
		"asset":  snap.Asset,
		"quotes": len(snap.Quotes),
		"source": snap.Source,
	}).Debug("Snapshot stored")

	if c.publisher != nil {
		if err := c.publisher.PublishSnapshot(ctx, snap); err != nil {
			c.logger.WithError(err).Warn("Failed to publish snapshot")
		}
	}
	return snap, nil
}

func (c *Crawler) fetch(ctx context.Context, src Source, asset string) ([]models.ExchangeQuote, error) {
	var quotes []models.ExchangeQuote
	err := c.retryer.ExecuteWithCircuitBreaker(ctx, c.breakers[src.Name()], func(ctx context.Context) error {
		if err := c.cfg.RateLimiter.Wait(ctx); err != nil {
			return err
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()

		q, err := src.Fetch(reqCtx, asset)
		if err != nil {
			if permanent(err) {
				return faulttolerance.Permanent(err)
			}
			return err
		}
		quotes = q
		return nil
	})
	return quotes, err
}

// permanent covers unsupported assets and non-retryable HTTP statuses.
func permanent(err error) bool {
	if errors.Is(err, ErrUnsupportedAsset) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Permanent()
}

// Breakers reports the circuit state of every source.
func (c *Crawler) Breakers() []faulttolerance.Stats {
	out := make([]faulttolerance.Stats, 0, len(c.sources))
	for _, s := range c.sources {
		out = append(out, c.breakers[s.Name()].Stats())
	}
	return out
}

// Sanitize drops quotes the ranker must not see: empty names, duplicate names
// (first wins) and non-finite or non-positive prices. Fees outside [0, 100]
// are kept but logged.
func Sanitize(quotes []models.ExchangeQuote, logger logrus.FieldLogger) []models.ExchangeQuote {
	out := make([]models.ExchangeQuote, 0, len(quotes))
	seen := make(map[string]bool, len(quotes))

	for _, q := range quotes {
		q.Name = strings.TrimSpace(q.Name)
		switch {
		case q.Name == "":
			logger.Warn("Dropping quote without exchange name")
			continue
		case seen[strings.ToLower(q.Name)]:
			logger.WithField("exchange", q.Name).Debug("Dropping duplicate quote")
			continue
		case math.IsNaN(q.Price) || math.IsInf(q.Price, 0) || q.Price <= 0:
			logger.WithFields(logrus.Fields{"exchange": q.Name, "price": q.Price}).Warn("Dropping quote with invalid price")
			continue
		}

		if q.Fee < 0 || q.Fee > 100 || math.IsNaN(q.Fee) {
			logger.WithFields(logrus.Fields{"exchange": q.Name, "fee": q.Fee}).Warn("Quote fee outside 0-100%")
		}

		seen[strings.ToLower(q.Name)] = true
		out = append(out, q)
	}
	return out
}
