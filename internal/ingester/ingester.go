// Package ingester consumes quote snapshots from Kafka and persists them to ClickHouse.
// It handles batching, retry logic, and graceful shutdown.
package ingester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/navid-fn/spread-radar/internal/models"
	storagemodels "github.com/navid-fn/spread-radar/internal/storage/models"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Reader is the part of *kafka.Reader the ingester needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// QuoteStorage persists quote rows.
type QuoteStorage interface {
	CreateQuotes(ctx context.Context, quotes []*storagemodels.Quote) error
}

// Config holds ingester configuration parameters.
type Config struct {
	// BatchSize is the maximum number of quote rows to accumulate before flushing to DB.
	BatchSize int

	// BatchTimeout is the maximum time to wait before flushing, even if batch isn't full.
	BatchTimeout time.Duration

	// RetryDelay is the pause between failed inserts. Defaults to 2s.
	RetryDelay time.Duration
}

// Ingester consumes snapshots from Kafka and writes their quotes to ClickHouse in batches.
// Offsets are only committed after a successful insert (at-least-once).
type Ingester struct {
	reader  Reader
	storage QuoteStorage
	logger  logrus.FieldLogger
	cfg     Config
}

func NewIngester(reader Reader, storage QuoteStorage, logger logrus.FieldLogger, cfg Config) *Ingester {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 5 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Ingester{
		reader:  reader,
		storage: storage,
		logger:  logger.WithField("component", "ingester"),
		cfg:     cfg,
	}
}

// Start runs the ingestion loop until ctx is cancelled, then flushes what is buffered.
//
// The loop:
//  1. Fetches messages from Kafka
//  2. Parses JSON snapshots into quote rows
//  3. Accumulates rows until batch is full or timeout
//  4. Inserts batch to ClickHouse (with retry on failure)
//  5. Commits Kafka offsets only after successful DB insert
func (ig *Ingester) Start(ctx context.Context) error {
	ig.logger.WithField("batch_size", ig.cfg.BatchSize).Info("Starting quote ingester")

	batch := make([]*storagemodels.Quote, 0, ig.cfg.BatchSize)
	msgs := make([]kafka.Message, 0, ig.cfg.BatchSize)

	ticker := time.NewTicker(ig.cfg.BatchTimeout)
	defer ticker.Stop()

	// flush uses its own context on shutdown so buffered rows still land.
	flush := func(ctx context.Context) error {
		if len(msgs) == 0 {
			return nil
		}

		for {
			if err := ig.storage.CreateQuotes(ctx, batch); err != nil {
				ig.logger.WithError(err).WithField("count", len(batch)).Error("DB insert failed, retrying")
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(ig.cfg.RetryDelay):
					continue
				}
			}
			break
		}

		if err := ig.reader.CommitMessages(ctx, msgs...); err != nil {
			ig.logger.WithError(err).Warn("Failed to commit offsets")
		}

		ig.logger.WithField("count", len(batch)).Debug("Flushed quotes")
		batch = batch[:0]
		msgs = msgs[:0]
		ticker.Reset(ig.cfg.BatchTimeout)
		return nil
	}

	shutdown := func() error {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return flush(flushCtx)
	}

	for {
		select {
		case <-ctx.Done():
			return shutdown()

		case <-ticker.C:
			if err := flush(ctx); err != nil {
				if ctx.Err() != nil {
					return shutdown()
				}
				return err
			}

		default:
			fetchCtx, cancel := context.WithTimeout(ctx, ig.cfg.BatchTimeout)
			m, err := ig.reader.FetchMessage(fetchCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return shutdown()
				}
				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				ig.logger.WithError(err).Error("Kafka fetch error")
				select {
				case <-ctx.Done():
					return shutdown()
				case <-time.After(time.Second):
				}
				continue
			}

			rows, err := ParseMessage(m.Value)
			if err != nil {
				ig.logger.WithError(err).WithField("offset", m.Offset).Warn("Skipping unreadable message")
				// committed with the next flush
				msgs = append(msgs, m)
				continue
			}

			batch = append(batch, rows...)
			msgs = append(msgs, m)

			if len(batch) >= ig.cfg.BatchSize {
				if err := flush(ctx); err != nil {
					if ctx.Err() != nil {
						return shutdown()
					}
					return err
				}
			}
		}
	}
}

// ParseMessage decodes a JSON snapshot into one row per valid quote.
func ParseMessage(value []byte) ([]*storagemodels.Quote, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(value, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.ID == "" || snap.Asset == "" {
		return nil, fmt.Errorf("missing required fields: id=%q asset=%q", snap.ID, snap.Asset)
	}

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	rows := make([]*storagemodels.Quote, 0, len(snap.Quotes))
	for _, q := range snap.Quotes {
		if q.Name == "" || math.IsNaN(q.Price) || math.IsInf(q.Price, 0) || q.Price <= 0 {
			continue
		}
		rows = append(rows, &storagemodels.Quote{
			SnapshotID:    snap.ID,
			Asset:         snap.Asset,
			Source:        snap.Source,
			Exchange:      q.Name,
			Price:         q.Price,
			Fee:           q.Fee,
			Volume:        q.Volume,
			Change24h:     q.Change24h,
			PaymentMethod: q.PaymentMethod,
			Live:          snap.Live,
			FetchedAt:     fetchedAt,
		})
	}
	return rows, nil
}
