// Package storage provides the ClickHouse storage for quote history.
package storage

import (
	"context"
	"time"

	"github.com/navid-fn/spread-radar/internal/storage/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Storage defines the interface for persisting quote history.
// Implementations must be safe for concurrent use.
type Storage interface {
	// CreateQuotes inserts a batch of quote rows into the database.
	CreateQuotes(ctx context.Context, quotes []*models.Quote) error

	// Close releases database connection resources.
	Close() error
}

// clickhouseStorage implements Storage using native ClickHouse driver.
type clickhouseStorage struct {
	conn driver.Conn
}

// NewClickHouseStorage parses the DSN, opens a connection and pings it.
// Returns an error if connection cannot be established within 5 seconds.
func NewClickHouseStorage(dsn string) (Storage, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		return nil, err
	}

	return &clickhouseStorage{conn: conn}, nil
}

// CreateQuotes inserts quotes using ClickHouse batch insert.
// All quotes in the batch share the same inserted_at timestamp.
func (s *clickhouseStorage) CreateQuotes(ctx context.Context, quotes []*models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO quote (
			snapshot_id, asset, source, exchange,
			price, fee, volume, change_24h, payment_method,
			live, fetched_at, inserted_at
		)
	`)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, q := range quotes {
		err := batch.Append(
			q.SnapshotID,
			q.Asset,
			q.Source,
			q.Exchange,
			q.Price,
			q.Fee,
			q.Volume,
			q.Change24h,
			q.PaymentMethod,
			q.Live,
			q.FetchedAt,
			now,
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}

// Close closes the ClickHouse connection.
func (s *clickhouseStorage) Close() error {
	return s.conn.Close()
}
