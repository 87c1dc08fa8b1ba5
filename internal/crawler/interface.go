package crawler

import (
	"context"
	"errors"

	"github.com/navid-fn/spread-radar/internal/models"
)

// ErrUnsupportedAsset is returned by a source that cannot quote an asset at all.
var ErrUnsupportedAsset = errors.New("asset not supported by source")

// Source fetches the current quotes for one asset from one upstream.
type Source interface {
	Name() string

	// Live is false for simulated data.
	Live() bool

	Fetch(ctx context.Context, asset string) ([]models.ExchangeQuote, error)
}

// SnapshotSink receives every snapshot the crawler stores.
type SnapshotSink interface {
	Set(snap models.Snapshot)
}

// SnapshotPublisher forwards snapshots downstream (Kafka).
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap models.Snapshot) error
}
