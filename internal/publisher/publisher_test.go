package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected write deadline")
	}
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func TestPublishSnapshot(t *testing.T) {
	logger, _ := test.NewNullLogger()
	w := &fakeWriter{}
	p := NewPublisher(w, logger)

	snap := models.Snapshot{
		ID:        "id-1",
		Asset:     "BTC",
		Source:    "static",
		FetchedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Quotes:    []models.ExchangeQuote{{Name: "binance", Price: 100, Fee: 0.1}},
	}

	if err := p.PublishSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "BTC" {
		t.Errorf("Expected key BTC, got %s", w.msgs[0].Key)
	}

	var decoded models.Snapshot
	if err := json.Unmarshal(w.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("Expected JSON payload, got %v", err)
	}
	if decoded.ID != "id-1" || len(decoded.Quotes) != 1 || !decoded.FetchedAt.Equal(snap.FetchedAt) {
		t.Errorf("Unexpected decoded snapshot: %+v", decoded)
	}
}

func TestPublishSnapshotErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p := NewPublisher(&fakeWriter{err: errors.New("broker down")}, logger)

	if err := p.PublishSnapshot(context.Background(), models.Snapshot{Asset: "BTC"}); err == nil {
		t.Error("Expected error when broker fails")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.PublishSnapshot(ctx, models.Snapshot{Asset: "BTC"}); err != nil {
		t.Errorf("Expected shutdown write failure to be ignored, got %v", err)
	}
}

func TestNewWriter(t *testing.T) {
	w := NewWriter(configs.KafkaConfig{Broker: "localhost:9092", Topic: "radar_quotes"})
	defer w.Close()

	if w.Topic != "radar_quotes" {
		t.Errorf("Expected topic radar_quotes, got %s", w.Topic)
	}
	if w.Addr.String() != "localhost:9092" {
		t.Errorf("Expected broker localhost:9092, got %s", w.Addr.String())
	}
}
