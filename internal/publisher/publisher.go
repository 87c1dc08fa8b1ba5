// Package publisher sends quote snapshots to Kafka as JSON.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher handles sending snapshots to Kafka.
type Publisher struct {
	writer MessageWriter
	logger logrus.FieldLogger
}

// NewWriter builds the Kafka writer for the quotes topic.
func NewWriter(cfg configs.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  kafka.Zstd,
	}
}

func NewPublisher(writer MessageWriter, logger logrus.FieldLogger) *Publisher {
	return &Publisher{writer: writer, logger: logger.WithField("component", "publisher")}
}

// PublishSnapshot writes snap keyed by asset so one asset stays on one partition.
func (p *Publisher) PublishSnapshot(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serialize failed: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(snap.Asset),
		Value: data,
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}

	p.logger.WithFields(logrus.Fields{"asset": snap.Asset, "id": snap.ID}).Debug("Snapshot published")
	return nil
}
