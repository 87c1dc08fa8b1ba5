package main

import (
	"context"
	"sync"
	"time"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/ingester"
	"github.com/navid-fn/spread-radar/internal/storage"
	"github.com/segmentio/kafka-go"
)

func main() {
	appConfig := configs.AppLoad()
	logger := crawler.NewLogger(appConfig.LogLevel)

	if appConfig.KafkaQuotes.Broker == "" {
		logger.Fatal("KAFKA_BROKER is required for the ingester")
	}

	quoteStorage, err := storage.NewClickHouseStorage(appConfig.DBDSN)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to ClickHouse")
	}
	defer quoteStorage.Close()

	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{appConfig.KafkaQuotes.Broker},
		Topic:          appConfig.KafkaQuotes.Topic,
		GroupID:        appConfig.KafkaQuotes.GroupID,
		MinBytes:       1e3,  // 1KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 0,    // commits happen after each flush
	})
	defer kafkaReader.Close()

	svc := ingester.NewIngester(
		kafkaReader,
		quoteStorage,
		logger,
		ingester.Config{
			BatchSize:    appConfig.Ingester.BatchSize,
			BatchTimeout: time.Duration(appConfig.Ingester.BatchTimeoutSeconds) * time.Second,
		},
	)

	crawler.RunWithGracefulShutdown(logger, func(ctx context.Context, wg *sync.WaitGroup) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Start(ctx); err != nil {
				logger.WithError(err).Error("Ingester stopped with error")
			}
		}()
	})

	logger.Info("Ingester shutdown complete")
}
