package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/drivers"
	"github.com/navid-fn/spread-radar/internal/migrations"
	"github.com/navid-fn/spread-radar/internal/prefs"
	"github.com/navid-fn/spread-radar/internal/publisher"
	"github.com/navid-fn/spread-radar/internal/snapshot"
	"github.com/navid-fn/spread-radar/server/config"
	"github.com/navid-fn/spread-radar/server/internal/handler"
	"github.com/navid-fn/spread-radar/server/internal/hub"
	"github.com/navid-fn/spread-radar/server/internal/repository"
	"github.com/navid-fn/spread-radar/server/internal/router"
	"github.com/navid-fn/spread-radar/server/internal/service"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before serving")
	flag.Parse()

	appConfig := configs.AppLoad()
	serverConfig := config.Load()

	logger := crawler.NewLogger(appConfig.LogLevel)
	if serverConfig.DebugMode {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := configs.LoadCatalog(appConfig.CatalogPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load exchange catalog")
	}

	httpConfig := crawler.DefaultHTTPConfig(appConfig.Poller.RequestsPerSecond)
	httpConfig.PollingInterval = appConfig.Poller.Interval
	httpConfig.RequestTimeout = appConfig.Poller.RequestTimeout

	sources, err := drivers.Build(appConfig.Sources, catalog, crawler.NewHTTPClient(httpConfig.RequestTimeout), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build quote sources")
	}

	store := snapshot.NewStore()

	var snapshotPublisher crawler.SnapshotPublisher
	if appConfig.KafkaQuotes.Enabled {
		writer := publisher.NewWriter(appConfig.KafkaQuotes)
		defer writer.Close()
		snapshotPublisher = publisher.NewPublisher(writer, logger)
		logger.WithField("topic", appConfig.KafkaQuotes.Topic).Info("Publishing snapshots to Kafka")
	}

	poller := crawler.NewCrawler(sources, appConfig.Poller.Assets, store, snapshotPublisher, httpConfig, logger)

	defaultAsset := "BTC"
	if len(appConfig.Poller.Assets) > 0 {
		defaultAsset = appConfig.Poller.Assets[0]
	}

	opportunityService := service.NewOpportunityService(store, appConfig.Ranker, defaultAsset)
	historyService := service.NewHistoryService(openHistory(appConfig, *migrateFlag, logger))
	preferenceStore := openPreferences(appConfig, prefs.Preferences{
		Asset:            defaultAsset,
		MinProfitPercent: appConfig.Ranker.MinProfitPercent,
		TopK:             appConfig.Ranker.TopK,
	}, logger)

	streamHub := hub.NewHub(opportunityService, store, serverConfig.CORSOrigins, logger)

	engine := router.NewRouter(&router.Config{
		OpportunityHandler: handler.NewOpportunityHandler(opportunityService),
		HealthHandler:      handler.NewHealthHandler(opportunityService, poller),
		HistoryHandler:     handler.NewHistoryHandler(historyService, defaultAsset),
		PreferenceHandler:  handler.NewPreferenceHandler(preferenceStore, logger),
		WebSocketHandler:   handler.NewWebSocketHandler(streamHub),
		CORSOrigins:        serverConfig.CORSOrigins,
		Logger:             logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", serverConfig.ServerPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	crawler.RunWithGracefulShutdown(logger, func(ctx context.Context, wg *sync.WaitGroup) {
		wg.Add(3)

		go func() {
			defer wg.Done()
			if err := poller.Run(ctx); err != nil {
				logger.WithError(err).Error("Crawler stopped")
			}
		}()

		go func() {
			defer wg.Done()
			streamHub.Run(ctx)
		}()

		go func() {
			defer wg.Done()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.WithError(err).Warn("HTTP server shutdown")
				}
			}()

			logger.WithField("addr", server.Addr).Info("HTTP server listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("HTTP server failed")
				os.Exit(1)
			}
		}()
	})

	logger.Info("Server shutdown complete")
}

// openHistory returns nil when history is disabled or ClickHouse is unreachable.
func openHistory(appConfig *configs.AppConfig, migrate bool, logger logrus.FieldLogger) repository.QuoteRepository {
	if !appConfig.HistoryEnabled {
		return nil
	}

	db, err := gorm.Open(clickhouse.Open(appConfig.DBDSN), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Warn("History disabled: failed to connect to ClickHouse")
		return nil
	}

	if migrate {
		sqlDB, err := db.DB()
		if err != nil {
			logger.WithError(err).Fatal("Failed to get sql.DB")
		}
		goose.SetBaseFS(migrations.FS)
		if err := goose.SetDialect("clickhouse"); err != nil {
			logger.WithError(err).Fatal("Goose: failed to set dialect")
		}
		logger.Info("Running database migrations...")
		if err := goose.Up(sqlDB, "."); err != nil {
			logger.WithError(err).Fatal("Goose migration failed")
		}
	}

	return repository.NewGormQuoteRepository(db)
}

// openPreferences falls back to process memory when Redis is off or down.
func openPreferences(appConfig *configs.AppConfig, defaults prefs.Preferences, logger logrus.FieldLogger) prefs.Store {
	if appConfig.Redis.Enabled {
		client, err := prefs.Connect(appConfig.Redis)
		if err == nil {
			logger.WithField("addr", appConfig.Redis.Addr).Info("Storing preferences in Redis")
			return prefs.NewRedisStore(client, defaults, appConfig.Redis.TTL)
		}
		logger.WithError(err).Warn("Redis unavailable, keeping preferences in memory")
	}
	return prefs.NewMemoryStore(defaults, appConfig.Redis.TTL)
}
