package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/drivers"
	"github.com/navid-fn/spread-radar/internal/models"
	"github.com/navid-fn/spread-radar/internal/publisher"
	"github.com/navid-fn/spread-radar/internal/ranker"
	"github.com/navid-fn/spread-radar/internal/snapshot"
)

func main() {
	appConfig := configs.AppLoad()

	var (
		sources   string
		asset     string
		minProfit float64
		top       int
		once      bool
	)
	flag.StringVar(&sources, "sources", strings.Join(appConfig.Sources.Enabled, ","), "Comma-separated sources: "+strings.Join(drivers.Available, ", "))
	flag.StringVar(&asset, "asset", "", "Asset to scan (defaults to ASSETS)")
	flag.Float64Var(&minProfit, "min-profit", appConfig.Ranker.MinProfitPercent, "Minimum net profit percent")
	flag.IntVar(&top, "top", appConfig.Ranker.TopK, "Number of pairs to print")
	flag.BoolVar(&once, "once", false, "Refresh once, print the ranking and exit")
	flag.Parse()

	logger := crawler.NewLogger(appConfig.LogLevel)

	appConfig.Sources.Enabled = strings.Split(sources, ",")
	if asset != "" {
		appConfig.Poller.Assets = []string{asset}
	}

	catalog, err := configs.LoadCatalog(appConfig.CatalogPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load exchange catalog")
	}

	httpConfig := crawler.DefaultHTTPConfig(appConfig.Poller.RequestsPerSecond)
	httpConfig.PollingInterval = appConfig.Poller.Interval
	httpConfig.RequestTimeout = appConfig.Poller.RequestTimeout

	srcs, err := drivers.Build(appConfig.Sources, catalog, crawler.NewHTTPClient(httpConfig.RequestTimeout), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := snapshot.NewStore()

	if once {
		c := crawler.NewCrawler(srcs, appConfig.Poller.Assets, store, nil, httpConfig, logger)
		for _, a := range appConfig.Poller.Assets {
			snap, err := c.Refresh(context.Background(), a)
			if err != nil {
				logger.WithError(err).Fatalf("Refresh of %s failed", a)
			}
			printRanking(snap, ranker.Rank(snap.Quotes, minProfit, ranker.Options{TopK: top}))
		}
		return
	}

	var snapshotPublisher crawler.SnapshotPublisher
	if appConfig.KafkaQuotes.Enabled {
		writer := publisher.NewWriter(appConfig.KafkaQuotes)
		defer writer.Close()
		snapshotPublisher = publisher.NewPublisher(writer, logger)
	} else {
		logger.Warn("KAFKA_BROKER not set, snapshots stay in this process")
	}

	c := crawler.NewCrawler(srcs, appConfig.Poller.Assets, store, snapshotPublisher, httpConfig, logger)
	logger.Infof("Initialized %s with %d sources", c.Name(), len(srcs))

	crawler.RunWithGracefulShutdown(logger, func(ctx context.Context, wg *sync.WaitGroup) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Run(ctx); err != nil {
				logger.WithError(err).Error("Crawler failed")
			}
		}()
	})
}

func printRanking(snap models.Snapshot, pairs []models.OpportunityPair) {
	mode := "live"
	if !snap.Live {
		mode = "simulated"
	}
	fmt.Printf("%s: %d quotes from %s (%s) at %s\n", snap.Asset, len(snap.Quotes), snap.Source, mode, snap.FetchedAt.Format("15:04:05"))

	if len(pairs) == 0 {
		fmt.Println("  no opportunities above threshold")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BUY\tSELL\tBUY PRICE\tSELL PRICE\tSPREAD\tNET\tNET %")
	for _, p := range pairs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f%%\n",
			p.BuyFrom, p.SellTo, p.BuyPrice, p.SellPrice, p.Spread, p.NetProfit, p.NetProfitPercent)
	}
	w.Flush()
}
