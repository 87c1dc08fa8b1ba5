package main

import (
	"database/sql"
	"flag"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/navid-fn/spread-radar/configs"
	"github.com/navid-fn/spread-radar/internal/crawler"
	"github.com/navid-fn/spread-radar/internal/migrations"
	"github.com/pressly/goose/v3"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down, status, version")
	flag.Parse()

	cfg := configs.AppLoad()
	logger := crawler.NewLogger(cfg.LogLevel)

	db, err := sql.Open("clickhouse", cfg.DBDSN)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.WithError(err).Fatal("Failed to ping database")
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("clickhouse"); err != nil {
		logger.WithError(err).Fatal("Goose: failed to set dialect")
	}

	logger.WithField("command", *command).Info("Running database migrations...")
	if err := goose.Run(*command, db, "."); err != nil {
		logger.WithError(err).Fatal("Goose migration failed")
	}

	logger.Info("Migrations completed successfully")
}
