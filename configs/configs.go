// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// LogLevel is a logrus level name ("debug", "info", "warn", ...).
	LogLevel string

	// DBDSN is the ClickHouse connection string.
	DBDSN string

	// HistoryEnabled turns on the ClickHouse-backed history endpoint.
	HistoryEnabled bool

	// CatalogPath points to the YAML exchange catalog.
	CatalogPath string

	// Poller contains settings for the periodic quote refresh.
	Poller PollerConfig

	// Ranker contains default view parameters.
	Ranker RankerConfig

	// Sources contains settings for each quote source.
	Sources SourcesConfig

	// KafkaQuotes contains Kafka connection settings for quote snapshots.
	KafkaQuotes KafkaConfig

	// Ingester contains settings for the Kafka-to-ClickHouse ingester.
	Ingester IngesterConfig

	// Redis contains connection settings for the preferences store.
	Redis RedisConfig
}

// KafkaConfig holds Kafka connection settings.
type KafkaConfig struct {
	// Enabled toggles publishing; an empty broker disables it as well.
	Enabled bool

	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the Kafka topic for quote snapshots.
	Topic string

	// GroupID is the consumer group ID for the ingester.
	GroupID string
}

// IngesterConfig holds settings for batch processing.
type IngesterConfig struct {
	// BatchSize is the maximum number of quotes to accumulate before flushing.
	BatchSize int

	// BatchTimeoutSeconds is the maximum seconds to wait before flushing.
	BatchTimeoutSeconds int
}

// PollerConfig holds quote refresh settings.
type PollerConfig struct {
	// Assets to track (comma-separated in env), e.g. "BTC,ETH".
	Assets []string

	// Interval between two refreshes of the same source.
	Interval time.Duration

	// RequestsPerSecond paces outbound calls across all sources.
	RequestsPerSecond float64

	// RequestTimeout bounds a single upstream HTTP call.
	RequestTimeout time.Duration
}

// RankerConfig holds the defaults applied when a request omits them.
type RankerConfig struct {
	MinProfitPercent float64
	TopK             int
}

// SourcesConfig lists enabled sources and their endpoints.
type SourcesConfig struct {
	// Enabled is the list of source names (comma-separated in env).
	// Known names: quotesapi, coingecko, wallex, nobitex, static.
	Enabled []string

	// QuotesAPIURL is the base URL of the remote quotes endpoint.
	QuotesAPIURL string

	// CoingeckoURL is the CoinGecko API base URL.
	CoingeckoURL string

	// WallexURL is the Wallex markets endpoint.
	WallexURL string

	// NobitexURL is the Nobitex market stats endpoint.
	NobitexURL string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// getDatabaseDSN constructs the ClickHouse DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("CLICKHOUSE_USER", "user")
	dbPassword := getEnv("CLICKHOUSE_PASSWORD", "password")
	dbHost := getEnv("CLICKHOUSE_HOST", "localhost")
	dbPort := getEnv("CLICKHOUSE_TCP_PORT", "9000")
	dbName := getEnv("CLICKHOUSE_DB", "db")

	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&read_timeout=20s",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	broker := getEnv("KAFKA_BROKER", "")

	return &AppConfig{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBDSN:          getDatabaseDSN(),
		HistoryEnabled: getEnvBool("HISTORY_ENABLED", false),
		CatalogPath:    getEnv("EXCHANGE_CATALOG", "configs/exchanges.yaml"),
		Poller: PollerConfig{
			Assets:            getEnvList("ASSETS", []string{"BTC"}),
			Interval:          getEnvDuration("POLL_INTERVAL", 60*time.Second),
			RequestsPerSecond: getEnvFloat("REQUESTS_PER_SECOND", 2),
			RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		},
		Ranker: RankerConfig{
			MinProfitPercent: getEnvFloat("MIN_PROFIT_PERCENT", 0),
			TopK:             getEnvInt("TOP_K", 10),
		},
		Sources: SourcesConfig{
			Enabled:      getEnvList("SOURCES", []string{"static"}),
			QuotesAPIURL: getEnv("QUOTES_API_URL", "http://localhost:3000/api"),
			CoingeckoURL: getEnv("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
			WallexURL:    getEnv("WALLEX_URL", "https://api.wallex.ir/hector/web/v1/markets"),
			NobitexURL:   getEnv("NOBITEX_URL", "https://api.nobitex.ir/market/stats"),
		},
		KafkaQuotes: KafkaConfig{
			Enabled: broker != "",
			Broker:  broker,
			Topic:   getEnv("KAFKA_QUOTE_TOPIC", "radar_quotes"),
			GroupID: getEnv("KAFKA_QUOTE_GROUP_ID", "radar-quote-ingester"),
		},
		Ingester: IngesterConfig{
			BatchSize:           getEnvInt("BATCH_SIZE", 200),
			BatchTimeoutSeconds: getEnvInt("BATCH_TIMEOUT_SECONDS", 5),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     fmt.Sprintf("%s:%s", getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("PREFERENCES_TTL", 30*24*time.Hour),
		},
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration accepts Go duration strings ("90s", "2m").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
