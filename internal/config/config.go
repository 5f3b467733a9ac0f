package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/wave-data-etl/internal/domain"
)

// Config holds all tool settings, populated from environment variables.
// Command-line flags may override the input and output fields after Load.
type Config struct {
	Input          string
	Schema         domain.SchemaKind
	EpochReference time.Time
	ChartSelection string
	OutputDir      string
	ReportTopN     int

	ChartWidth    int
	ChartHeight   int
	HistogramBins int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka record sink configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSinkTopic     string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	schema, err := domain.ParseSchemaKind(sharedcfg.EnvOrDefault("BUOY_SCHEMA", "auto"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUOY_SCHEMA: %w", err)
	}

	epochRef, err := time.Parse(time.RFC3339, sharedcfg.EnvOrDefault("BUOY_EPOCH_REFERENCE", "1970-01-01T00:00:00Z"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUOY_EPOCH_REFERENCE: %w", err)
	}

	topN, err := parsePositiveInt("REPORT_TOP_N", 10)
	if err != nil {
		return nil, err
	}
	width, err := parsePositiveInt("CHART_WIDTH", 1500)
	if err != nil {
		return nil, err
	}
	height, err := parsePositiveInt("CHART_HEIGHT", 800)
	if err != nil {
		return nil, err
	}
	bins, err := parsePositiveInt("HISTOGRAM_BINS", 20)
	if err != nil {
		return nil, err
	}

	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Input:          os.Getenv("BUOY_INPUT"),
		Schema:         schema,
		EpochReference: epochRef.UTC(),
		ChartSelection: sharedcfg.EnvOrDefault("BUOY_CHARTS", "sigWave,peakP,meanP"),
		OutputDir:      sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		ReportTopN:     topN,

		ChartWidth:    width,
		ChartHeight:   height,
		HistogramBins: bins,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "normalized-buoy-records"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
