package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type IndexMode string

const (
	IndexLazy  IndexMode = "lazy"
	IndexEager IndexMode = "eager"
)

type SinkKind string

const (
	SinkCSV      SinkKind = "csv"
	SinkPostgres SinkKind = "postgres"
	SinkKafka    SinkKind = "kafka"
)

const defaultKafkaTopic = "account_settled"

var (
	ErrUnknownSink      = errors.New("unknown sink")
	ErrUnknownIndexMode = errors.New("unknown index mode")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrMissingSetting   = errors.New("missing setting")
)

// Config holds the runtime settings of a replay run.
type Config struct {
	LogLevel     string
	IndexMode    IndexMode
	Sink         SinkKind
	DatabaseURL  string
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads envFile when it exists and then builds the configuration from
// the environment. Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		LogLevel:    strings.ToLower(valueOr(getenv("LOG_LEVEL"), "info")),
		IndexMode:   IndexMode(strings.ToLower(valueOr(getenv("LEDGER_INDEX_MODE"), string(IndexLazy)))),
		Sink:        SinkKind(strings.ToLower(valueOr(getenv("LEDGER_SINK"), string(SinkCSV)))),
		DatabaseURL: strings.TrimSpace(getenv("DATABASE_URL")),
		KafkaTopic:  valueOr(getenv("KAFKA_TOPIC"), defaultKafkaTopic),
	}
	for _, broker := range strings.Split(getenv("KAFKA_BROKERS"), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
		}
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.LogLevel)
	}

	switch c.IndexMode {
	case IndexLazy, IndexEager:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIndexMode, c.IndexMode)
	}

	switch c.Sink {
	case SinkCSV:
	case SinkPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres sink", ErrMissingSetting)
		}
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("%w: KAFKA_BROKERS is required for the kafka sink", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSink, c.Sink)
	}
	return nil
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
