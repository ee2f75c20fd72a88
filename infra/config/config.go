// Package config loads the service configuration from an optional YAML file
// and environment variable overrides.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 5010
	DefaultRequestTimeout = 30 * time.Second
	DefaultStorageDriver  = "memory"
	DefaultIdStrategy     = "counter"
	DefaultMongoDatabase  = "items"
	DefaultKafkaTopic     = "item-events"
	DefaultLogLevel       = "info"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Ids     IdsConfig     `yaml:"ids"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// RequestTimeout bounds every request's context.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Address returns host:port for the listener.
func (h HTTPConfig) Address() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

type StorageConfig struct {
	// Driver is one of: memory | redis | postgres | mongo.
	Driver        string `yaml:"driver"`
	RedisAddr     string `yaml:"redis_addr"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

type IdsConfig struct {
	// Strategy is one of: counter | uuid.
	Strategy string `yaml:"strategy"`
}

type EventsConfig struct {
	// KafkaBrokers enables the Kafka publisher when non-empty.
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LokiURL string `yaml:"loki_url"`
}

// Load reads the YAML file at path when path is non-empty, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:           DefaultHost,
			Port:           DefaultPort,
			RequestTimeout: DefaultRequestTimeout,
		},
		Storage: StorageConfig{
			Driver:        DefaultStorageDriver,
			MongoDatabase: DefaultMongoDatabase,
		},
		Ids: IdsConfig{
			Strategy: DefaultIdStrategy,
		},
		Events: EventsConfig{
			KafkaTopic: DefaultKafkaTopic,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

func applyEnv(cfg *Config) error {
	setString(&cfg.HTTP.Host, "HTTP_HOST")
	if s := os.Getenv("HTTP_PORT"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("HTTP_PORT %q is not a number", s)
		}
		cfg.HTTP.Port = n
	}
	if s := os.Getenv("REQUEST_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.HTTP.RequestTimeout = time.Duration(n) * time.Second
		}
	}

	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Storage.PostgresDSN, "POSTGRES_DSN")
	setString(&cfg.Storage.MongoURI, "MONGO_URI")
	setString(&cfg.Storage.MongoDatabase, "MONGO_DATABASE")
	setString(&cfg.Ids.Strategy, "ID_STRATEGY")

	if s := os.Getenv("KAFKA_BROKERS"); s != "" {
		var brokers []string
		for _, b := range strings.Split(s, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Events.KafkaBrokers = brokers
	}
	setString(&cfg.Events.KafkaTopic, "KAFKA_TOPIC")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.LokiURL, "LOKI_URL")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func validate(cfg *Config) error {
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d is out of range [1, 65535]", cfg.HTTP.Port)
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("http.request_timeout must be positive")
	}

	switch cfg.Storage.Driver {
	case "memory":
	case "redis":
		if cfg.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis driver")
		}
	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres driver")
		}
	case "mongo":
		if cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for the mongo driver")
		}
		if cfg.Storage.MongoDatabase == "" {
			return fmt.Errorf("storage.mongo_database must not be empty")
		}
	default:
		return fmt.Errorf("storage.driver %q unknown: want memory|redis|postgres|mongo", cfg.Storage.Driver)
	}

	switch cfg.Ids.Strategy {
	case "counter", "uuid":
	default:
		return fmt.Errorf("ids.strategy %q unknown: want counter|uuid", cfg.Ids.Strategy)
	}

	if len(cfg.Events.KafkaBrokers) > 0 && cfg.Events.KafkaTopic == "" {
		return fmt.Errorf("events.kafka_topic is required when kafka brokers are set")
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q unknown: want debug|info|warn|error", cfg.Logging.Level)
	}
	return nil
}
