package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Address() != "0.0.0.0:5010" {
		t.Errorf("Address: got %q, want 0.0.0.0:5010", cfg.HTTP.Address())
	}
	if cfg.HTTP.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout: got %v, want %v", cfg.HTTP.RequestTimeout, DefaultRequestTimeout)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("Storage.Driver: got %q, want memory", cfg.Storage.Driver)
	}
	if cfg.Ids.Strategy != "counter" {
		t.Errorf("Ids.Strategy: got %q, want counter", cfg.Ids.Strategy)
	}
	if len(cfg.Events.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers: got %v, want none", cfg.Events.KafkaBrokers)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
http:
  port: 8081
  request_timeout: 5s
storage:
  driver: redis
  redis_addr: localhost:6379
ids:
  strategy: uuid
events:
  kafka_brokers: [kafka:9092]
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("Port: got %d, want 8081", cfg.HTTP.Port)
	}
	if cfg.HTTP.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout: got %v, want 5s", cfg.HTTP.RequestTimeout)
	}
	if cfg.HTTP.Host != DefaultHost {
		t.Errorf("Host: got %q, want default %q", cfg.HTTP.Host, DefaultHost)
	}
	if cfg.Storage.Driver != "redis" || cfg.Storage.RedisAddr != "localhost:6379" {
		t.Errorf("Storage: got %+v", cfg.Storage)
	}
	if cfg.Events.KafkaTopic != DefaultKafkaTopic {
		t.Errorf("KafkaTopic: got %q, want default", cfg.Events.KafkaTopic)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "http:\n  port: 8081\n")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("ID_STRATEGY", "uuid")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port: got %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.HTTP.RequestTimeout != 7*time.Second {
		t.Errorf("RequestTimeout: got %v, want 7s", cfg.HTTP.RequestTimeout)
	}
	if strings.Join(cfg.Events.KafkaBrokers, ",") != "a:9092,b:9092" {
		t.Errorf("KafkaBrokers: got %v", cfg.Events.KafkaBrokers)
	}
	if cfg.Ids.Strategy != "uuid" {
		t.Errorf("Ids.Strategy: got %q, want uuid", cfg.Ids.Strategy)
	}
}

func TestLoad_InvalidTimeoutEnvKeepsDefault(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout: got %v, want default", cfg.HTTP.RequestTimeout)
	}
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		yaml string
		want string
	}{
		{"bad port env", map[string]string{"HTTP_PORT": "abc"}, "", "HTTP_PORT"},
		{"port range", nil, "http:\n  port: 70000\n", "http.port"},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}, "", "storage.driver"},
		{"redis without addr", map[string]string{"STORAGE_DRIVER": "redis"}, "", "redis_addr"},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres"}, "", "postgres_dsn"},
		{"mongo without uri", map[string]string{"STORAGE_DRIVER": "mongo"}, "", "mongo_uri"},
		{"unknown id strategy", map[string]string{"ID_STRATEGY": "random"}, "", "ids.strategy"},
		{"unknown log level", map[string]string{"LOG_LEVEL": "verbose"}, "", "logging.level"},
		{"bad yaml", nil, "http: [", "parse yaml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.yaml != "" {
				path = writeConfig(t, tc.yaml)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}
