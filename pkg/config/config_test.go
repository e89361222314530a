package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: development
server:
  port: 8085
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 15s
postgres:
  host: localhost
  port: 5432
  database: portfolios
  user: app
clickhouse:
  host: localhost
  port: 9000
  database: alphapulse
redis:
  addr: localhost:6379
kafka:
  brokers: ["localhost:9092"]
  bias_topic: alpha.biases
  signal_topic: alpha.signals
finnhub:
  api_key: test-key
  symbols: ["AAPL", "MSFT"]
alpha:
  score_ttl: 1h
  quote_ttl: 30s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("environment = %q", cfg.Environment)
	}
	if cfg.Server.Port != 8085 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Kafka.BiasTopic != "alpha.biases" || cfg.Kafka.SignalTopic != "alpha.signals" {
		t.Fatalf("topics = %q %q", cfg.Kafka.BiasTopic, cfg.Kafka.SignalTopic)
	}
	if len(cfg.Finnhub.Symbols) != 2 {
		t.Fatalf("symbols = %v", cfg.Finnhub.Symbols)
	}
	if cfg.Alpha.ScoreTTL != time.Hour {
		t.Fatalf("score_ttl = %v", cfg.Alpha.ScoreTTL)
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	yaml := `
environment: development
postgres:
  host: localhost
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected validation error without finnhub.api_key")
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	yaml := `
postgres:
  host: localhost
finnhub:
  api_key: k
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatal("expected validation error without environment")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "env-key")
	t.Setenv("SYMBOLS", "TSLA,NVDA,META")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Finnhub.APIKey != "env-key" {
		t.Fatalf("api key = %q", cfg.Finnhub.APIKey)
	}
	if len(cfg.Finnhub.Symbols) != 3 || cfg.Finnhub.Symbols[0] != "TSLA" {
		t.Fatalf("symbols = %v", cfg.Finnhub.Symbols)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Fatalf("redis addr = %q", cfg.Redis.Addr)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestScoreTTLOrDefault(t *testing.T) {
	var c Config
	if got := c.ScoreTTLOrDefault(); got != time.Hour {
		t.Fatalf("default ttl = %v, want 1h", got)
	}
	c.Alpha.ScoreTTL = 15 * time.Minute
	if got := c.ScoreTTLOrDefault(); got != 15*time.Minute {
		t.Fatalf("ttl = %v, want 15m", got)
	}
}
