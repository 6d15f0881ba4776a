package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
}

type ServerConfig struct {
	Port      string `env:"PORT" envDefault:"5000"`
	Env       string `env:"ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	StaticDir string `env:"STATIC_DIR" envDefault:"."`
}

// DatabaseConfig selects the backend: a non-empty URL means postgres,
// otherwise the embedded sqlite file is used.
type DatabaseConfig struct {
	URL  string `env:"DATABASE_URL"`
	File string `env:"DB_FILE" envDefault:"jar_database.db"`
}

type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" envDefault:"0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

type KafkaConfig struct {
	Brokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	TopicOrder    string   `env:"KAFKA_TOPIC_ORDER_EVENTS" envDefault:"order-events"`
	ConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"jar-stock-alerts"`
}

type ObservabilityConfig struct {
	JaegerEndpoint string `env:"JAEGER_ENDPOINT"`
}

// UsePostgres reports whether the server-based backend is configured.
func (c DatabaseConfig) UsePostgres() bool {
	return c.URL != ""
}

// Enabled reports whether the idempotency cache is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Enabled reports whether order events are published.
func (c KafkaConfig) Enabled() bool {
	for _, b := range c.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	log.Printf("Config loaded: env=%s, port=%s, postgres=%t", cfg.Server.Env, cfg.Server.Port, cfg.Database.UsePostgres())
	return cfg, nil
}

// Parse builds a Config from the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}
