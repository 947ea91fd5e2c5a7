package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/polodad/clima-tracker-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Evaluation loop.
	EvalInterval    time.Duration
	EvalConcurrency int

	// External data.
	DataBaseURL      string
	OpenMeteoBaseURL string
	SourceTimeout    time.Duration

	// Fallback thresholds when the config source is unavailable.
	FallbackRiskConfig domain.RiskConfig

	// Telegram dispatch (enabled when token and chat are both set).
	TelegramToken  string
	TelegramChatID string

	// Kafka dispatch (enabled when a topic is set).
	KafkaBrokers    []string
	KafkaAlertTopic string

	// Cooldown persistence. The in-memory ledger is used when RedisAddr is
	// empty.
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CooldownRetention time.Duration
}

// TelegramEnabled reports whether the Telegram sink should be wired.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

// KafkaEnabled reports whether the Kafka sink should be wired.
func (c *Config) KafkaEnabled() bool {
	return c.KafkaAlertTopic != ""
}

// RedisEnabled reports whether the Redis-backed cooldown ledger should be
// used instead of the in-memory one.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	evalInterval, err := envDuration("EVAL_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	sourceTimeout, err := envDuration("SOURCE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cooldownRetention, err := envDuration("COOLDOWN_RETENTION", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		EvalInterval:    evalInterval,
		EvalConcurrency: envInt("EVAL_CONCURRENCY", 4),

		DataBaseURL:      envOrDefault("DATA_BASE_URL", "https://raw.githubusercontent.com/polodad/clima-tracker/main/data"),
		OpenMeteoBaseURL: envOrDefault("OPEN_METEO_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		SourceTimeout:    sourceTimeout,

		FallbackRiskConfig: domain.RiskConfig{
			RainProbabilityThreshold: envFloat("RAIN_PROBABILITY_THRESHOLD", 70),
			RainIntensityMMPH:        envFloat("RAIN_INTENSITY_MMPH", 5),
			RadarDistanceKM:          envFloat("RADAR_DISTANCE_KM", 10),
			AlertCooldownMin:         envInt("ALERT_COOLDOWN_MIN", 30),
		},

		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),

		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: os.Getenv("KAFKA_ALERT_TOPIC"),

		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           envInt("REDIS_DB", 0),
		CooldownRetention: cooldownRetention,
	}

	if cfg.EvalInterval <= 0 {
		return nil, errors.New("EVAL_INTERVAL must be positive")
	}
	if cfg.EvalConcurrency < 1 {
		return nil, errors.New("EVAL_CONCURRENCY must be at least 1")
	}
	if cfg.DataBaseURL == "" {
		return nil, errors.New("DATA_BASE_URL is required")
	}
	if cfg.KafkaEnabled() && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ALERT_TOPIC is set but KAFKA_BROKERS is empty")
	}
	if (cfg.TelegramToken == "") != (cfg.TelegramChatID == "") {
		return nil, errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	if cfg.FallbackRiskConfig.AlertCooldownMin <= 0 {
		return nil, errors.New("ALERT_COOLDOWN_MIN must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
