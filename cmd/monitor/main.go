// Command monitor runs the weather-risk evaluator: a periodic cycle that
// checks precipitation risk for every geofence and active vehicle, plus the
// HTTP plane for health, metrics, and the alert API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	httpadapter "github.com/polodad/clima-tracker-service/internal/adapter/http"
	kafkaadapter "github.com/polodad/clima-tracker-service/internal/adapter/kafka"
	"github.com/polodad/clima-tracker-service/internal/adapter/openmeteo"
	"github.com/polodad/clima-tracker-service/internal/adapter/staticdata"
	"github.com/polodad/clima-tracker-service/internal/adapter/telegram"
	"github.com/polodad/clima-tracker-service/internal/alertstore"
	"github.com/polodad/clima-tracker-service/internal/config"
	"github.com/polodad/clima-tracker-service/internal/cooldown"
	"github.com/polodad/clima-tracker-service/internal/monitor"
	"github.com/polodad/clima-tracker-service/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cooldown ledger: Redis when configured, otherwise in-process.
	var ledger cooldown.Ledger
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		ledger = cooldown.NewRedisLedger(redisClient, clock, cfg.CooldownRetention)
		logger.Info("cooldown ledger backed by redis", "addr", cfg.RedisAddr)
	} else {
		ledger = cooldown.NewMemoryLedger(clock)
		logger.Info("cooldown ledger in memory; cooldowns reset on restart")
	}

	// Dispatch sinks, feature-flagged via env.
	var sinks []monitor.Sink
	var kafkaWriter *kafkaadapter.Writer
	if cfg.TelegramEnabled() {
		sinks = append(sinks, telegram.NewSink(cfg.TelegramToken, cfg.TelegramChatID, cfg.SourceTimeout, logger))
		logger.Info("telegram dispatch enabled", "chat_id", cfg.TelegramChatID)
	}
	if cfg.KafkaEnabled() {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, kafkaWriter)
		logger.Info("kafka dispatch enabled", "topic", cfg.KafkaAlertTopic)
	}
	var sink monitor.Sink
	switch len(sinks) {
	case 0:
		logger.Warn("no dispatch sink configured; alerts will only be logged")
		sink = monitor.NewLogSink(logger)
	case 1:
		sink = sinks[0]
	default:
		sink = monitor.NewMultiSink(sinks...)
	}

	dataClient := staticdata.NewClient(cfg.DataBaseURL, cfg.SourceTimeout, logger)
	forecastClient := openmeteo.NewClient(cfg.OpenMeteoBaseURL, cfg.SourceTimeout, logger)
	store := alertstore.New(clock)

	evaluator := monitor.New(
		dataClient,
		forecastClient,
		ledger,
		store,
		sink,
		cfg.FallbackRiskConfig,
		cfg.EvalConcurrency,
		clock,
		logger,
		metrics,
	)
	scheduler := monitor.NewScheduler(evaluator, cfg.EvalInterval, clock, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, evaluator, evaluator, store, clock, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := scheduler.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
