//go:build integration

// End-to-end check of the emission path against a real Kafka broker: an
// evaluation cycle fires on a risky forecast and the alert arrives on the
// alert topic with its headers intact.
//
// Requires a reachable broker; run with:
//
//	KAFKA_BROKERS=localhost:9092 go test -tags integration ./internal/integration/...
package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkaadapter "github.com/polodad/clima-tracker-service/internal/adapter/kafka"
	"github.com/polodad/clima-tracker-service/internal/alertstore"
	"github.com/polodad/clima-tracker-service/internal/config"
	"github.com/polodad/clima-tracker-service/internal/cooldown"
	"github.com/polodad/clima-tracker-service/internal/domain"
	"github.com/polodad/clima-tracker-service/internal/monitor"
	"github.com/polodad/clima-tracker-service/internal/observability"
)

type staticData struct {
	fences   []domain.Geofence
	vehicles []domain.Vehicle
}

func (s staticData) RiskConfig(context.Context) (domain.RiskConfig, error) {
	return domain.DefaultRiskConfig(), nil
}
func (s staticData) Geofences(context.Context) ([]domain.Geofence, error) { return s.fences, nil }
func (s staticData) Vehicles(context.Context) ([]domain.Vehicle, error)  { return s.vehicles, nil }

type staticForecast struct{ samples []domain.ForecastSample }

func (s staticForecast) Forecast(context.Context, float64, float64) ([]domain.ForecastSample, error) {
	return s.samples, nil
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func kafkaBroker(t *testing.T) string {
	t.Helper()
	broker := os.Getenv("KAFKA_BROKERS")
	if broker == "" {
		broker = "localhost:9092"
	}
	conn, err := net.DialTimeout("tcp", broker, 5*time.Second)
	if err != nil {
		t.Skipf("kafka not reachable at %s: %v", broker, err)
	}
	conn.Close()
	return broker
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	require.NoError(t, err)
}

func TestAlertFlowThroughKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := kafkaBroker(t)
	topic := fmt.Sprintf("clima-alerts-itest-%d", time.Now().UnixNano())
	createTopic(t, broker, topic)

	cfg := &config.Config{
		KafkaBrokers:    []string{broker},
		KafkaAlertTopic: topic,
	}
	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	clock := clockwork.NewRealClock()
	evaluator := monitor.New(
		staticData{fences: []domain.Geofence{{
			Name: "Centro",
			Risk: domain.RiskHigh,
			Coordinates: []domain.Point{
				{Lat: 19.44, Lng: -99.15}, {Lat: 19.44, Lng: -99.12},
				{Lat: 19.42, Lng: -99.12}, {Lat: 19.42, Lng: -99.15},
			},
		}}},
		staticForecast{samples: []domain.ForecastSample{
			{Time: clock.Now(), Precipitation: 12, Probability: 90},
		}},
		cooldown.NewMemoryLedger(clock),
		alertstore.New(clock),
		writer,
		domain.DefaultRiskConfig(),
		2,
		clock,
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	evaluator.RunCycle(ctx)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("itest-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	var alert domain.Alert
	require.NoError(t, json.Unmarshal(msg.Value, &alert))
	assert.Equal(t, string(msg.Key), alert.ID)
	assert.Equal(t, domain.AlertRain, alert.Type)
	assert.Equal(t, domain.SeverityHigh, alert.Severity)
	assert.Equal(t, "Centro", alert.Geofence)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "rain", headers["alert_type"])
	assert.Equal(t, "high", headers["severity"])
	_, err = time.Parse(time.RFC3339, headers["emitted_at"])
	assert.NoError(t, err, "emitted_at should be valid RFC3339")
}
