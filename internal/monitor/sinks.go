package monitor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/polodad/clima-tracker-service/internal/domain"
)

// MultiSink fans one alert out to every configured sink. Each sink gets its
// own attempt; the joined error reports any that failed.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks into one. Order is preserved for delivery
// attempts.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Name implements Sink.
func (m *MultiSink) Name() string { return "multi" }

// Send implements Sink.
func (m *MultiSink) Send(ctx context.Context, alert domain.Alert) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Send(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink records alerts to the log only. It is the default when no external
// channel is configured, so local runs still show the full emission path.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Name implements Sink.
func (l *LogSink) Name() string { return "log" }

// Send implements Sink.
func (l *LogSink) Send(_ context.Context, alert domain.Alert) error {
	l.logger.Info("alert (no external sink configured)",
		"alert_id", alert.ID,
		"severity", alert.Severity,
		"message", alert.Message,
	)
	return nil
}
