// Package monitor runs the scheduled risk evaluation: it pulls geofence,
// vehicle, and forecast data, gates alerts through the cooldown ledger, and
// dispatches what passes.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/polodad/clima-tracker-service/internal/alertstore"
	"github.com/polodad/clima-tracker-service/internal/cooldown"
	"github.com/polodad/clima-tracker-service/internal/domain"
	"github.com/polodad/clima-tracker-service/internal/observability"
)

// DataSource supplies the monitoring definitions for a cycle.
type DataSource interface {
	RiskConfig(ctx context.Context) (domain.RiskConfig, error)
	Geofences(ctx context.Context) ([]domain.Geofence, error)
	Vehicles(ctx context.Context) ([]domain.Vehicle, error)
}

// ForecastSource returns the hourly forecast at a coordinate, soonest first.
type ForecastSource interface {
	Forecast(ctx context.Context, lat, lng float64) ([]domain.ForecastSample, error)
}

// Sink delivers one alert to an external channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, alert domain.Alert) error
}

// Evaluator is the per-cycle alert evaluation driver. All shared state lives
// in the cooldown ledger and the alert store; a cycle itself is stateless.
type Evaluator struct {
	data     DataSource
	forecast ForecastSource
	ledger   cooldown.Ledger
	store    *alertstore.Store
	sink     Sink

	fallback    domain.RiskConfig
	concurrency int

	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates an Evaluator. fallback is the risk configuration used when the
// config source is unavailable; concurrency bounds parallel per-entity checks.
func New(
	data DataSource,
	forecast ForecastSource,
	ledger cooldown.Ledger,
	store *alertstore.Store,
	sink Sink,
	fallback domain.RiskConfig,
	concurrency int,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Evaluator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Evaluator{
		data:        data,
		forecast:    forecast,
		ledger:      ledger,
		store:       store,
		sink:        sink,
		fallback:    fallback,
		concurrency: concurrency,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once at least one evaluation cycle has
// completed.
func (e *Evaluator) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("no evaluation cycle has completed yet")
	}
	return nil
}

// RunCycle performs one full evaluation pass. Individual entity failures are
// logged and isolated; the cycle itself never fails.
func (e *Evaluator) RunCycle(ctx context.Context) {
	start := e.clock.Now()

	cfg := e.loadRiskConfig(ctx)
	fences := e.loadGeofences(ctx)
	vehicles := e.loadVehicles(ctx)

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)

	for _, fence := range fences {
		g.Go(func() error {
			e.evaluateGeofence(ctx, fence, cfg)
			return nil
		})
	}
	for _, v := range vehicles {
		if v.Status != domain.VehicleActive {
			continue
		}
		g.Go(func() error {
			e.evaluateVehicle(ctx, v, fences, cfg)
			return nil
		})
	}
	_ = g.Wait()

	e.ready.Store(true)
	e.metrics.CyclesTotal.Inc()
	e.metrics.CycleDuration.Observe(e.clock.Now().Sub(start).Seconds())
	e.logger.Info("evaluation cycle completed",
		"geofences", len(fences),
		"vehicles", len(vehicles),
		"duration", e.clock.Now().Sub(start),
	)
}

// TestAlert synthesizes the fixed-content alert and runs it through the
// factory -> store -> dispatch path, returning the record for confirmation.
func (e *Evaluator) TestAlert(ctx context.Context) (domain.Alert, error) {
	alert := domain.NewTestAlert()
	if !e.store.Add(alert) {
		e.metrics.AlertsSuppressed.WithLabelValues("duplicate").Inc()
		e.logger.Info("test alert already in duplicate window", "alert_id", alert.ID)
	}
	if err := e.sink.Send(ctx, alert); err != nil {
		e.metrics.DispatchErrors.WithLabelValues(e.sink.Name()).Inc()
		return alert, err
	}
	return alert, nil
}

// loadRiskConfig falls back to the hardcoded defaults when the source is
// unavailable: degraded thresholds beat a skipped cycle.
func (e *Evaluator) loadRiskConfig(ctx context.Context) domain.RiskConfig {
	cfg, err := e.data.RiskConfig(ctx)
	if err != nil {
		e.metrics.SourceErrors.WithLabelValues("config").Inc()
		e.logger.Warn("risk config unavailable, using fallback", "error", err)
		return e.fallback
	}
	return cfg
}

func (e *Evaluator) loadGeofences(ctx context.Context) []domain.Geofence {
	fences, err := e.data.Geofences(ctx)
	if err != nil {
		e.metrics.SourceErrors.WithLabelValues("geofences").Inc()
		e.logger.Error("geofence fetch failed, evaluating empty set", "error", err)
		return nil
	}
	return fences
}

func (e *Evaluator) loadVehicles(ctx context.Context) []domain.Vehicle {
	vehicles, err := e.data.Vehicles(ctx)
	if err != nil {
		e.metrics.SourceErrors.WithLabelValues("vehicles").Inc()
		e.logger.Error("vehicle fetch failed, evaluating empty set", "error", err)
		return nil
	}
	return vehicles
}

// evaluateGeofence checks one zone's forecast and emits a rain alert when
// the risk predicate fires and the zone is out of cooldown.
func (e *Evaluator) evaluateGeofence(ctx context.Context, fence domain.Geofence, cfg domain.RiskConfig) {
	e.metrics.GeofencesEvaluated.Inc()

	centroid := fence.Centroid()
	samples, err := e.forecast.Forecast(ctx, centroid.Lat, centroid.Lng)
	if err != nil {
		e.metrics.SourceErrors.WithLabelValues("forecast").Inc()
		e.logger.Warn("forecast fetch failed", "geofence", fence.Name, "error", err)
		return
	}

	if !domain.HasRiskConditions(samples, cfg) {
		return
	}

	alert := domain.NewZoneRainAlert(fence, centroid, samples[0])
	e.emit(ctx, cooldown.RainKey(fence.Name), alert, cfg)
}

// evaluateVehicle emits a proximity alert when an active vehicle is within
// radar distance of any high-risk zone's centroid.
func (e *Evaluator) evaluateVehicle(ctx context.Context, v domain.Vehicle, fences []domain.Geofence, cfg domain.RiskConfig) {
	e.metrics.VehiclesEvaluated.Inc()

	var nearby []string
	for _, fence := range fences {
		if fence.Risk != domain.RiskHigh {
			continue
		}
		// Inside the polygon counts as near it regardless of how far the
		// centroid is.
		if fence.Contains(v.Position()) ||
			domain.DistanceKm(v.Position(), fence.Centroid()) <= cfg.RadarDistanceKM {
			nearby = append(nearby, fence.Name)
		}
	}
	if len(nearby) == 0 {
		return
	}

	alert := domain.NewVehicleAlert(v, nearby)
	e.emit(ctx, cooldown.VehicleKey(v.ID), alert, cfg)
}

// emit runs the gated emission sequence for one alert key: cooldown check,
// store, dispatch, ledger record. The whole sequence holds the per-key lock
// so concurrent checks for the same key cannot interleave. A dispatch
// failure does not roll back the ledger record: suppressing duplicates wins
// over guaranteed delivery.
func (e *Evaluator) emit(ctx context.Context, key string, alert domain.Alert, cfg domain.RiskConfig) {
	unlock := e.ledger.LockKey(key)
	defer unlock()

	allowed, err := e.ledger.Allowed(ctx, key, cfg.Cooldown())
	if err != nil {
		e.logger.Error("cooldown check failed, withholding alert", "key", key, "error", err)
		return
	}
	if !allowed {
		e.metrics.AlertsSuppressed.WithLabelValues("cooldown").Inc()
		e.logger.Debug("alert suppressed by cooldown", "key", key)
		return
	}

	if !e.store.Add(alert) {
		e.metrics.AlertsSuppressed.WithLabelValues("duplicate").Inc()
		e.logger.Debug("alert already in store duplicate window", "key", key)
	}

	if err := e.sink.Send(ctx, alert); err != nil {
		e.metrics.DispatchErrors.WithLabelValues(e.sink.Name()).Inc()
		e.logger.Error("alert dispatch failed", "alert_id", alert.ID, "sink", e.sink.Name(), "error", err)
	} else {
		e.logger.Info("alert dispatched",
			"alert_id", alert.ID,
			"type", alert.Type,
			"severity", alert.Severity,
			"subject", alert.Location.Name,
		)
	}
	e.metrics.AlertsEmitted.WithLabelValues(string(alert.Type), string(alert.Severity)).Inc()

	if err := e.ledger.Record(ctx, key); err != nil {
		e.logger.Error("cooldown record failed", "key", key, "error", err)
	}
}

// cycleTimeout caps RunCycle when invoked by the scheduler, so a wedged
// external fetch cannot bleed into the next scheduling period.
const cycleTimeout = 2 * time.Minute
