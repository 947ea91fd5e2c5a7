package domain

import (
	"fmt"
	"time"
)

// Severity is the ordinal urgency of an alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// rank orders severities for monotonicity comparisons.
func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is equal to or more urgent than other.
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

// AlertType categorizes an alert.
type AlertType string

const (
	AlertRain  AlertType = "rain"
	AlertRadar AlertType = "radar"
	AlertFlood AlertType = "flood"
)

// RiskClass is the static risk assigned to a geofence.
type RiskClass string

const (
	RiskLow    RiskClass = "low"
	RiskMedium RiskClass = "medium"
	RiskHigh   RiskClass = "high"
)

// ParseRiskClass accepts both the English enum values and the Spanish values
// used in the geofence data files (alto/medio/bajo).
func ParseRiskClass(s string) (RiskClass, error) {
	switch s {
	case "high", "alto":
		return RiskHigh, nil
	case "medium", "medio":
		return RiskMedium, nil
	case "low", "bajo":
		return RiskLow, nil
	}
	return "", fmt.Errorf("unknown risk class %q", s)
}

// VehicleStatus describes whether a vehicle participates in evaluation.
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleInactive    VehicleStatus = "inactive"
)

// Point is a WGS-84 latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geofence is a named polygonal zone with a static risk class.
// Immutable after load; the evaluator reloads the whole set each cycle.
type Geofence struct {
	Name        string    `json:"name"`
	Risk        RiskClass `json:"risk"`
	Description string    `json:"description"`
	// Coordinates is the polygon ring in [lat, lng] order. The ring may or
	// may not repeat its first vertex; both forms are accepted.
	Coordinates []Point `json:"coordinates"`
}

// Vehicle is a fleet member's position snapshot.
type Vehicle struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Lat      float64       `json:"lat"`
	Lng      float64       `json:"lng"`
	LastSeen time.Time     `json:"lastSeen"`
	Status   VehicleStatus `json:"status"`
	Driver   string        `json:"driver"`
}

// Position returns the vehicle's current location as a Point.
func (v Vehicle) Position() Point {
	return Point{Lat: v.Lat, Lng: v.Lng}
}

// ForecastSample is one hourly forecast entry. Index 0 of a forecast slice
// is the soonest hour.
type ForecastSample struct {
	Time time.Time `json:"time"`
	// Precipitation is rainfall intensity in mm/h, >= 0.
	Precipitation float64 `json:"precipitation"`
	// Probability is precipitation probability in percent, 0-100.
	Probability float64 `json:"precipitation_probability"`
}

// RiskConfig holds the global alerting thresholds, loaded once per cycle.
type RiskConfig struct {
	RainProbabilityThreshold float64 `json:"rain_probability_threshold"`
	RainIntensityMMPH        float64 `json:"rain_intensity_mmph"`
	RadarDistanceKM          float64 `json:"radar_distance_km"`
	AlertCooldownMin         int     `json:"alert_cooldown_min"`
}

// Cooldown returns the alert cooldown as a duration.
func (c RiskConfig) Cooldown() time.Duration {
	return time.Duration(c.AlertCooldownMin) * time.Minute
}

// DefaultRiskConfig mirrors the documented fallback used when the config
// source is unavailable.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		RainProbabilityThreshold: 70,
		RainIntensityMMPH:        5,
		RadarDistanceKM:          10,
		AlertCooldownMin:         30,
	}
}

// AlertLocation is the display location attached to an alert.
type AlertLocation struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

// Alert is an immutable emitted alert record. Geofence and Vehicle are weak
// back-references (subject keys for display, not ownership).
type Alert struct {
	ID        string        `json:"id"`
	Type      AlertType     `json:"type"`
	Severity  Severity      `json:"severity"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Location  AlertLocation `json:"location"`
	Geofence  string        `json:"geofence,omitempty"`
	Vehicle   string        `json:"vehicle,omitempty"`
}
