package staticdata

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/polodad/clima-tracker-service/internal/domain"
)

// GeoJSON wire types for the geofence file. Ring coordinates are [lat, lng]
// pairs (Leaflet order), carried over from the map frontend's data format.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties struct {
		Name        string `json:"name"`
		Risk        string `json:"risk"`
		Description string `json:"description"`
	} `json:"properties"`
	Geometry struct {
		Coordinates [][][2]float64 `json:"coordinates"`
	} `json:"geometry"`
}

type vehiclesFile struct {
	Vehicles []domain.Vehicle `json:"vehicles"`
}

// DecodeGeofences parses a GeoJSON FeatureCollection into geofences,
// rejecting features whose outer ring has fewer than three distinct
// vertices or an unknown risk class.
func DecodeGeofences(r io.Reader) ([]domain.Geofence, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode geofence collection: %w", err)
	}

	fences := make([]domain.Geofence, 0, len(fc.Features))
	for _, f := range fc.Features {
		risk, err := domain.ParseRiskClass(f.Properties.Risk)
		if err != nil {
			return nil, fmt.Errorf("geofence %q: %w", f.Properties.Name, err)
		}
		if len(f.Geometry.Coordinates) == 0 {
			return nil, fmt.Errorf("geofence %q: geometry has no rings", f.Properties.Name)
		}

		ring := f.Geometry.Coordinates[0]
		coords := make([]domain.Point, len(ring))
		for i, pair := range ring {
			coords[i] = domain.Point{Lat: pair[0], Lng: pair[1]}
		}
		if distinctVertices(coords) < 3 {
			return nil, fmt.Errorf("geofence %q: polygon needs at least 3 distinct vertices", f.Properties.Name)
		}

		fences = append(fences, domain.Geofence{
			Name:        f.Properties.Name,
			Risk:        risk,
			Description: f.Properties.Description,
			Coordinates: coords,
		})
	}
	return fences, nil
}

// DecodeVehicles parses the vehicles.json document.
func DecodeVehicles(r io.Reader) ([]domain.Vehicle, error) {
	var vf vehiclesFile
	if err := json.NewDecoder(r).Decode(&vf); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	for _, v := range vf.Vehicles {
		switch v.Status {
		case domain.VehicleActive, domain.VehicleMaintenance, domain.VehicleInactive:
		default:
			return nil, fmt.Errorf("vehicle %q: unknown status %q", v.ID, v.Status)
		}
	}
	return vf.Vehicles, nil
}

// DecodeRiskConfig parses config.json, validating that thresholds are in
// sensible ranges.
func DecodeRiskConfig(r io.Reader) (domain.RiskConfig, error) {
	var cfg domain.RiskConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return domain.RiskConfig{}, fmt.Errorf("decode risk config: %w", err)
	}
	if cfg.RainProbabilityThreshold < 0 || cfg.RainProbabilityThreshold > 100 {
		return domain.RiskConfig{}, fmt.Errorf("rain_probability_threshold %v out of range [0,100]", cfg.RainProbabilityThreshold)
	}
	if cfg.RainIntensityMMPH < 0 {
		return domain.RiskConfig{}, fmt.Errorf("rain_intensity_mmph %v must be >= 0", cfg.RainIntensityMMPH)
	}
	if cfg.RadarDistanceKM <= 0 {
		return domain.RiskConfig{}, fmt.Errorf("radar_distance_km %v must be > 0", cfg.RadarDistanceKM)
	}
	if cfg.AlertCooldownMin <= 0 {
		return domain.RiskConfig{}, fmt.Errorf("alert_cooldown_min %v must be > 0", cfg.AlertCooldownMin)
	}
	return cfg, nil
}

func distinctVertices(ring []domain.Point) int {
	seen := make(map[domain.Point]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}
