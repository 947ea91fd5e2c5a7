// Command gendata generates sample data fixtures for local development and
// the test suites: a geofence GeoJSON, a vehicle fleet snapshot, and a risk
// threshold config. It uses the actual decode package wire format so the
// output is guaranteed to round-trip through the monitor's data source.
//
// Usage:
//
//	go run ./cmd/gendata -out data
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/polodad/clima-tracker-service/internal/adapter/staticdata"
	"github.com/polodad/clima-tracker-service/internal/domain"
)

// Fixed timestamp for reproducible lastSeen values.
var baseTime = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for generated fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	files := map[string]any{
		"geofences.geojson": geofenceFixture(),
		"vehicles.json":     vehicleFixture(),
		"config.json":       domain.DefaultRiskConfig(),
	}

	for name, v := range files {
		path := filepath.Join(*out, name)
		if err := writeJSON(path, v); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("wrote %s", path)
	}

	return verify(*out)
}

// geoFeature mirrors the GeoJSON structure the decode package expects:
// ring coordinates in [lat, lng] order.
type geoFeature struct {
	Type       string `json:"type"`
	Properties struct {
		Name        string `json:"name"`
		Risk        string `json:"risk"`
		Description string `json:"description"`
	} `json:"properties"`
	Geometry struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	} `json:"geometry"`
}

func makeFeature(name, risk, description string, ring [][2]float64) geoFeature {
	var f geoFeature
	f.Type = "Feature"
	f.Properties.Name = name
	f.Properties.Risk = risk
	f.Properties.Description = description
	f.Geometry.Type = "Polygon"
	f.Geometry.Coordinates = [][][2]float64{ring}
	return f
}

func geofenceFixture() any {
	// Three zones around Mexico City at each risk class, closed rings.
	features := []geoFeature{
		makeFeature("Centro Histórico", "alto", "Zona de inundación recurrente", [][2]float64{
			{19.440, -99.150}, {19.440, -99.125}, {19.425, -99.125}, {19.425, -99.150}, {19.440, -99.150},
		}),
		makeFeature("Polanco", "medio", "Drenaje limitado en temporada de lluvias", [][2]float64{
			{19.440, -99.205}, {19.440, -99.180}, {19.425, -99.180}, {19.425, -99.205}, {19.440, -99.205},
		}),
		makeFeature("Santa Fe", "bajo", "Zona elevada, riesgo bajo", [][2]float64{
			{19.370, -99.280}, {19.370, -99.250}, {19.350, -99.250}, {19.350, -99.280}, {19.370, -99.280},
		}),
	}
	return map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	}
}

func vehicleFixture() any {
	vehicles := []domain.Vehicle{
		{
			ID:       "unit-001",
			Name:     "Camión 01",
			Lat:      19.4326,
			Lng:      -99.1332,
			LastSeen: baseTime,
			Status:   domain.VehicleActive,
			Driver:   "Carlos Mendoza",
		},
		{
			ID:       "unit-002",
			Name:     "Camión 02",
			Lat:      19.4361,
			Lng:      -99.1925,
			LastSeen: baseTime.Add(-5 * time.Minute),
			Status:   domain.VehicleActive,
			Driver:   "Ana Torres",
		},
		{
			ID:       "unit-003",
			Name:     "Camión 03",
			Lat:      19.3600,
			Lng:      -99.2650,
			LastSeen: baseTime.Add(-2 * time.Hour),
			Status:   domain.VehicleMaintenance,
			Driver:   "Luis Ramírez",
		},
	}
	return map[string]any{"vehicles": vehicles}
}

// verify round-trips every generated file through the decode package so a
// broken fixture fails loudly here instead of at monitor startup.
func verify(dir string) error {
	gf, err := decodeFile(filepath.Join(dir, "geofences.geojson"), staticdata.DecodeGeofences)
	if err != nil {
		return err
	}
	vs, err := decodeFile(filepath.Join(dir, "vehicles.json"), staticdata.DecodeVehicles)
	if err != nil {
		return err
	}
	cfg, err := decodeFile(filepath.Join(dir, "config.json"), staticdata.DecodeRiskConfig)
	if err != nil {
		return err
	}
	log.Printf("verified: %d geofences, %d vehicles, cooldown %s",
		len(gf), len(vs), cfg.Cooldown())
	return nil
}

func decodeFile[T any](path string, decode func(r io.Reader) (T, error)) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, err
	}
	v, err := decode(bytes.NewReader(data))
	if err != nil {
		return zero, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
