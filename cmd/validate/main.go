// Command validate performs integrity checks on a local data directory
// before it is published for the monitor to consume: schema validity,
// coordinate sanity, cross-file consistency, and threshold ranges.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/polodad/clima-tracker-service/internal/adapter/staticdata"
	"github.com/polodad/clima-tracker-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "directory containing geofences.geojson, vehicles.json and config.json")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	fmt.Println("=== Clima Tracker Data Validation ===")
	fmt.Println()

	fences, err := decodeFile(filepath.Join(dataDir, "geofences.geojson"), staticdata.DecodeGeofences)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load geofences: %v\n", err)
		return 1
	}

	vehicles, err := decodeFile(filepath.Join(dataDir, "vehicles.json"), staticdata.DecodeVehicles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load vehicles: %v\n", err)
		return 1
	}

	cfg, err := decodeFile(filepath.Join(dataDir, "config.json"), staticdata.DecodeRiskConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateGeofences(fences),
		validateVehicles(vehicles),
		validateConfig(cfg),
		validateCoverage(fences, vehicles, cfg),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	fmt.Println()
	if !allPassed {
		fmt.Println("Validation FAILED")
		return 1
	}
	fmt.Println("All validation phases passed")
	return 0
}

func validateGeofences(fences []domain.Geofence) *phase {
	p := &phase{name: fmt.Sprintf("Geofences (%d)", len(fences))}

	seen := map[string]bool{}
	for _, g := range fences {
		if g.Name == "" {
			p.errorf("geofence with empty name")
			continue
		}
		if seen[g.Name] {
			p.errorf("duplicate geofence name %q", g.Name)
		}
		seen[g.Name] = true

		for i, pt := range g.Coordinates {
			if !validCoordinate(pt.Lat, pt.Lng) {
				p.errorf("geofence %q: vertex %d out of range (%.4f, %.4f)", g.Name, i, pt.Lat, pt.Lng)
			}
		}

		// A centroid outside its own polygon usually means the ring was
		// written in [lng, lat] order by mistake.
		if !g.Contains(g.Centroid()) {
			p.errorf("geofence %q: centroid falls outside polygon, check coordinate order", g.Name)
		}
	}
	return p
}

func validateVehicles(vehicles []domain.Vehicle) *phase {
	p := &phase{name: fmt.Sprintf("Vehicles (%d)", len(vehicles))}

	seen := map[string]bool{}
	active := 0
	for _, v := range vehicles {
		if v.ID == "" {
			p.errorf("vehicle with empty id")
			continue
		}
		if seen[v.ID] {
			p.errorf("duplicate vehicle id %q", v.ID)
		}
		seen[v.ID] = true

		if !validCoordinate(v.Lat, v.Lng) {
			p.errorf("vehicle %q: position out of range (%.4f, %.4f)", v.ID, v.Lat, v.Lng)
		}
		if v.LastSeen.IsZero() {
			p.errorf("vehicle %q: missing lastSeen", v.ID)
		}
		if v.Status == domain.VehicleActive {
			active++
		}
	}
	if len(vehicles) > 0 && active == 0 {
		p.errorf("no active vehicles, nothing will be evaluated")
	}
	return p
}

func validateConfig(cfg domain.RiskConfig) *phase {
	p := &phase{name: "Risk config"}

	// DecodeRiskConfig already enforces hard ranges; flag values that are
	// legal but almost certainly typos.
	if cfg.RainProbabilityThreshold < 10 {
		p.errorf("rain_probability_threshold %.0f%% will alert on nearly every forecast", cfg.RainProbabilityThreshold)
	}
	if cfg.RadarDistanceKM > 100 {
		p.errorf("radar_distance_km %.0f is wider than a metro area", cfg.RadarDistanceKM)
	}
	if cfg.AlertCooldownMin > 24*60 {
		p.errorf("alert_cooldown_min %d exceeds a day", cfg.AlertCooldownMin)
	}
	return p
}

// validateCoverage cross-checks the files against each other: every active
// vehicle should be within radar distance of at least one geofence centroid,
// otherwise the vehicle path can never fire.
func validateCoverage(fences []domain.Geofence, vehicles []domain.Vehicle, cfg domain.RiskConfig) *phase {
	p := &phase{name: "Coverage"}

	if len(fences) == 0 {
		p.errorf("no geofences defined")
		return p
	}

	highRisk := 0
	for _, g := range fences {
		if g.Risk == domain.RiskHigh {
			highRisk++
		}
	}
	if highRisk == 0 {
		p.errorf("no high-risk geofences, vehicle proximity alerts will never fire")
	}

	for _, v := range vehicles {
		if v.Status != domain.VehicleActive {
			continue
		}
		nearest := math.MaxFloat64
		for _, g := range fences {
			d := domain.DistanceKm(v.Position(), g.Centroid())
			if d < nearest {
				nearest = d
			}
		}
		if nearest > cfg.RadarDistanceKM*10 {
			p.errorf("vehicle %q is %.0f km from the nearest geofence", v.ID, nearest)
		}
	}
	return p
}

func validCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func decodeFile[T any](path string, decode func(r io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return decode(f)
}
