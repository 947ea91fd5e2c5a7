package staticdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polodad/clima-tracker-service/internal/domain"
)

const geofenceJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"name": "Centro", "risk": "alto", "description": "Zona de inundación"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[19.440, -99.150], [19.440, -99.125], [19.425, -99.125], [19.425, -99.150], [19.440, -99.150]]]
			}
		},
		{
			"type": "Feature",
			"properties": {"name": "Santa Fe", "risk": "low", "description": ""},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[19.370, -99.280], [19.370, -99.250], [19.350, -99.250]]]
			}
		}
	]
}`

func TestDecodeGeofences(t *testing.T) {
	t.Run("valid collection", func(t *testing.T) {
		fences, err := DecodeGeofences(strings.NewReader(geofenceJSON))
		require.NoError(t, err)
		require.Len(t, fences, 2)

		centro := fences[0]
		assert.Equal(t, "Centro", centro.Name)
		assert.Equal(t, domain.RiskHigh, centro.Risk)
		assert.Equal(t, "Zona de inundación", centro.Description)
		require.Len(t, centro.Coordinates, 5)
		// First pair is [lat, lng].
		assert.Equal(t, 19.440, centro.Coordinates[0].Lat)
		assert.Equal(t, -99.150, centro.Coordinates[0].Lng)

		assert.Equal(t, domain.RiskLow, fences[1].Risk)
	})

	t.Run("unknown risk class", func(t *testing.T) {
		bad := `{"features":[{"properties":{"name":"X","risk":"extreme"},"geometry":{"coordinates":[[[0,0],[0,1],[1,1]]]}}]}`
		_, err := DecodeGeofences(strings.NewReader(bad))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"X"`)
	})

	t.Run("too few distinct vertices", func(t *testing.T) {
		// Three pairs but only two distinct points.
		bad := `{"features":[{"properties":{"name":"X","risk":"low"},"geometry":{"coordinates":[[[0,0],[0,1],[0,0]]]}}]}`
		_, err := DecodeGeofences(strings.NewReader(bad))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "3 distinct vertices")
	})

	t.Run("no rings", func(t *testing.T) {
		bad := `{"features":[{"properties":{"name":"X","risk":"low"},"geometry":{"coordinates":[]}}]}`
		_, err := DecodeGeofences(strings.NewReader(bad))
		require.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := DecodeGeofences(strings.NewReader("{nope"))
		require.Error(t, err)
	})

	t.Run("empty collection", func(t *testing.T) {
		fences, err := DecodeGeofences(strings.NewReader(`{"features":[]}`))
		require.NoError(t, err)
		assert.Empty(t, fences)
	})
}

func TestDecodeVehicles(t *testing.T) {
	t.Run("valid fleet", func(t *testing.T) {
		doc := `{"vehicles":[
			{"id":"unit-001","name":"Camión 01","lat":19.43,"lng":-99.13,"lastSeen":"2025-06-15T12:00:00Z","status":"active","driver":"Carlos"},
			{"id":"unit-002","name":"Camión 02","lat":19.44,"lng":-99.19,"lastSeen":"2025-06-15T11:55:00Z","status":"maintenance","driver":"Ana"}
		]}`
		vehicles, err := DecodeVehicles(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, vehicles, 2)

		assert.Equal(t, "unit-001", vehicles[0].ID)
		assert.Equal(t, domain.VehicleActive, vehicles[0].Status)
		assert.Equal(t, "Carlos", vehicles[0].Driver)
		assert.Equal(t, domain.VehicleMaintenance, vehicles[1].Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		doc := `{"vehicles":[{"id":"unit-001","status":"parked"}]}`
		_, err := DecodeVehicles(strings.NewReader(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"parked"`)
	})

	t.Run("empty fleet", func(t *testing.T) {
		vehicles, err := DecodeVehicles(strings.NewReader(`{"vehicles":[]}`))
		require.NoError(t, err)
		assert.Empty(t, vehicles)
	})
}

func TestDecodeRiskConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		doc := `{"rain_probability_threshold":70,"rain_intensity_mmph":5,"radar_distance_km":10,"alert_cooldown_min":30}`
		cfg, err := DecodeRiskConfig(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultRiskConfig(), cfg)
	})

	t.Run("probability out of range", func(t *testing.T) {
		doc := `{"rain_probability_threshold":120,"rain_intensity_mmph":5,"radar_distance_km":10,"alert_cooldown_min":30}`
		_, err := DecodeRiskConfig(strings.NewReader(doc))
		require.Error(t, err)
	})

	t.Run("negative intensity", func(t *testing.T) {
		doc := `{"rain_probability_threshold":70,"rain_intensity_mmph":-1,"radar_distance_km":10,"alert_cooldown_min":30}`
		_, err := DecodeRiskConfig(strings.NewReader(doc))
		require.Error(t, err)
	})

	t.Run("zero cooldown", func(t *testing.T) {
		doc := `{"rain_probability_threshold":70,"rain_intensity_mmph":5,"radar_distance_km":10,"alert_cooldown_min":0}`
		_, err := DecodeRiskConfig(strings.NewReader(doc))
		require.Error(t, err)
	})

	t.Run("zero radar distance", func(t *testing.T) {
		doc := `{"rain_probability_threshold":70,"rain_intensity_mmph":5,"radar_distance_km":0,"alert_cooldown_min":30}`
		_, err := DecodeRiskConfig(strings.NewReader(doc))
		require.Error(t, err)
	})
}
