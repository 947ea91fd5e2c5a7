package domain

import (
	"fmt"
	"strings"
)

// Test alerts always point at the Zócalo in Mexico City.
const (
	TestAlertLat  = 19.4326
	TestAlertLng  = -99.1332
	testAlertName = "Ciudad de México"
)

// newAlertID builds the "<category>_<unix-millis>_<subject>" identity.
func newAlertID(category, subject string) string {
	return fmt.Sprintf("%s_%d_%s", category, clock.Now().UnixMilli(), subject)
}

// NewRainAlert builds an ad-hoc rain alert for a geofence, with severity
// from the generic classifier.
func NewRainAlert(geofenceName string, lat, lng, precipitation, probability float64) Alert {
	return Alert{
		ID:       newAlertID("rain", geofenceName),
		Type:     AlertRain,
		Severity: ClassifySeverity(precipitation, probability),
		Message: fmt.Sprintf("Lluvia intensa detectada en %s. Precipitación: %.1f mm/h, Probabilidad: %.0f%%",
			geofenceName, precipitation, probability),
		Timestamp: clock.Now(),
		Location:  AlertLocation{Lat: lat, Lng: lng, Name: geofenceName},
		Geofence:  geofenceName,
	}
}

// NewZoneRainAlert builds the scheduled-evaluation rain alert for a geofence.
// Severity comes from the zone-risk classifier and the message quotes the
// soonest forecast sample.
func NewZoneRainAlert(g Geofence, centroid Point, sample ForecastSample) Alert {
	return Alert{
		ID:       newAlertID("rain", g.Name),
		Type:     AlertRain,
		Severity: ClassifyByZoneRisk(g.Risk, sample.Precipitation),
		Message: fmt.Sprintf("Lluvia intensa inminente en %s. Precipitación: %.1f mm/h, Probabilidad: %.0f%%",
			g.Name, sample.Precipitation, sample.Probability),
		Timestamp: clock.Now(),
		Location:  AlertLocation{Lat: centroid.Lat, Lng: centroid.Lng, Name: g.Name},
		Geofence:  g.Name,
	}
}

// NewRadarAlert builds an alert for a rain cell detected near a location.
func NewRadarAlert(locationName string, lat, lng, intensityDBZ float64) Alert {
	return Alert{
		ID:       newAlertID("radar", locationName),
		Type:     AlertRadar,
		Severity: RadarSeverity(intensityDBZ),
		Message: fmt.Sprintf("Célula de lluvia detectada cerca de %s. Intensidad: %.0f dBZ",
			locationName, intensityDBZ),
		Timestamp: clock.Now(),
		Location:  AlertLocation{Lat: lat, Lng: lng, Name: locationName},
	}
}

// NewVehicleAlert builds an alert for a vehicle near one or more high-risk
// zones. Severity is fixed high: proximity to a high-risk zone is always
// treated as the worst case.
func NewVehicleAlert(v Vehicle, zones []string) Alert {
	return Alert{
		ID:       newAlertID("vehicle", v.ID),
		Type:     AlertRain,
		Severity: SeverityHigh,
		Message: fmt.Sprintf("Vehículo %s (%s) cerca de zona de alto riesgo: %s",
			v.Name, v.Driver, strings.Join(zones, ", ")),
		Timestamp: clock.Now(),
		Location:  AlertLocation{Lat: v.Lat, Lng: v.Lng, Name: v.Name},
		Vehicle:   v.ID,
	}
}

// NewTestAlert builds the fixed-content alert used by the test-alert
// endpoint to verify the factory -> dispatch path end to end.
func NewTestAlert() Alert {
	return Alert{
		ID:        fmt.Sprintf("test_%d", clock.Now().UnixMilli()),
		Type:      AlertRain,
		Severity:  SeverityMedium,
		Message:   "Esta es una alerta de prueba del sistema Clima Tracker",
		Timestamp: clock.Now(),
		Location:  AlertLocation{Lat: TestAlertLat, Lng: TestAlertLng, Name: testAlertName},
	}
}
