// Package domain models the weather-risk monitoring data: geofenced zones,
// a small vehicle fleet, hourly precipitation forecasts, and the alerts the
// evaluator emits from them.
//
// # Data Sources
//
// Forecasts come from the Open-Meteo hourly API (precipitation in mm/h,
// precipitation_probability in percent), fetched at each geofence's centroid.
// Geofences are loaded from a GeoJSON FeatureCollection whose polygon rings
// are stored in [lat, lng] order (Leaflet convention carried over from the
// map frontend, NOT standard GeoJSON lon/lat). Vehicles and the risk
// configuration are plain JSON documents from the same data directory.
//
// # Risk Classification
//
// Severity is a three-level ordinal scale (low, medium, high). Two
// classifiers exist on purpose:
//
//	ClassifySeverity(precip, prob):   generic rain severity used by the
//	                                  ad-hoc alert path.
//	  high:   prob >= 80 AND precip >= 10 mm/h
//	  medium: prob >= 60 AND precip >= 5 mm/h
//
//	ClassifyByZoneRisk(risk, precip): scheduled-evaluation severity, keyed
//	                                  off the zone's static risk class.
//	  high:   zone risk high AND precip >= 10 mm/h
//	  medium: zone risk medium AND precip >= 5 mm/h
//
// The trigger predicate is separate from severity: a zone is "at risk" when
// ANY of the next two hourly samples meets probability >= threshold AND
// precipitation >= intensity threshold (see [HasRiskConditions]).
//
// Radar severity uses reflectivity thresholds: >= 50 dBZ high, >= 30 dBZ
// medium.
//
// # Alert Identity
//
// Alert IDs are "<category>_<unix-millis>_<subject>", e.g.
// "rain_1714143000000_Centro". Uniqueness is best-effort; the cooldown
// ledger and the store's duplicate window make collisions harmless.
package domain
