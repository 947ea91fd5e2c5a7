package domain

// riskWindowHours is how many upcoming forecast samples the trigger
// predicate inspects.
const riskWindowHours = 2

// ClassifySeverity maps raw rain values to a generic severity. Total
// function: out-of-range inputs fall through the comparisons to low.
func ClassifySeverity(precipitationMMPH, probabilityPct float64) Severity {
	if probabilityPct >= 80 && precipitationMMPH >= 10 {
		return SeverityHigh
	}
	if probabilityPct >= 60 && precipitationMMPH >= 5 {
		return SeverityMedium
	}
	return SeverityLow
}

// ClassifyByZoneRisk maps a geofence's static risk class plus the forecast
// precipitation to a severity. Used by the scheduled evaluation path, where
// the zone's classification caps the alert severity.
func ClassifyByZoneRisk(risk RiskClass, precipitationMMPH float64) Severity {
	if risk == RiskHigh && precipitationMMPH >= 10 {
		return SeverityHigh
	}
	if risk == RiskMedium && precipitationMMPH >= 5 {
		return SeverityMedium
	}
	return SeverityLow
}

// RadarSeverity classifies radar reflectivity in dBZ.
func RadarSeverity(intensityDBZ float64) Severity {
	if intensityDBZ >= 50 {
		return SeverityHigh
	}
	if intensityDBZ >= 30 {
		return SeverityMedium
	}
	return SeverityLow
}

// HasRiskConditions is the alert trigger predicate: true when ANY of the
// next two hourly samples meets BOTH thresholds.
func HasRiskConditions(forecast []ForecastSample, cfg RiskConfig) bool {
	for _, sample := range window(forecast, riskWindowHours) {
		if sample.Probability >= cfg.RainProbabilityThreshold &&
			sample.Precipitation >= cfg.RainIntensityMMPH {
			return true
		}
	}
	return false
}

// RiskLevel grades a location by counting risky hours over the next three
// samples: two or more is high, one is medium, none is low.
func RiskLevel(forecast []ForecastSample, cfg RiskConfig) Severity {
	riskHours := 0
	for _, sample := range window(forecast, 3) {
		if sample.Probability >= cfg.RainProbabilityThreshold &&
			sample.Precipitation >= cfg.RainIntensityMMPH {
			riskHours++
		}
	}
	switch {
	case riskHours >= 2:
		return SeverityHigh
	case riskHours >= 1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func window(forecast []ForecastSample, n int) []ForecastSample {
	if len(forecast) < n {
		return forecast
	}
	return forecast[:n]
}
