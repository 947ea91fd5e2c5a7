package domain

import (
	"fmt"
	"time"
)

var severityEmoji = map[Severity]string{
	SeverityLow:    "🟡",
	SeverityMedium: "🟠",
	SeverityHigh:   "🔴",
}

var typeEmoji = map[AlertType]string{
	AlertRain:  "🌧️",
	AlertRadar: "📡",
	AlertFlood: "🌊",
}

// displayLocation is the timezone alert timestamps are rendered in.
// LoadLocation only fails without tzdata; UTC is the fallback then.
var displayLocation = func() *time.Location {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// FormatMessage renders an alert as the Markdown message sent to the
// dispatch channel.
func FormatMessage(a Alert) string {
	return fmt.Sprintf(`%s *ALERTA %s*

%s %s

📍 *Ubicación:* %s
🕐 *Hora:* %s
🔗 *Ver en mapa:* https://maps.google.com/?q=%g,%g

---
*Clima Tracker - Sistema de Monitoreo*`,
		severityEmoji[a.Severity],
		severityUpper(a.Severity),
		typeEmoji[a.Type],
		a.Message,
		a.Location.Name,
		a.Timestamp.In(displayLocation).Format("02/01/2006 15:04:05"),
		a.Location.Lat,
		a.Location.Lng,
	)
}

func severityUpper(s Severity) string {
	switch s {
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}
