// Package cooldown tracks, per alert key, when the last alert was emitted,
// and gates new emissions until the cooldown window has elapsed. The
// scheduled evaluator is its only caller; the alert store's duplicate window
// covers the ad-hoc path independently.
package cooldown

import (
	"context"
	"fmt"
	"time"
)

// Ledger answers whether an alert key is out of cooldown and records new
// emissions. The Allowed/Record pair for one key is not atomic on its own:
// callers must wrap the sequence in LockKey to serialize concurrent checks
// for the same key.
type Ledger interface {
	// Allowed reports whether no emission is recorded for key, or the last
	// one is at least window old.
	Allowed(ctx context.Context, key string, window time.Duration) (bool, error)

	// Record overwrites the stored emission time for key with now.
	Record(ctx context.Context, key string) error

	// LockKey acquires the per-key critical section and returns its release.
	LockKey(key string) (unlock func())
}

// RainKey derives the ledger key for a geofence rain alert.
func RainKey(geofenceName string) string {
	return fmt.Sprintf("%s_rain", geofenceName)
}

// VehicleKey derives the ledger key for a vehicle proximity alert.
func VehicleKey(vehicleID string) string {
	return fmt.Sprintf("%s_vehicle", vehicleID)
}
