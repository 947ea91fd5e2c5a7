// Package alertstore keeps the in-memory record of emitted alerts: the
// active list, a capped history, and aggregate statistics.
package alertstore

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/polodad/clima-tracker-service/internal/domain"
)

const (
	// historyCap bounds the append-only history; the oldest entries are
	// evicted first.
	historyCap = 100

	// duplicateWindow suppresses a new alert when one of the same type and
	// location name exists within this window. This guards the ad-hoc path;
	// the scheduled path is gated separately by the cooldown ledger.
	duplicateWindow = 30 * time.Minute

	// activeWindow is how long an alert counts as active.
	activeWindow = 60 * time.Minute
)

// Store holds emitted alerts. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	active  []domain.Alert
	history []domain.Alert
}

// Stats aggregates the capped history.
type Stats struct {
	Total      int            `json:"total"`
	ByType     map[string]int `json:"byType"`
	BySeverity map[string]int `json:"bySeverity"`
	Last24h    int            `json:"last24Hours"`
}

// New creates an empty Store using the given clock.
func New(clock clockwork.Clock) *Store {
	return &Store{clock: clock}
}

// Add records an alert. It is a silent no-op (returning false) when an alert
// of the same type and location name already exists in history within the
// duplicate window.
func (s *Store) Add(alert domain.Alert) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for _, existing := range s.history {
		if existing.Type == alert.Type &&
			existing.Location.Name == alert.Location.Name &&
			now.Sub(existing.Timestamp) < duplicateWindow {
			return false
		}
	}

	s.active = append(s.active, alert)
	s.history = append(s.history, alert)
	if len(s.history) > historyCap {
		s.history = s.history[len(s.history)-historyCap:]
	}
	return true
}

// Active returns alerts emitted within the last hour.
func (s *Store) Active() []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var out []domain.Alert
	for _, a := range s.active {
		if now.Sub(a.Timestamp) < activeWindow {
			out = append(out, a)
		}
	}
	return out
}

// Recent returns up to limit alerts from history, newest first.
func (s *Store) Recent(limit int) []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Alert, len(s.history))
	copy(out, s.history)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Clear removes one alert from the active list by ID. History is untouched.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.active[:0]
	for _, a := range s.active {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.active = kept
}

// ClearAll empties the active list. History is untouched.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
}

// Stats computes aggregates over the capped history.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	stats := Stats{
		Total:      len(s.history),
		ByType:     make(map[string]int),
		BySeverity: make(map[string]int),
	}
	for _, a := range s.history {
		stats.ByType[string(a.Type)]++
		stats.BySeverity[string(a.Severity)]++
		if now.Sub(a.Timestamp) <= 24*time.Hour {
			stats.Last24h++
		}
	}
	return stats
}
