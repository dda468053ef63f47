package memory

import (
	"sync"

	radar "radar-austral/internal/radar/domain"
)

// Store holds the live collections. The engine tick loop is the only writer;
// presentation handlers read concurrently.
type Store struct {
	mu         sync.RWMutex
	items      []radar.ContentItem
	alerts     []radar.Alert
	indicators *radar.IndicatorSnapshot
	narrative  *radar.Summary
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{}
}

// Items returns a copy of the item collection, optionally filtered by category.
func (s *Store) Items(category string) []radar.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]radar.ContentItem, 0, len(s.items))
	for _, item := range s.items {
		if category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Alerts returns a copy of the alert collection (already sorted newest first).
func (s *Store) Alerts() []radar.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]radar.Alert(nil), s.alerts...)
}

// Indicators returns the latest snapshot, nil before the first successful fetch.
func (s *Store) Indicators() *radar.IndicatorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.indicators == nil {
		return nil
	}
	snap := *s.indicators
	return &snap
}

// Narrative returns the latest enrichment summary, nil when none succeeded yet.
func (s *Store) Narrative() *radar.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.narrative == nil {
		return nil
	}
	summary := *s.narrative
	return &summary
}

// MergeItems replaces the partition belonging to sourceName. It reports
// whether the collection changed, which gates the enrichment trigger.
func (s *Store) MergeItems(sourceName string, fresh []radar.ContentItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := radar.MergeItems(s.items, sourceName, fresh)
	changed := !sameItems(s.items, merged)
	s.items = merged
	return changed
}

// MergeAlerts replaces the partition keyed by sourceTag.
func (s *Store) MergeAlerts(sourceTag string, fresh []radar.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = radar.MergeAlerts(s.alerts, sourceTag, fresh)
}

// SetIndicators replaces the snapshot wholesale. Never called on fetch
// failure, so a stale snapshot survives errors.
func (s *Store) SetIndicators(snap radar.IndicatorSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicators = &snap
}

// SetNarrative publishes the enrichment result (single-writer slot).
func (s *Store) SetNarrative(summary radar.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.narrative = &summary
}

func sameItems(a, b []radar.ContentItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].Timestamp.Equal(b[i].Timestamp) {
			return false
		}
	}
	return true
}
