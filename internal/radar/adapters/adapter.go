package adapters

import (
	"time"

	radar "radar-austral/internal/radar/domain"
)

// Result is the normalized output of one adapter pass. Exactly one of the
// three groups is populated for a given source.
type Result struct {
	Items      []radar.ContentItem
	Alerts     []radar.Alert
	Indicators *radar.IndicatorSnapshot
}

// Adapter normalizes one raw fetched payload into typed records. A single
// malformed record is coerced to safe defaults, never aborts the batch.
type Adapter interface {
	Adapt(src radar.Source, payload []byte) (Result, error)
}

// Registry resolves the adapter for a source: an exact source-id binding
// wins, then a format-level fallback.
type Registry struct {
	bySource map[string]Adapter
	byFormat map[string]Adapter
}

// NewRegistry constructs an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		bySource: make(map[string]Adapter),
		byFormat: make(map[string]Adapter),
	}
}

// Register binds an adapter to a source id.
func (r *Registry) Register(sourceID string, adapter Adapter) {
	if sourceID == "" || adapter == nil {
		return
	}
	r.bySource[sourceID] = adapter
}

// RegisterFormat binds a fallback adapter to a response format.
func (r *Registry) RegisterFormat(format string, adapter Adapter) {
	if format == "" || adapter == nil {
		return
	}
	r.byFormat[format] = adapter
}

// Lookup resolves the adapter for a source.
func (r *Registry) Lookup(src radar.Source) (Adapter, bool) {
	if adapter, ok := r.bySource[src.ID]; ok {
		return adapter, true
	}
	adapter, ok := r.byFormat[src.Format]
	return adapter, ok
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// unixMillis coerces an upstream epoch-milliseconds value, defaulting to now
// when the record lacks one.
func unixMillis(ms int64, now time.Time) time.Time {
	if ms <= 0 {
		return now
	}
	return time.UnixMilli(ms).UTC()
}

// unixSeconds coerces an upstream epoch-seconds value, defaulting to now.
func unixSeconds(sec float64, now time.Time) time.Time {
	if sec <= 0 {
		return now
	}
	return time.Unix(int64(sec), 0).UTC()
}
