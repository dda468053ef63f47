package radar

import "time"

// Alert severities, highest first.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityInfo   = "info"
)

// Alert kinds.
const (
	KindSeismic  = "seismic"
	KindWeather  = "weather"
	KindMaritime = "maritime"
	KindSolar    = "solar"
	KindGeneral  = "general"
)

// Alert is one severity-tagged event. ID is stable for the same physical
// event across polls so an ongoing event never re-notifies.
type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Severity    string    `json:"severity"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        string    `json:"kind"`
	SourceTag   string    `json:"source_tag"`
}

// SeverityAtLeast reports whether value ranks at or above target.
func SeverityAtLeast(value, target string) bool {
	return severityRank(value) >= severityRank(target)
}

func severityRank(value string) int {
	switch value {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}
