package radar

import "time"

// ContentItem is one normalized feed entry. IDs are stable across fetches of
// the same logical item so a re-fetch never duplicates it.
type ContentItem struct {
	ID         string            `json:"id"`
	SourceName string            `json:"source"`
	Headline   string            `json:"headline"`
	Body       string            `json:"body,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Category   string            `json:"category"`
	URL        string            `json:"url,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// IndicatorSnapshot is the denormalized economic indicator record. It is
// replaced wholesale on every successful fetch and kept stale on failure.
type IndicatorSnapshot struct {
	UF        float64   `json:"uf"`
	USD       float64   `json:"usd"`
	UTM       float64   `json:"utm"`
	IPC       float64   `json:"ipc"`
	IVP       float64   `json:"ivp"`
	FetchedAt time.Time `json:"fetched_at"`
}
