package adapters

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	radar "radar-austral/internal/radar/domain"
)

// seismicHighThreshold is the magnitude above which a quake is HIGH severity.
const seismicHighThreshold = 6.0

// USGSAdapter normalizes the USGS GeoJSON quake summary into seismic alerts,
// keeping only events located in the configured region.
type USGSAdapter struct {
	region string
	now    func() time.Time
}

// NewUSGSAdapter constructs the adapter. region is matched as a
// case-insensitive substring of the event place.
func NewUSGSAdapter(region string) *USGSAdapter {
	return &USGSAdapter{
		region: strings.ToLower(region),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type usgsFeed struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			Mag   float64 `json:"mag"`
			Place string  `json:"place"`
			Time  int64   `json:"time"`
		} `json:"properties"`
	} `json:"features"`
}

// Adapt filters and normalizes quake features.
func (a *USGSAdapter) Adapt(src radar.Source, payload []byte) (Result, error) {
	var feed usgsFeed
	if err := json.Unmarshal(payload, &feed); err != nil {
		return Result{}, err
	}

	now := a.now()
	alerts := make([]radar.Alert, 0, len(feed.Features))
	for _, feature := range feed.Features {
		place := feature.Properties.Place
		if a.region != "" && !strings.Contains(strings.ToLower(place), a.region) {
			continue
		}
		severity := radar.SeverityMedium
		if feature.Properties.Mag > seismicHighThreshold {
			severity = radar.SeverityHigh
		}
		alerts = append(alerts, radar.Alert{
			ID:        defaultString(feature.ID, fmt.Sprintf("usgs-%d", feature.Properties.Time)),
			Title:     fmt.Sprintf("Sismo Mag %.1f - %s", feature.Properties.Mag, defaultString(place, "ubicacion desconocida")),
			Severity:  severity,
			Timestamp: unixMillis(feature.Properties.Time, now),
			Kind:      radar.KindSeismic,
			SourceTag: src.ID,
		})
	}
	return Result{Alerts: alerts}, nil
}
