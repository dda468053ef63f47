package adapters

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	radar "radar-austral/internal/radar/domain"
)

// noaaTimeLayout matches SWPC issue timestamps ("2026-08-28 01:23:00.000").
const noaaTimeLayout = "2006-01-02 15:04:05.000"

// SolarAdapter normalizes NOAA SWPC bulletins into solar-activity alerts.
// Messages containing "warning" or "alert" are HIGH, everything else INFO.
type SolarAdapter struct {
	now func() time.Time
}

// NewSolarAdapter constructs the adapter.
func NewSolarAdapter() *SolarAdapter {
	return &SolarAdapter{now: func() time.Time { return time.Now().UTC() }}
}

type noaaBulletin struct {
	SerialNumber  int64  `json:"serial_number"`
	ProductID     string `json:"product_id"`
	IssueDatetime string `json:"issue_datetime"`
	Message       string `json:"message"`
}

// Adapt normalizes the bulletin list.
func (a *SolarAdapter) Adapt(src radar.Source, payload []byte) (Result, error) {
	var bulletins []noaaBulletin
	if err := json.Unmarshal(payload, &bulletins); err != nil {
		return Result{}, err
	}

	now := a.now()
	alerts := make([]radar.Alert, 0, len(bulletins))
	for _, bulletin := range bulletins {
		message := strings.TrimSpace(bulletin.Message)
		if message == "" && bulletin.ProductID == "" {
			continue
		}
		lower := strings.ToLower(message)
		severity := radar.SeverityInfo
		if strings.Contains(lower, "warning") || strings.Contains(lower, "alert") {
			severity = radar.SeverityHigh
		}
		issued := now
		if parsed, err := time.Parse(noaaTimeLayout, bulletin.IssueDatetime); err == nil {
			issued = parsed.UTC()
		}
		alerts = append(alerts, radar.Alert{
			ID:          fmt.Sprintf("swpc-%s-%d", defaultString(bulletin.ProductID, "msg"), bulletin.SerialNumber),
			Title:       firstLine(defaultString(message, "Boletin solar")),
			Description: message,
			Severity:    severity,
			Timestamp:   issued,
			Kind:        radar.KindSolar,
			SourceTag:   src.ID,
		})
	}
	return Result{Alerts: alerts}, nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}
