package adapters

import (
	"encoding/json"
	"strings"
	"time"

	radar "radar-austral/internal/radar/domain"
)

// MeteoAdapter normalizes weather advisory payloads into weather alerts.
// Advisories flagged "red" are HIGH, everything else MEDIUM.
type MeteoAdapter struct {
	region string
	now    func() time.Time
}

// NewMeteoAdapter constructs the adapter.
func NewMeteoAdapter(region string) *MeteoAdapter {
	return &MeteoAdapter{
		region: strings.ToLower(region),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type meteoPayload struct {
	Alertas []struct {
		ID          string  `json:"id"`
		Titulo      string  `json:"titulo"`
		Descripcion string  `json:"descripcion"`
		Nivel       string  `json:"nivel"`
		Zona        string  `json:"zona"`
		Actualizado float64 `json:"actualizado"`
	} `json:"alertas"`
}

// Adapt filters advisories by region and normalizes them.
func (a *MeteoAdapter) Adapt(src radar.Source, payload []byte) (Result, error) {
	var body meteoPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return Result{}, err
	}

	now := a.now()
	alerts := make([]radar.Alert, 0, len(body.Alertas))
	for _, advisory := range body.Alertas {
		if a.region != "" && advisory.Zona != "" && !strings.Contains(strings.ToLower(advisory.Zona), a.region) {
			continue
		}
		severity := radar.SeverityMedium
		if strings.EqualFold(strings.TrimSpace(advisory.Nivel), "red") {
			severity = radar.SeverityHigh
		}
		alerts = append(alerts, radar.Alert{
			ID:          defaultString(advisory.ID, "meteo-"+advisory.Titulo),
			Title:       defaultString(advisory.Titulo, "Aviso meteorologico"),
			Description: advisory.Descripcion,
			Severity:    severity,
			Timestamp:   unixSeconds(advisory.Actualizado, now),
			Kind:        radar.KindWeather,
			SourceTag:   src.ID,
		})
	}
	return Result{Alerts: alerts}, nil
}
