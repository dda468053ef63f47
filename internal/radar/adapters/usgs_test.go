package adapters

import (
	"fmt"
	"strings"
	"testing"
	"time"

	radar "radar-austral/internal/radar/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
}

func usgsPayload(features ...string) []byte {
	return []byte(fmt.Sprintf(`{"features":[%s]}`, strings.Join(features, ",")))
}

func quake(id string, mag float64, place string, ms int64) string {
	return fmt.Sprintf(`{"id":%q,"properties":{"mag":%g,"place":%q,"time":%d}}`, id, mag, place, ms)
}

func TestUSGSSeverityThreshold(t *testing.T) {
	adapter := NewUSGSAdapter("chile")
	adapter.now = fixedNow
	src := radar.Source{ID: "sismos-usgs", Name: "Sismos USGS"}

	payload := usgsPayload(
		quake("q1", 6.1, "30km W of Valparaiso, Chile", 1000),
		quake("q2", 5.9, "offshore Coquimbo, Chile", 2000),
	)
	result, err := adapter.Adapt(src, payload)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if len(result.Alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(result.Alerts))
	}
	if result.Alerts[0].Severity != radar.SeverityHigh {
		t.Fatalf("mag 6.1 should be high, got %s", result.Alerts[0].Severity)
	}
	if result.Alerts[1].Severity != radar.SeverityMedium {
		t.Fatalf("mag 5.9 should be medium, got %s", result.Alerts[1].Severity)
	}
	if result.Alerts[0].Kind != radar.KindSeismic || result.Alerts[0].SourceTag != "sismos-usgs" {
		t.Fatalf("unexpected kind/tag: %+v", result.Alerts[0])
	}
}

func TestUSGSRegionFilter(t *testing.T) {
	adapter := NewUSGSAdapter("chile")
	adapter.now = fixedNow

	payload := usgsPayload(
		quake("q1", 7.0, "Fiji region", 1000),
		quake("q2", 4.8, "50km S of Arica, CHILE", 2000),
	)
	result, err := adapter.Adapt(radar.Source{ID: "sismos-usgs"}, payload)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if len(result.Alerts) != 1 || result.Alerts[0].ID != "q2" {
		t.Fatalf("expected only the chilean quake, got %+v", result.Alerts)
	}
}

func TestUSGSMissingTimestampDefaults(t *testing.T) {
	adapter := NewUSGSAdapter("chile")
	adapter.now = fixedNow

	payload := usgsPayload(`{"id":"q1","properties":{"mag":5.0,"place":"near Santiago, Chile"}}`)
	result, err := adapter.Adapt(radar.Source{ID: "sismos-usgs"}, payload)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if !result.Alerts[0].Timestamp.Equal(fixedNow()) {
		t.Fatalf("missing time should default to now, got %v", result.Alerts[0].Timestamp)
	}
}

func TestUSGSParseErrorAbortsBatch(t *testing.T) {
	adapter := NewUSGSAdapter("chile")
	if _, err := adapter.Adapt(radar.Source{}, []byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
