package adapters

import (
	"testing"

	radar "radar-austral/internal/radar/domain"
)

func TestRedditAdapterNormalizesPosts(t *testing.T) {
	adapter := NewRedditAdapter()
	adapter.now = fixedNow
	src := radar.Source{ID: "cronicas-reddit", Name: "Cronica Austral", CategoryHint: radar.CategoryCronicas}

	payload := []byte(`{"data":{"children":[
		{"data":{"id":"p1","title":"Titular","selftext":"cuerpo","created_utc":1756300000,"permalink":"/r/chile/p1"}},
		{"data":{"id":"p2","title":"Sin fecha"}}
	]}}`)
	result, err := adapter.Adapt(src, payload)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	first := result.Items[0]
	if first.ID != "p1" || first.URL != "https://reddit.com/r/chile/p1" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if first.Timestamp.Unix() != 1756300000 {
		t.Fatalf("created_utc not honored: %v", first.Timestamp)
	}
	if !result.Items[1].Timestamp.Equal(fixedNow()) {
		t.Fatalf("missing created_utc should default to now, got %v", result.Items[1].Timestamp)
	}
}

func TestMindicadorSnapshot(t *testing.T) {
	adapter := NewMindicadorAdapter()
	adapter.now = fixedNow

	payload := []byte(`{
		"uf":{"valor":38000.5},"dolar":{"valor":945.2},"utm":{"valor":66000},
		"ipc":{"valor":0.4},"ivp":{"valor":39500.1}
	}`)
	result, err := adapter.Adapt(radar.Source{ID: "indicadores"}, payload)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	snap := result.Indicators
	if snap == nil {
		t.Fatal("expected an indicator snapshot")
	}
	if snap.UF != 38000.5 || snap.USD != 945.2 || snap.UTM != 66000 || snap.IPC != 0.4 || snap.IVP != 39500.1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !snap.FetchedAt.Equal(fixedNow()) {
		t.Fatalf("unexpected fetched at: %v", snap.FetchedAt)
	}
}

func TestMindicadorMissingFieldCoercesToZero(t *testing.T) {
	adapter := NewMindicadorAdapter()
	adapter.now = fixedNow

	result, err := adapter.Adapt(radar.Source{}, []byte(`{"uf":{"valor":38000.5}}`))
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if result.Indicators.IVP != 0 {
		t.Fatalf("missing ivp should decode to zero, got %v", result.Indicators.IVP)
	}
}

func TestMeteoRedFlagIsHigh(t *testing.T) {
	adapter := NewMeteoAdapter("chile")
	adapter.now = fixedNow
	src := radar.Source{ID: "meteo-alertas"}

	payload := []byte(`{"alertas":[
		{"id":"w1","titulo":"Viento fuerte","nivel":"RED","zona":"Chile centro","actualizado":1756300000},
		{"id":"w2","titulo":"Lluvia","nivel":"yellow","zona":"chile sur"},
		{"id":"w3","titulo":"Fuera de zona","nivel":"red","zona":"Argentina"}
	]}`)
	result, err := adapter.Adapt(src, payload)
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if len(result.Alerts) != 2 {
		t.Fatalf("expected region filter to keep 2 alerts, got %d", len(result.Alerts))
	}
	if result.Alerts[0].Severity != radar.SeverityHigh {
		t.Fatalf("red advisory should be high, got %s", result.Alerts[0].Severity)
	}
	if result.Alerts[1].Severity != radar.SeverityMedium {
		t.Fatalf("non-red advisory should be medium, got %s", result.Alerts[1].Severity)
	}
	if !result.Alerts[1].Timestamp.Equal(fixedNow()) {
		t.Fatalf("missing update time should default to now, got %v", result.Alerts[1].Timestamp)
	}
}

func TestRegistryLookupPrefersSourceBinding(t *testing.T) {
	node := testNode(t)
	registry := NewDefaultRegistry("chile", node)

	maritime := radar.Source{ID: SourceMaritima, Format: radar.FormatRSS}
	adapter, ok := registry.Lookup(maritime)
	if !ok {
		t.Fatal("expected adapter for maritime source")
	}
	if _, isMaritime := adapter.(*MaritimeAdapter); !isMaritime {
		t.Fatalf("expected maritime adapter, got %T", adapter)
	}

	generic := radar.Source{ID: "otro-feed", Format: radar.FormatRSS}
	adapter, ok = registry.Lookup(generic)
	if !ok {
		t.Fatal("expected format fallback for unknown rss source")
	}
	if _, isRSS := adapter.(*RSSAdapter); !isRSS {
		t.Fatalf("expected generic rss adapter, got %T", adapter)
	}

	if _, ok := registry.Lookup(radar.Source{ID: "desconocido", Format: radar.FormatAPI}); ok {
		t.Fatal("unknown api source must not resolve")
	}
}
