package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	radar "radar-austral/internal/radar/domain"
)

func exportStore() *stubCollections {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return &stubCollections{
		items: []radar.ContentItem{
			{ID: "a", Category: radar.CategoryCronicas, Headline: "Anuncian reforma", Timestamp: now},
		},
		alerts: []radar.Alert{
			{ID: "q", Title: "Sismo Mag 6.4", Severity: radar.SeverityHigh, Kind: radar.KindSeismic, Timestamp: now},
		},
		indicators: &radar.IndicatorSnapshot{UF: 39000.5, USD: 960.2, FetchedAt: now},
		narrative: &radar.Summary{
			Conclusions:   []radar.Conclusion{{Point: "Reforma avanza", Explanation: "domina la agenda"}},
			NationalPulse: "tenso",
			GeneratedAt:   now,
		},
	}
}

func TestExportPDF(t *testing.T) {
	handler := NewExportHandler(exportStore())
	mux := http.NewServeMux()
	handler.Register(mux)

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/exports/digest.pdf", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("payload is not a PDF")
	}
}

func TestExportXLSX(t *testing.T) {
	handler := NewExportHandler(exportStore())
	mux := http.NewServeMux()
	handler.Register(mux)

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/exports/digest.xlsx", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("PK")) {
		t.Fatalf("payload is not a workbook")
	}
}

func TestExportEmptyCollections(t *testing.T) {
	handler := NewExportHandler(&stubCollections{})
	mux := http.NewServeMux()
	handler.Register(mux)

	for _, path := range []string{"/api/v1/exports/digest.pdf", "/api/v1/exports/digest.xlsx"} {
		resp := httptest.NewRecorder()
		mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200 on empty data, got %d", path, resp.Code)
		}
	}
}

func TestExportRejectsPost(t *testing.T) {
	handler := NewExportHandler(&stubCollections{})
	mux := http.NewServeMux()
	handler.Register(mux)

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/exports/digest.pdf", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}
