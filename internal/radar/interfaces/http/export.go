package http

import (
	"net/http"
	"strconv"
	"time"

	"radar-austral/internal/observability/metrics"
	"radar-austral/internal/radar/interfaces"
)

// ExportHandler serves digest downloads.
type ExportHandler struct {
	store Collections
	now   func() time.Time
}

// NewExportHandler constructs an export handler.
func NewExportHandler(store Collections) *ExportHandler {
	return &ExportHandler{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Register mounts the export routes.
func (h *ExportHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/exports/digest.pdf", h.handlePDF)
	mux.HandleFunc("/api/v1/exports/digest.xlsx", h.handleXLSX)
}

func (h *ExportHandler) digest() interfaces.Digest {
	return interfaces.Digest{
		GeneratedAt: h.now(),
		Items:       h.store.Items(""),
		Alerts:      h.store.Alerts(),
		Indicators:  h.store.Indicators(),
		Narrative:   h.store.Narrative(),
	}
}

func (h *ExportHandler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	started := time.Now()
	payload, err := interfaces.BuildDigestPDF(h.digest())
	if err != nil {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(started))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("pdf", metrics.ResultSuccess, time.Since(started))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="digest.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	_, _ = w.Write(payload)
}

func (h *ExportHandler) handleXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	started := time.Now()
	payload, err := interfaces.BuildDigestXLSX(h.digest())
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(started))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport("xlsx", metrics.ResultSuccess, time.Since(started))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="digest.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	_, _ = w.Write(payload)
}
