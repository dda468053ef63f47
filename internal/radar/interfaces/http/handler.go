package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"radar-austral/internal/audit"
	"radar-austral/internal/auth"
	radar "radar-austral/internal/radar/domain"
)

// Service is the handler's view of the engine.
type Service interface {
	Sources() []radar.Source
	UpdateSource(id string, patch radar.SourcePatch) (radar.Source, error)
	Settings() radar.Settings
	UpdateSettings(settings radar.Settings) radar.Settings
}

// Refresher triggers a forced synchronization pass.
type Refresher interface {
	Refresh()
}

// Collections is the handler's read view of the live data.
type Collections interface {
	Items(category string) []radar.ContentItem
	Alerts() []radar.Alert
	Indicators() *radar.IndicatorSnapshot
	Narrative() *radar.Summary
}

// Handler provides the radar HTTP endpoints under /api/v1.
type Handler struct {
	service   Service
	store     Collections
	refresher Refresher
	audits    audit.Logger
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithAudit attaches an audit log for mutation endpoints.
func WithAudit(logger audit.Logger) HandlerOption {
	return func(h *Handler) { h.audits = logger }
}

// NewHandler constructs a handler.
func NewHandler(service Service, store Collections, refresher Refresher, opts ...HandlerOption) (*Handler, error) {
	if service == nil {
		return nil, errors.New("radar handler: nil service")
	}
	if store == nil {
		return nil, errors.New("radar handler: nil store")
	}
	h := &Handler{service: service, store: store, refresher: refresher}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// recordAudit logs one mutation. Audit failures never fail the request.
func (h *Handler) recordAudit(r *http.Request, action, resourceType, resourceID string, metadata []byte) {
	if h.audits == nil {
		return
	}
	_ = h.audits.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metadata,
		IP:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	})
}

// Register mounts the handler's routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/items", h.handleItems)
	mux.HandleFunc("/api/v1/alerts", h.handleAlerts)
	mux.HandleFunc("/api/v1/indicators", h.handleIndicators)
	mux.HandleFunc("/api/v1/narrative", h.handleNarrative)
	mux.HandleFunc("/api/v1/sources", h.handleSources)
	mux.HandleFunc("/api/v1/sources/", h.handleSourcePatch)
	mux.HandleFunc("/api/v1/settings", h.handleSettings)
	mux.HandleFunc("/api/v1/refresh", h.handleRefresh)
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	category := r.URL.Query().Get("category")
	writeJSON(w, h.store.Items(category))
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	alerts := h.store.Alerts()
	if min := r.URL.Query().Get("min_severity"); min != "" {
		filtered := make([]radar.Alert, 0, len(alerts))
		for _, alert := range alerts {
			if radar.SeverityAtLeast(alert.Severity, min) {
				filtered = append(filtered, alert)
			}
		}
		alerts = filtered
	}
	writeJSON(w, alerts)
}

func (h *Handler) handleIndicators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := h.store.Indicators()
	if snap == nil {
		http.Error(w, "indicators not fetched yet", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

func (h *Handler) handleNarrative(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	narrative := h.store.Narrative()
	if narrative == nil {
		http.Error(w, "narrative not generated yet", http.StatusNotFound)
		return
	}
	writeJSON(w, narrative)
}

func (h *Handler) handleSources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.service.Sources())
}

func (h *Handler) handleSourcePatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/sources/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var patch radar.SourcePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid patch body", http.StatusBadRequest)
		return
	}
	src, err := h.service.UpdateSource(id, patch)
	if err != nil {
		if errors.Is(err, radar.ErrUnknownSource) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metadata, _ := json.Marshal(patch)
	h.recordAudit(r, "source.patch", "source", id, metadata)
	writeJSON(w, src)
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.service.Settings())
	case http.MethodPut:
		var settings radar.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, "invalid settings body", http.StatusBadRequest)
			return
		}
		applied := h.service.UpdateSettings(settings)
		metadata, _ := json.Marshal(applied)
		h.recordAudit(r, "settings.update", "settings", "settings", metadata)
		writeJSON(w, applied)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.refresher == nil {
		http.Error(w, "refresh unavailable", http.StatusServiceUnavailable)
		return
	}
	h.refresher.Refresh()
	h.recordAudit(r, "engine.refresh", "engine", "engine", nil)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "scheduled"})
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}
