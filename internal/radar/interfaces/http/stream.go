package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"radar-austral/internal/notify"
	"radar-austral/internal/observability/metrics"
	radar "radar-austral/internal/radar/domain"
)

// SSEBroker fans out alert and chime events to connected clients. It doubles
// as the process's notification and audio surface: with no client connected a
// broadcast is a silent no-op, which is the wanted degradation.
type SSEBroker struct {
	mu      sync.Mutex
	clients map[chan event]struct{}
}

type event struct {
	name    string
	payload []byte
}

// NewSSEBroker constructs a broker.
func NewSSEBroker() *SSEBroker {
	return &SSEBroker{clients: make(map[chan event]struct{})}
}

// Permission implements notify.AlertCapability. The stream needs no platform
// permission; delivery to zero clients simply reaches nobody.
func (b *SSEBroker) Permission() notify.PermissionState {
	return notify.PermissionGranted
}

// Notify implements notify.AlertCapability by broadcasting an alert event.
func (b *SSEBroker) Notify(_ context.Context, title, body string) error {
	if b == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]string{"title": title, "body": body})
	if err != nil {
		return err
	}
	b.broadcast(event{name: "alert", payload: payload})
	return nil
}

// Chime implements notify.AudioCapability by broadcasting a chime event with
// the cue intensity. Clients decide how to render it.
func (b *SSEBroker) Chime(_ context.Context, intensity notify.Intensity) error {
	if b == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]string{"intensity": string(intensity)})
	if err != nil {
		return err
	}
	b.broadcast(event{name: "chime", payload: payload})
	return nil
}

// BroadcastAlert pushes the full alert record to stream clients.
func (b *SSEBroker) BroadcastAlert(alert radar.Alert) {
	if b == nil {
		return
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return
	}
	b.broadcast(event{name: "alert", payload: payload})
}

// Subscribe registers a new client channel.
func (b *SSEBroker) Subscribe() chan event {
	if b == nil {
		return nil
	}
	ch := make(chan event, 16)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	metrics.SetStreamClients(len(b.clients))
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a client channel.
func (b *SSEBroker) Unsubscribe(ch chan event) {
	if b == nil || ch == nil {
		return
	}
	b.mu.Lock()
	delete(b.clients, ch)
	metrics.SetStreamClients(len(b.clients))
	b.mu.Unlock()
	close(ch)
}

func (b *SSEBroker) broadcast(ev event) {
	b.mu.Lock()
	clients := make([]chan event, 0, len(b.clients))
	for ch := range b.clients {
		clients = append(clients, ch)
	}
	b.mu.Unlock()
	for _, ch := range clients {
		select {
		case ch <- ev:
		default:
			// Slow client: drop rather than stall the tick loop.
		}
	}
}

// StreamHandler serves the SSE event stream.
type StreamHandler struct {
	broker *SSEBroker
}

// NewStreamHandler constructs a stream handler.
func NewStreamHandler(broker *SSEBroker) *StreamHandler {
	return &StreamHandler{broker: broker}
}

// ServeHTTP handles GET /api/v1/stream.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.broker == nil {
		http.Error(w, "stream not ready", http.StatusServiceUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.broker.Subscribe()
	if ch == nil {
		http.Error(w, "stream not ready", http.StatusServiceUnavailable)
		return
	}
	defer h.broker.Unsubscribe(ch)

	_, _ = w.Write([]byte("event: ready\ndata: {}\n\n"))
	flusher.Flush()

	done := r.Context().Done()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("event: " + ev.name + "\n"))
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(ev.payload)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		case <-done:
			return
		}
	}
}
