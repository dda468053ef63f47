package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookAlerterPayload(t *testing.T) {
	received := make(chan webhookPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var payload webhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	alerter := NewWebhookAlerter(server.URL)
	if alerter.Permission() != PermissionGranted {
		t.Fatalf("configured alerter should be granted, got %s", alerter.Permission())
	}
	if err := alerter.Notify(context.Background(), "Sismo Mag 6.4", "30km W de Valparaiso"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	payload := <-received
	if payload.MsgType != "text" {
		t.Fatalf("expected msgtype text, got %s", payload.MsgType)
	}
	if !strings.Contains(payload.Text.Content, "Sismo Mag 6.4") || !strings.Contains(payload.Text.Content, "Valparaiso") {
		t.Fatalf("unexpected content %q", payload.Text.Content)
	}
}

func TestWebhookAlerterUnconfigured(t *testing.T) {
	alerter := NewWebhookAlerter("")
	if alerter.Permission() != PermissionNotRequested {
		t.Fatalf("empty url should report not-requested, got %s", alerter.Permission())
	}
}

type stubAlerter struct {
	permission PermissionState
	calls      int
	err        error
}

func (s *stubAlerter) Permission() PermissionState { return s.permission }

func (s *stubAlerter) Notify(context.Context, string, string) error {
	s.calls++
	return s.err
}

func TestMultiAlerterSkipsUngranted(t *testing.T) {
	granted := &stubAlerter{permission: PermissionGranted}
	denied := &stubAlerter{permission: PermissionDenied}
	multi := NewMultiAlerter(granted, denied)

	if multi.Permission() != PermissionGranted {
		t.Fatalf("expected granted, got %s", multi.Permission())
	}
	if err := multi.Notify(context.Background(), "t", "b"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if granted.calls != 1 || denied.calls != 0 {
		t.Fatalf("unexpected calls granted=%d denied=%d", granted.calls, denied.calls)
	}
}

func TestMultiAlerterAttemptsAllAndReturnsFirstError(t *testing.T) {
	failing := &stubAlerter{permission: PermissionGranted, err: errors.New("boom")}
	second := &stubAlerter{permission: PermissionGranted}
	multi := NewMultiAlerter(failing, second)

	if err := multi.Notify(context.Background(), "t", ""); err == nil {
		t.Fatal("expected first error to propagate")
	}
	if second.calls != 1 {
		t.Fatal("second alerter should still be attempted")
	}
}
