package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type webhookPayload struct {
	MsgType string      `json:"msgtype"`
	Text    webhookText `json:"text"`
}

type webhookText struct {
	Content string `json:"content"`
}

// WebhookAlerter posts alert notifications to a webhook endpoint using a
// DingTalk/WeCom-compatible text payload.
type WebhookAlerter struct {
	url    string
	client *http.Client
}

// WebhookOption configures the alerter.
type WebhookOption func(*WebhookAlerter)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *WebhookAlerter) {
		if client != nil {
			w.client = client
		}
	}
}

// NewWebhookAlerter constructs a webhook alerter. An empty URL is allowed:
// the capability then reports PermissionNotRequested and is never called.
func NewWebhookAlerter(url string, opts ...WebhookOption) *WebhookAlerter {
	alerter := &WebhookAlerter{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(alerter)
	}
	return alerter
}

// Permission implements AlertCapability.
func (w *WebhookAlerter) Permission() PermissionState {
	if w == nil || w.url == "" {
		return PermissionNotRequested
	}
	return PermissionGranted
}

// Notify implements AlertCapability.
func (w *WebhookAlerter) Notify(ctx context.Context, title, body string) error {
	if w == nil || w.url == "" {
		return errors.New("webhook alerter: empty url")
	}
	content := title
	if body != "" {
		content = title + "\n" + body
	}
	payload, err := json.Marshal(webhookPayload{MsgType: "text", Text: webhookText{Content: content}})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook alerter: non-2xx response %d", resp.StatusCode)
	}
	return nil
}
