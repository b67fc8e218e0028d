package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"EditalScanner/internal/ports"
)

// Webhook posts plain-text alerts to a configured URL.
type Webhook struct {
	url    string
	client *http.Client
}

var _ ports.Notifier = (*Webhook)(nil)

// NewWebhook registers the receiving endpoint.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Notify posts subject and body as a single text payload.
func (n *Webhook) Notify(ctx context.Context, subject, body string) error {
	if n.url == "" || n.client == nil {
		return fmt.Errorf("webhook notifier misconfigured")
	}

	payload := subject + "\n\n" + body
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook error: %s", resp.Status)
	}

	return nil
}
