// Package textract supplies the text-extraction collaborators: an HTTP
// client for an external PDF-text service and a local reader for
// pre-extracted notice text.
package textract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/ports"
)

// HTTPExtractor posts notices to an external extraction service that
// renders the gazette PDF and returns its text.
type HTTPExtractor struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ ports.TextExtractor = (*HTTPExtractor)(nil)

// NewHTTPExtractor creates a reusable HTTP client.
func NewHTTPExtractor(endpoint, apiKey string) *HTTPExtractor {
	return &HTTPExtractor{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Text requests the extracted text for one notice.
func (c *HTTPExtractor) Text(ctx context.Context, notice domain.Notice) (string, error) {
	payload := map[string]any{
		"id":    notice.ID,
		"url":   notice.URL,
		"title": notice.Title,
	}

	var resp struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/extract", payload, &resp); err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", fmt.Errorf("extraction service returned no text for %s", notice.ID)
	}
	return resp.Text, nil
}

func (c *HTTPExtractor) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if v == nil {
		if err := resp.Body.Close(); err != nil {
			return fmt.Errorf("close response body: %w", err)
		}
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
