package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed response is quoted in errors
const maxErrorBody = 512

// WebhookNotifier posts reports as {"content": "..."} to a generic webhook
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// webhookPayload is the JSON body of a webhook post
type webhookPayload struct {
	Content string `json:"content"`
}

// NewWebhookNotifier creates a notifier for webhookURL. A nil httpClient uses a
// client with a 10 second timeout.
func NewWebhookNotifier(webhookURL string, httpClient *http.Client) (*WebhookNotifier, error) {
	u, err := validateURL(webhookURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}

	return &WebhookNotifier{
		url:        u.String(),
		httpClient: httpClient,
	}, nil
}

// encodePayload marshals the message. Backslashes, quotes, CR and LF are escaped
// by the JSON encoder; HTML characters are left as is.
func encodePayload(message string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(webhookPayload{Content: message}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Notify posts the message. Any non-2xx response is an error.
func (n *WebhookNotifier) Notify(ctx context.Context, message string) error {
	if message == "" {
		return fmt.Errorf("message text is required")
	}

	body, err := encodePayload(message)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, string(respBody))
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
