package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const timeout = 10 * time.Second

// ErrInvalidWebhook is returned for webhook URLs that cannot be posted to
var ErrInvalidWebhook = errors.New("invalid webhook URL")

// Notifier defines the interface for posting raid reports
type Notifier interface {
	// Notify posts message to the configured destination
	Notify(ctx context.Context, message string) error
}

// New returns the Notifier for webhookURL: Discord webhooks go through the
// Discord API client, anything else gets a generic JSON POST.
func New(webhookURL string) (Notifier, error) {
	if IsDiscordWebhook(webhookURL) {
		return NewDiscordNotifier(webhookURL, nil)
	}
	return NewWebhookNotifier(webhookURL, nil)
}

// validateURL checks that raw is an absolute http(s) URL
func validateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidWebhook)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidWebhook, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidWebhook)
	}
	return u, nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}
