package notifier

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// MaxDiscordContent is Discord's limit on message content length, in characters
const MaxDiscordContent = 2000

var discordWebhookPattern = regexp.MustCompile(
	`^https://(?:(?:ptb|canary)\.)?discord(?:app)?\.com/api(?:/v\d+)?/webhooks/(\d+)/([A-Za-z0-9_\-]+)/?$`,
)

// ParseDiscordWebhook extracts the webhook ID and token from a Discord webhook URL
func ParseDiscordWebhook(webhookURL string) (id, token string, err error) {
	u, err := validateURL(webhookURL)
	if err != nil {
		return "", "", err
	}

	// Query parameters (thread_id, wait) are not part of the identity
	u.RawQuery = ""
	u.Fragment = ""

	m := discordWebhookPattern.FindStringSubmatch(u.String())
	if m == nil {
		return "", "", fmt.Errorf("%w: not a Discord webhook URL", ErrInvalidWebhook)
	}
	return m[1], m[2], nil
}

// IsDiscordWebhook reports whether webhookURL is a Discord webhook URL
func IsDiscordWebhook(webhookURL string) bool {
	_, _, err := ParseDiscordWebhook(webhookURL)
	return err == nil
}

// DiscordNotifier posts reports through Discord's webhook execute endpoint
type DiscordNotifier struct {
	session   *discordgo.Session
	webhookID string
	token     string
}

// NewDiscordNotifier creates a notifier for a Discord webhook URL. A nil
// httpClient uses a client with a 10 second timeout.
func NewDiscordNotifier(webhookURL string, httpClient *http.Client) (*DiscordNotifier, error) {
	id, token, err := ParseDiscordWebhook(webhookURL)
	if err != nil {
		return nil, err
	}

	// Webhook execution is authorised by the token in the URL, not a bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	session.Client = httpClient
	session.ShouldRetryOnRateLimit = false
	session.MaxRestRetries = 0

	return &DiscordNotifier{
		session:   session,
		webhookID: id,
		token:     token,
	}, nil
}

// Notify executes the webhook with the message as content
func (n *DiscordNotifier) Notify(ctx context.Context, message string) error {
	if message == "" {
		return fmt.Errorf("message text is required")
	}
	if l := utf8.RuneCountInString(message); l > MaxDiscordContent {
		return fmt.Errorf("message is %d characters, Discord allows %d", l, MaxDiscordContent)
	}

	params := &discordgo.WebhookParams{
		Content: message,
	}

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("executing discord webhook: %w", err)
	}

	return nil
}
