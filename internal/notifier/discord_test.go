package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rewriteTransport sends every request to target, keeping the path
type rewriteTransport struct {
	target *url.URL
	seen   []*url.URL
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	orig := *req.URL
	rt.seen = append(rt.seen, &orig)

	r := req.Clone(req.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func newDiscordServer(t *testing.T, status int, gotBody *[]byte) (*httptest.Server, *rewriteTransport) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if gotBody != nil {
			*gotBody, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"message": "Unknown Webhook", "code": 10015}`))
		}
	}))
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)
	return server, &rewriteTransport{target: target}
}

func TestParseDiscordWebhook(t *testing.T) {
	tests := []struct {
		url       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{url: "https://discord.com/api/webhooks/123456789/abc-DEF_ghi", wantID: "123456789", wantToken: "abc-DEF_ghi"},
		{url: "https://discordapp.com/api/webhooks/1/tok", wantID: "1", wantToken: "tok"},
		{url: "https://ptb.discord.com/api/v10/webhooks/42/tok/", wantID: "42", wantToken: "tok"},
		{url: "https://canary.discord.com/api/webhooks/42/tok?thread_id=7", wantID: "42", wantToken: "tok"},
		{url: "https://discord.com/api/webhooks/notanumber/tok", wantErr: true},
		{url: "https://discord.com/api/webhooks/42", wantErr: true},
		{url: "http://discord.com/api/webhooks/42/tok", wantErr: true},
		{url: "https://evil.example/discord.com/api/webhooks/42/tok", wantErr: true},
		{url: "https://hooks.slack.com/services/T000/B000/XXX", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			id, token, err := ParseDiscordWebhook(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidWebhook))
				assert.False(t, IsDiscordWebhook(tt.url))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantToken, token)
			assert.True(t, IsDiscordWebhook(tt.url))
		})
	}
}

func TestDiscordNotifier_Success(t *testing.T) {
	var body []byte
	_, rt := newDiscordServer(t, http.StatusNoContent, &body)

	n, err := NewDiscordNotifier("https://discord.com/api/webhooks/123/tok-en", &http.Client{Transport: rt})
	require.NoError(t, err)

	message := "**Raid `bb0ea6749c` - Players with no raid score:**\n- Sean"
	require.NoError(t, n.Notify(context.Background(), message))

	require.Len(t, rt.seen, 1)
	assert.Equal(t, "discord.com", rt.seen[0].Host)
	assert.True(t, strings.HasSuffix(rt.seen[0].Path, "/webhooks/123/tok-en"), rt.seen[0].Path)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, message, payload["content"])
}

func TestDiscordNotifier_Failure(t *testing.T) {
	_, rt := newDiscordServer(t, http.StatusNotFound, nil)

	n, err := NewDiscordNotifier("https://discord.com/api/webhooks/123/tok", &http.Client{Transport: rt})
	require.NoError(t, err)

	err = n.Notify(context.Background(), "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing discord webhook")
	assert.Len(t, rt.seen, 1, "failed sends are not retried")
}

func TestDiscordNotifier_MessageLimits(t *testing.T) {
	n, err := NewDiscordNotifier("https://discord.com/api/webhooks/123/tok", nil)
	require.NoError(t, err)

	assert.Error(t, n.Notify(context.Background(), ""))

	err = n.Notify(context.Background(), strings.Repeat("é", MaxDiscordContent+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Discord allows 2000")
}

func TestNew_PicksImplementation(t *testing.T) {
	n, err := New("https://discord.com/api/webhooks/123/tok")
	require.NoError(t, err)
	assert.IsType(t, &DiscordNotifier{}, n)

	n, err = New("https://chat.example/hooks/raid")
	require.NoError(t, err)
	assert.IsType(t, &WebhookNotifier{}, n)

	_, err = New("")
	assert.True(t, errors.Is(err, ErrInvalidWebhook))
}
