// Package config loads raid-report settings.
//
// Settings are layered, lowest precedence first: built-in defaults, an optional
// YAML file, then each known key resolved through Lookup, which prefers the process
// environment over the project's .env file.
package config

// Environment keys
const (
	KeyWebhookURL     = "DISCORD_WEBHOOK_URL"
	KeyRaidHistoryURL = "RAID_HISTORY_URL"
	KeyHTMLDir        = "RAID_HTML_DIR"
	KeyLogLevel       = "RAID_LOG_LEVEL"
	KeyPushgatewayURL = "RAID_PUSHGATEWAY_URL"
)

// DefaultHTMLDir is the folder, relative to the project root, holding saved raid pages
const DefaultHTMLDir = "html_files"

// Config contains process configuration.
type Config struct {
	// WebhookURL is the chat webhook the report is posted to.
	WebhookURL string `koanf:"webhook_url"`

	// RaidHistoryURL is the guild's raid-history base URL, e.g.
	// https://swgoh.gg/g/<guild>/raid-history/. Optional; used to open the raid page.
	RaidHistoryURL string `koanf:"raid_history_url"`

	// HTMLDir is where saved raid pages live. Relative paths resolve against the project root.
	HTMLDir string `koanf:"html_dir"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// PushgatewayURL enables pushing run metrics when set.
	PushgatewayURL string `koanf:"pushgateway_url"`

	// EnvFile is the .env path that was consulted, and EnvFileFound whether it existed.
	EnvFile      string `koanf:"-"`
	EnvFileFound bool   `koanf:"-"`
}

// envKeys maps environment/.env keys to config keys
var envKeys = map[string]string{
	KeyWebhookURL:     "webhook_url",
	KeyRaidHistoryURL: "raid_history_url",
	KeyHTMLDir:        "html_dir",
	KeyLogLevel:       "log_level",
	KeyPushgatewayURL: "pushgateway_url",
}

// New returns a Config populated with defaults
func New() *Config {
	return &Config{
		HTMLDir:  DefaultHTMLDir,
		LogLevel: "info",
	}
}
