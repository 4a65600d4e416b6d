package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Options controls where Load looks for settings
type Options struct {
	// Root is the project root; the .env file and relative HTML dir resolve against it.
	Root string

	// ConfigFile is an optional YAML file.
	ConfigFile string

	// EnvFile overrides <Root>/.env.
	EnvFile string

	// RequireWebhook makes a missing webhook URL an error.
	RequireWebhook bool

	// Environ defaults to os.Environ().
	Environ []string
}

// Load builds a Config by layering defaults, optional YAML file, and the
// environment/.env lookup.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. YAML file if Options.ConfigFile is set
//  3. .env file
//  4. environment
func Load(opts Options) (*Config, error) {
	base := New()

	root := opts.Root
	if root == "" {
		root = "."
	}

	k := koanf.New(".")

	if opts.ConfigFile != "" {
		if err := k.Load(file.Provider(opts.ConfigFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrLoadConfig, opts.ConfigFile, err)
		}
	}

	envPath := opts.EnvFile
	if envPath == "" {
		envPath = filepath.Join(root, ".env")
	}

	lines, found, err := readEnvFile(envPath)
	if err != nil {
		return nil, err
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}

	if err := k.Load(confmap.Provider(lookupValues(environ, lines), "."), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg.EnvFile = envPath
	cfg.EnvFileFound = found

	if cfg.HTMLDir == "" {
		cfg.HTMLDir = DefaultHTMLDir
	}
	if !filepath.IsAbs(cfg.HTMLDir) && !hasHomePrefix(cfg.HTMLDir) {
		cfg.HTMLDir = filepath.Join(root, cfg.HTMLDir)
	}

	if opts.RequireWebhook && cfg.WebhookURL == "" {
		return nil, fmt.Errorf("%w: expected %s in the environment or in %s", ErrMissingWebhook, KeyWebhookURL, envPath)
	}

	return &cfg, nil
}

// readEnvFile reads .env lines through the koanf file provider.
// A missing file is not an error.
func readEnvFile(path string) ([]string, bool, error) {
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: reading %s: %v", ErrLoadConfig, path, err)
	}
	return SplitLines(data), true, nil
}

func hasHomePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}

// lookupValues resolves every known key with Lookup
func lookupValues(environ, lines []string) map[string]interface{} {
	values := make(map[string]interface{})
	for envKey, cfgKey := range envKeys {
		if v, ok := Lookup(envKey, environ, lines); ok {
			values[cfgKey] = v
		}
	}
	return values
}
