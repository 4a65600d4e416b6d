package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingWebhook = errors.New("webhook URL not configured")
	ErrLoadConfig     = errors.New("load config failed")
)
