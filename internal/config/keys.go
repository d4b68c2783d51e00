package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no Anthropic API key can be resolved.
var ErrNoAPIKey = errors.New("no Anthropic API key configured")

// KeySource says where a resolved API key came from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// ResolveAPIKey returns the Anthropic API key and its source. The environment
// wins over the config file; ${VAR} references in the config value are
// expanded before use.
func ResolveAPIKey(cfg *Config) (string, KeySource, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, KeySourceEnv, nil
	}

	if cfg != nil && cfg.Anthropic.APIKey != "" {
		key := os.ExpandEnv(cfg.Anthropic.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, KeySourceConfig, nil
		}
	}

	return "", KeySourceNone, ErrNoAPIKey
}

// GetAPIKey returns the resolved key without its source.
func GetAPIKey(cfg *Config) (string, error) {
	key, _, err := ResolveAPIKey(cfg)
	return key, err
}

// RequireAPIKey reports whether the current configuration needs an Anthropic
// API key. Bedrock authenticates through the AWS credential chain instead.
func RequireAPIKey(cfg *Config) bool {
	return cfg == nil || !cfg.Anthropic.UseBedrock
}

// ValidateAPIKey checks the key's shape without calling the API.
func ValidateAPIKey(key string) error {
	if key == "" {
		return ErrNoAPIKey
	}
	if !strings.HasPrefix(key, "sk-ant-") {
		return errors.New("invalid API key format: expected 'sk-ant-' prefix")
	}
	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}
	return nil
}

// MaskAPIKey renders a key safe for display, keeping the "sk-ant-" prefix and
// the last four characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 15 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}
