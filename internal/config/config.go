// Package config handles configuration loading and management for Hearth.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Hearth.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Paths     PathsConfig     `mapstructure:"paths"`
	Debug     bool            `mapstructure:"debug"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	// Model is the Claude model used for every agent call.
	Model string `mapstructure:"model"`
	// MaxTokens caps each completion.
	MaxTokens int64 `mapstructure:"max_tokens"`
	// UseBedrock routes calls through AWS Bedrock instead of the direct API.
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// EngineConfig holds orchestration settings.
type EngineConfig struct {
	// RequestTimeoutSecs bounds each individual LLM call.
	RequestTimeoutSecs int `mapstructure:"request_timeout_secs"`
}

// PathsConfig holds file locations.
type PathsConfig struct {
	// HomeProfile is the YAML home profile. Empty means the built-in default home.
	HomeProfile string `mapstructure:"home_profile"`
	// Database is the sqlite run store. Empty means the XDG data default.
	Database string `mapstructure:"database"`
	// LogsDir is where benchmark case logs are written.
	LogsDir string `mapstructure:"logs_dir"`
}

// RequestTimeout returns the per-call deadline as a duration.
func (c *Config) RequestTimeout() time.Duration {
	secs := c.Engine.RequestTimeoutSecs
	if secs <= 0 {
		secs = 120
	}
	return time.Duration(secs) * time.Second
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, HEARTH_*)
// 2. Project config (.hearth.yaml in current directory or parent)
// 3. User config (~/.config/hearth/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	// Map specific environment variables
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "HEARTH_MODEL")
	v.BindEnv("anthropic.use_bedrock", "HEARTH_USE_BEDROCK")
	v.BindEnv("anthropic.aws_region", "HEARTH_AWS_REGION")
	v.BindEnv("anthropic.aws_profile", "HEARTH_AWS_PROFILE")
	v.BindEnv("paths.home_profile", "HEARTH_HOME_PROFILE")
	v.BindEnv("debug", "HEARTH_DEBUG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.Paths.HomeProfile = expandEnv(cfg.Paths.HomeProfile)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.Paths.HomeProfile = expandEnv(cfg.Paths.HomeProfile)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.max_tokens", cfg.Anthropic.MaxTokens)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("engine.request_timeout_secs", cfg.Engine.RequestTimeoutSecs)
	v.Set("paths.home_profile", cfg.Paths.HomeProfile)
	v.Set("paths.database", cfg.Paths.Database)
	v.Set("paths.logs_dir", cfg.Paths.LogsDir)
	v.Set("debug", cfg.Debug)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	// Engine defaults
	v.SetDefault("engine.request_timeout_secs", 120)

	// Path defaults
	v.SetDefault("paths.home_profile", "")
	v.SetDefault("paths.database", "")
	v.SetDefault("paths.logs_dir", "logs")

	v.SetDefault("debug", false)
}

// getUserConfigDir returns the XDG config directory for Hearth.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "hearth")
	}

	// Fall back to ~/.config/hearth
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "hearth")
	}
	return filepath.Join(home, ".config", "hearth")
}

// findProjectConfig searches for .hearth.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".hearth.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			APIKey:    "",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		Engine: EngineConfig{
			RequestTimeoutSecs: 120,
		},
		Paths: PathsConfig{
			LogsDir: "logs",
		},
	}
}
