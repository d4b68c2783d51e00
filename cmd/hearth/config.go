package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/config"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/printer"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Hearth configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/hearth/config.yaml
Project-specific overrides can be placed in .hearth.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return printer.Error("failed to load configuration", err.Error(), nil)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
			return nil
		case 1:
			return displayConfigKey(cfg, args[0])
		default:
			return setConfigKey(cfg, args[0], args[1])
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter user config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GetUserConfigPath()
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return printer.Error(
				"config file already exists",
				fmt.Sprintf("A user config is already present at %s.", path),
				[]string{"Overwrite it:\n  hearth config init --force"},
			)
		}
		if err := config.Save(config.Default()); err != nil {
			return printer.Error("failed to write the config file", err.Error(), nil)
		}
		printer.Success("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	apiKeyDisplay := "(not set)"
	if key, src, err := config.ResolveAPIKey(cfg); err == nil {
		apiKeyDisplay = fmt.Sprintf("%s (from %s)", config.MaskAPIKey(key), src)
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.max_tokens: %d\n", cfg.Anthropic.MaxTokens)
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", cfg.Anthropic.AWSRegion)
	fmt.Printf("anthropic.aws_profile: %s\n", cfg.Anthropic.AWSProfile)
	fmt.Printf("engine.request_timeout_secs: %d\n", cfg.Engine.RequestTimeoutSecs)
	fmt.Printf("paths.home_profile: %s\n", cfg.Paths.HomeProfile)
	fmt.Printf("paths.database: %s\n", cfg.Paths.Database)
	fmt.Printf("paths.logs_dir: %s\n", cfg.Paths.LogsDir)
	fmt.Printf("debug: %t\n", cfg.Debug)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) error {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		return printer.Error("unknown configuration key", err.Error(), nil)
	}
	fmt.Println(value)
	return nil
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) error {
	if err := setConfigValue(cfg, key, value); err != nil {
		return printer.Error("failed to set the value", err.Error(), nil)
	}
	if err := config.Save(cfg); err != nil {
		return printer.Error("failed to save the config file", err.Error(), nil)
	}
	printer.Success("Set %s = %s\n", key, value)
	return nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.max_tokens":
		return strconv.FormatInt(cfg.Anthropic.MaxTokens, 10), nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "engine.request_timeout_secs":
		return strconv.Itoa(cfg.Engine.RequestTimeoutSecs), nil
	case "paths.home_profile":
		return cfg.Paths.HomeProfile, nil
	case "paths.database":
		return cfg.Paths.Database, nil
	case "paths.logs_dir":
		return cfg.Paths.LogsDir, nil
	case "debug":
		return strconv.FormatBool(cfg.Debug), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if err := config.ValidateAPIKey(value); err != nil {
			return err
		}
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.max_tokens":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for max_tokens: %w", err)
		}
		cfg.Anthropic.MaxTokens = n
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "engine.request_timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for request_timeout_secs: %w", err)
		}
		cfg.Engine.RequestTimeoutSecs = n
	case "paths.home_profile":
		cfg.Paths.HomeProfile = value
	case "paths.database":
		cfg.Paths.Database = value
	case "paths.logs_dir":
		cfg.Paths.LogsDir = value
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for debug: %w", err)
		}
		cfg.Debug = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
