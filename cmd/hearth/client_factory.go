package main

import (
	"fmt"
	"path/filepath"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/aggregate"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/bench"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/broker"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/config"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/device"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/engine"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/home"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/intent"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/llm"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/planner"
)

// newLLMClient builds the Anthropic client from configuration.
// Bedrock mode authenticates through the AWS credential chain; the direct
// API needs a key from the environment or the config file.
func newLLMClient(cfg *config.Config) (*llm.Client, error) {
	clientCfg := llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		MaxTokens:     cfg.Anthropic.MaxTokens,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}

	if config.RequireAPIKey(cfg) {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		clientCfg.APIKey = key
	}

	return llm.NewClient(clientCfg)
}

// loadProfile loads the configured home profile, or the built-in default
// home when none is configured.
func loadProfile(cfg *config.Config) (*home.Profile, error) {
	if cfg.Paths.HomeProfile == "" {
		return home.Default(), nil
	}
	profile, err := home.Load(cfg.Paths.HomeProfile)
	if err != nil {
		return nil, fmt.Errorf("load home profile: %w", err)
	}
	return profile, nil
}

// newSchedulerFactory wires the pipeline around a shared client and home
// profile. Each scheduler serves one run, so callers get a factory.
func newSchedulerFactory(cfg *config.Config, client *llm.Client, profile *home.Profile, store engine.RunStore, logger *engine.DebugLogger) bench.SchedulerFactory {
	registry := device.BuildRegistry(client, profile)
	return func() *engine.Scheduler {
		return engine.NewScheduler(engine.Config{
			Extractor:   intent.NewExtractor(client),
			Planner:     planner.NewPlanner(),
			Registry:    registry,
			Broker:      broker.New(registry),
			Aggregator:  aggregate.New(client),
			Tracker:     client.Tracker(),
			Store:       store,
			Logger:      logger,
			CallTimeout: cfg.RequestTimeout(),
		})
	}
}

// newDebugLogger opens the engine trace log under the user config directory
// when debug is enabled, and a no-op logger otherwise.
func newDebugLogger(cfg *config.Config) *engine.DebugLogger {
	if !cfg.Debug {
		return engine.NopLogger()
	}
	return engine.NewDebugLoggerForConfigDir(filepath.Dir(config.GetUserConfigPath()))
}
