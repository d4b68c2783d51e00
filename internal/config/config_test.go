package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected default model 'claude-sonnet-4-20250514', got %q", cfg.Anthropic.Model)
	}

	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("expected default max_tokens 4096, got %d", cfg.Anthropic.MaxTokens)
	}

	if cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to default to false")
	}

	if cfg.Engine.RequestTimeoutSecs != 120 {
		t.Errorf("expected default request_timeout_secs 120, got %d", cfg.Engine.RequestTimeoutSecs)
	}

	if cfg.Paths.LogsDir != "logs" {
		t.Errorf("expected default logs_dir 'logs', got %q", cfg.Paths.LogsDir)
	}

	if cfg.Debug {
		t.Error("expected debug to default to false")
	}
}

func TestLoadFromPath(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-haiku-4-5
  max_tokens: 2048
  use_bedrock: true
  aws_region: us-west-2
  aws_profile: home
engine:
  request_timeout_secs: 60
paths:
  home_profile: /etc/hearth/home.yaml
  database: /var/lib/hearth/runs.db
  logs_dir: bench-logs
debug: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-haiku-4-5" {
		t.Errorf("expected model 'claude-haiku-4-5', got %q", cfg.Anthropic.Model)
	}

	if cfg.Anthropic.MaxTokens != 2048 {
		t.Errorf("expected max_tokens 2048, got %d", cfg.Anthropic.MaxTokens)
	}

	if !cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to be true")
	}

	if cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("expected aws_region 'us-west-2', got %q", cfg.Anthropic.AWSRegion)
	}

	if cfg.Engine.RequestTimeoutSecs != 60 {
		t.Errorf("expected request_timeout_secs 60, got %d", cfg.Engine.RequestTimeoutSecs)
	}

	if cfg.Paths.HomeProfile != "/etc/hearth/home.yaml" {
		t.Errorf("expected home_profile '/etc/hearth/home.yaml', got %q", cfg.Paths.HomeProfile)
	}

	if cfg.Paths.Database != "/var/lib/hearth/runs.db" {
		t.Errorf("expected database '/var/lib/hearth/runs.db', got %q", cfg.Paths.Database)
	}

	if cfg.Paths.LogsDir != "bench-logs" {
		t.Errorf("expected logs_dir 'bench-logs', got %q", cfg.Paths.LogsDir)
	}

	if !cfg.Debug {
		t.Error("expected debug to be true")
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := &Config{Engine: EngineConfig{RequestTimeoutSecs: 30}}
	if got := cfg.RequestTimeout(); got != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", got)
	}

	// Zero and negative fall back to the default
	cfg = &Config{}
	if got := cfg.RequestTimeout(); got != 120*time.Second {
		t.Errorf("RequestTimeout = %v, want 120s", got)
	}
}

func TestExpandEnv(t *testing.T) {
	// Set environment variable
	os.Setenv("TEST_VAR", "expanded-value")
	defer os.Unsetenv("TEST_VAR")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/hearth"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	cfg := Default()
	cfg.Anthropic.Model = "claude-opus-4-1"
	cfg.Engine.RequestTimeoutSecs = 90
	cfg.Paths.LogsDir = "runs"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromPath(filepath.Join(tmpDir, "hearth", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if loaded.Anthropic.Model != "claude-opus-4-1" {
		t.Errorf("expected model 'claude-opus-4-1', got %q", loaded.Anthropic.Model)
	}
	if loaded.Engine.RequestTimeoutSecs != 90 {
		t.Errorf("expected request_timeout_secs 90, got %d", loaded.Engine.RequestTimeoutSecs)
	}
	if loaded.Paths.LogsDir != "runs" {
		t.Errorf("expected logs_dir 'runs', got %q", loaded.Paths.LogsDir)
	}
}
