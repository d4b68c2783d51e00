package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/config"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/state"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{
			name:     "short input unchanged",
			input:    "dim the lights",
			limit:    48,
			expected: "dim the lights",
		},
		{
			name:     "newlines flattened",
			input:    "dim the\nlights",
			limit:    48,
			expected: "dim the lights",
		},
		{
			name:     "long input ellipsized",
			input:    strings.Repeat("x", 60),
			limit:    48,
			expected: strings.Repeat("x", 45) + "...",
		},
		{
			name:     "exactly at limit unchanged",
			input:    strings.Repeat("y", 48),
			limit:    48,
			expected: strings.Repeat("y", 48),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncate(tt.input, tt.limit)
			if result != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.limit, result, tt.expected)
			}
			if len(result) > tt.limit {
				t.Errorf("truncate(%q, %d) is %d chars long", tt.input, tt.limit, len(result))
			}
		})
	}
}

func TestShortRunID(t *testing.T) {
	if got := shortRunID("a1b2c3d4-5678-90ab-cdef-000000000000"); got != "a1b2c3d4" {
		t.Errorf("shortRunID = %q, want a1b2c3d4", got)
	}
	if got := shortRunID("abc"); got != "abc" {
		t.Errorf("short IDs should pass through, got %q", got)
	}
}

func TestTaskIcon(t *testing.T) {
	tests := []struct {
		status   models.TaskStatus
		expected string
	}{
		{models.TaskStatusDone, "✓"},
		{models.TaskStatusFailed, "✗"},
		{models.TaskStatusPending, "·"},
		{models.TaskStatusAwaitingCollaboration, "·"},
	}
	for _, tt := range tests {
		if got := taskIcon(tt.status); got != tt.expected {
			t.Errorf("taskIcon(%s) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func savedRun(id, input string) *models.RunResult {
	started := time.Date(2026, 8, 21, 18, 0, 0, 0, time.UTC)
	return &models.RunResult{
		RunID:       id,
		Input:       input,
		Status:      models.RunComplete,
		FinalOutput: "Done.",
		Complexity:  2,
		Category:    models.CategorySimple,
		Tasks: []models.TaskOutcome{
			{TaskID: "task-1", DeviceType: models.DeviceLighting, Action: "dim the lights",
				Status: models.TaskStatusDone, Result: "Lights dimmed."},
		},
		StartedAt:  started,
		FinishedAt: started.Add(5 * time.Second),
	}
}

func TestFindRun(t *testing.T) {
	db, err := state.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	if err := db.SaveRun(ctx, savedRun("run-aaa111", "dim the lights"), nil); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := db.SaveRun(ctx, savedRun("run-aab222", "play jazz"), nil); err != nil {
		t.Fatalf("save run: %v", err)
	}

	t.Run("exact ID", func(t *testing.T) {
		run, err := findRun(db, "run-aaa111")
		if err != nil {
			t.Fatalf("findRun failed: %v", err)
		}
		if run == nil || run.RunID != "run-aaa111" {
			t.Fatalf("findRun returned %+v, want run-aaa111", run)
		}
		if len(run.Tasks) != 1 {
			t.Errorf("resolved run should include tasks, got %d", len(run.Tasks))
		}
	})

	t.Run("unique prefix", func(t *testing.T) {
		run, err := findRun(db, "run-aaa")
		if err != nil {
			t.Fatalf("findRun failed: %v", err)
		}
		if run == nil || run.RunID != "run-aaa111" {
			t.Fatalf("findRun returned %+v, want run-aaa111", run)
		}
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := findRun(db, "run-aa")
		if err == nil {
			t.Fatal("expected an ambiguity error for run-aa")
		}
	})

	t.Run("no match", func(t *testing.T) {
		run, err := findRun(db, "zzz")
		if err != nil {
			t.Fatalf("findRun failed: %v", err)
		}
		if run != nil {
			t.Fatalf("expected nil for an unknown ID, got %+v", run)
		}
	})
}

func TestLoadProfile_Default(t *testing.T) {
	cfg := config.Default()
	profile, err := loadProfile(cfg)
	if err != nil {
		t.Fatalf("loadProfile failed: %v", err)
	}
	if profile == nil {
		t.Fatal("expected the built-in profile when no path is configured")
	}
}

func TestLoadProfile_MissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.HomeProfile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := loadProfile(cfg); err == nil {
		t.Fatal("expected an error for a missing profile file")
	}
}

func TestNewDebugLogger_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.Debug = false

	logger := newDebugLogger(cfg)
	if logger == nil {
		t.Fatal("expected a no-op logger, got nil")
	}
	logger.Log("should be dropped")
	if err := logger.Close(); err != nil {
		t.Errorf("closing the no-op logger failed: %v", err)
	}
}

func TestLoadBenchCases_Embedded(t *testing.T) {
	origFile, origCategory := benchCasesFile, benchCategory
	defer func() { benchCasesFile, benchCategory = origFile, origCategory }()

	benchCasesFile = ""
	benchCategory = ""
	cases, err := loadBenchCases()
	if err != nil {
		t.Fatalf("loadBenchCases failed: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("embedded suite should not be empty")
	}

	benchCategory = "simple"
	filtered, err := loadBenchCases()
	if err != nil {
		t.Fatalf("category filter failed: %v", err)
	}
	if len(filtered) == 0 || len(filtered) > len(cases) {
		t.Errorf("simple filter returned %d of %d cases", len(filtered), len(cases))
	}
	for _, c := range filtered {
		if c.Category != "simple" {
			t.Errorf("case %s has category %s after filtering for simple", c.ID, c.Category)
		}
	}
}
