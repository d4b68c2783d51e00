// Package bench runs the embedded benchmark suite through the engine: one
// fresh run per fixture, a per-case log artifact, and a pass/fail verdict
// comparing activated devices and collaborations against the fixture.
package bench

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

//go:embed cases.json
var embeddedCases []byte

// IntentSpec names one expected intent and the device that should serve it.
type IntentSpec struct {
	Intent     string `json:"intent"`
	DeviceType string `json:"device_type"`
}

// CollaborationSpec states whether the fixture is expected to need a
// cross-device collaboration.
type CollaborationSpec struct {
	IsNeeded bool `json:"is_needed"`
}

// Case is one benchmark fixture. RequiredIntents and AcceptableIntents are
// mutually exclusive: required devices must all produce a done task, while
// acceptable devices bound the set a run may activate (mood requests expand
// to a device triple whose exact membership the fixture cannot pin down).
type Case struct {
	ID                  string            `json:"id"`
	Category            string            `json:"category"`
	UserInput           string            `json:"user_input"`
	RequiredIntents     []IntentSpec      `json:"required_intents,omitempty"`
	AcceptableIntents   []IntentSpec      `json:"acceptable_intents,omitempty"`
	Collaboration       CollaborationSpec `json:"collaboration"`
	ExpectedFinalOutput string            `json:"expected_final_output"`
}

// suite is the fixture file's root object.
type suite struct {
	TestCases []Case `json:"test_cases"`
}

// Categories lists the valid fixture categories.
var Categories = []string{"simple", "moderate", "complex"}

// LoadEmbedded parses the compiled-in fixture set.
func LoadEmbedded() ([]Case, error) {
	return parseCases(embeddedCases)
}

// LoadFile parses a fixture file, for running a custom suite.
func LoadFile(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture file: %w", err)
	}
	return parseCases(data)
}

func parseCases(data []byte) ([]Case, error) {
	var s suite
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(s.TestCases) == 0 {
		return nil, fmt.Errorf("fixture file has no test cases")
	}

	seen := make(map[string]bool, len(s.TestCases))
	for i, c := range s.TestCases {
		if err := validateCase(c); err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i+1, c.ID, err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate case id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return s.TestCases, nil
}

func validateCase(c Case) error {
	if c.ID == "" {
		return fmt.Errorf("missing id")
	}
	if !validCategory(c.Category) {
		return fmt.Errorf("unknown category %q", c.Category)
	}
	if c.UserInput == "" {
		return fmt.Errorf("missing user_input")
	}
	if len(c.RequiredIntents) == 0 && len(c.AcceptableIntents) == 0 {
		return fmt.Errorf("needs required_intents or acceptable_intents")
	}
	if len(c.RequiredIntents) > 0 && len(c.AcceptableIntents) > 0 {
		return fmt.Errorf("required_intents and acceptable_intents are mutually exclusive")
	}
	for _, spec := range append(append([]IntentSpec(nil), c.RequiredIntents...), c.AcceptableIntents...) {
		if _, ok := models.ParseDeviceType(spec.DeviceType); !ok {
			return fmt.Errorf("unknown device_type %q", spec.DeviceType)
		}
	}
	return nil
}

func validCategory(category string) bool {
	for _, c := range Categories {
		if category == c {
			return true
		}
	}
	return false
}

// Filter selects the cases matching the category. "all" or an empty filter
// keeps everything.
func Filter(cases []Case, category string) ([]Case, error) {
	if category == "" || category == "all" {
		return append([]Case(nil), cases...), nil
	}
	if !validCategory(category) {
		return nil, fmt.Errorf("unknown category %q (want simple, moderate, complex, or all)", category)
	}
	var out []Case
	for _, c := range cases {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}
