package printer

import "testing"

// Error and ErrorWithContext print rich output to stderr; the returned error
// carries only the title so Cobra does not duplicate it.

func TestError_ReturnsTitle(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []string
	}{
		{name: "no suggestions", suggestions: nil},
		{name: "one suggestion", suggestions: []string{"Try this fix"}},
		{name: "several suggestions", suggestions: []string{"First option", "Second option"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Error("Something broke", "An explanation", tt.suggestions)
			if err == nil {
				t.Fatal("Error returned nil")
			}
			if err.Error() != "Something broke" {
				t.Errorf("err = %q, want the bare title", err)
			}
		})
	}
}

func TestErrorWithContext_ReturnsTitle(t *testing.T) {
	context := map[string]string{
		"Config": "/home/user/.hearth.yaml",
		"Model":  "claude-sonnet-4-5",
	}
	err := ErrorWithContext("Something broke", "An explanation", context, []string{"Fix it"})
	if err == nil {
		t.Fatal("ErrorWithContext returned nil")
	}
	if err.Error() != "Something broke" {
		t.Errorf("err = %q, want the bare title", err)
	}
}
