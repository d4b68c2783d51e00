// Package printer holds the colored terminal output helpers shared by the
// CLI commands. Color is forced on unless NO_COLOR is set.
package printer

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a green message with a checkmark prefix.
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		green.Printf("✓ %s", msg)
	} else {
		green.Print(msg)
	}
}

// Info prints a plain informational message.
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a yellow warning message.
func Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠") {
		yellow.Printf("⚠  %s", msg)
	} else {
		yellow.Print(msg)
	}
}

// Fail prints a red failure line. Unlike Error it is a progress marker, not
// a terminal error, and returns nothing.
func Fail(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✗") {
		red.Printf("✗ %s", msg)
	} else {
		red.Print(msg)
	}
}

// Error prints a formatted error to stderr and returns a bare error carrying
// only the title, for Cobra to swallow under SilenceErrors.
func Error(title string, explanation string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(os.Stderr, "%s\n", explanation)
	}

	printSuggestions(suggestions)

	return fmt.Errorf("%s", title)
}

// ErrorWithContext is Error with key/value detail lines between the
// explanation and the suggestions.
func ErrorWithContext(title string, explanation string, context map[string]string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(os.Stderr, "%s\n", explanation)
	}

	if len(context) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		for key, value := range context {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", key, value)
		}
	}

	printSuggestions(suggestions)

	return fmt.Errorf("%s", title)
}

func printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\n")
	if len(suggestions) == 1 {
		fmt.Fprintf(os.Stderr, "%s\n", suggestions[0])
		return
	}
	fmt.Fprintf(os.Stderr, "Either:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, suggestion)
	}
}

// Step prints a cyan step marker for multi-step operations.
func Step(format string, a ...any) {
	cyan.Printf("→ %s", fmt.Sprintf(format, a...))
}

// Println prints a plain message.
func Println(a ...any) {
	fmt.Println(a...)
}

// Printf prints a plain formatted message.
func Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}
