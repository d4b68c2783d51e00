// Package intent turns raw user text into structured intents with a single
// LLM call.
package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/llm"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// ErrParse means the model's reply held no usable intent JSON even after
// repair. The run cannot proceed without intents, so callers treat this as
// fatal.
var ErrParse = errors.New("intent extraction returned no usable JSON")

// extractedIntent is the JSON structure returned by the model for one intent.
type extractedIntent struct {
	Description string            `json:"description"`
	DeviceType  string            `json:"device_type"`
	Modifiers   map[string]string `json:"modifiers"`
}

// extractionResponse is the full model reply.
type extractionResponse struct {
	Intents []extractedIntent `json:"intents"`
}

// Extraction is the result of analyzing one user request.
type Extraction struct {
	Intents    []models.Intent
	Complexity int
	Category   models.Category
}

// Extractor analyzes user requests.
type Extractor struct {
	llm llm.Completer
}

// NewExtractor creates an Extractor backed by the given completer.
func NewExtractor(c llm.Completer) *Extractor {
	return &Extractor{llm: c}
}

// Extract splits the user text into intents and scores the request's
// complexity. Empty input errors before any model call.
func (e *Extractor) Extract(ctx context.Context, userText string) (*Extraction, error) {
	trimmed := strings.TrimSpace(userText)
	if trimmed == "" {
		return nil, errors.New("empty user input")
	}

	raw, err := e.llm.SimpleCall(ctx, extractionSystem, fmt.Sprintf(extractionPrompt, trimmed))
	if err != nil {
		return nil, fmt.Errorf("intent extraction call: %w", err)
	}

	intents, err := ParseResponse(raw)
	if err != nil {
		return nil, err
	}

	score := models.ComplexityScore(intents)
	return &Extraction{
		Intents:    intents,
		Complexity: score,
		Category:   models.CategoryForScore(score),
	}, nil
}

// ParseResponse parses the model's JSON reply into intents. Device hints
// that are not one of the known device types are cleared so the planner
// falls back to keyword inference.
func ParseResponse(raw string) ([]models.Intent, error) {
	var resp extractionResponse
	if err := llm.DecodeObject(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	intents := make([]models.Intent, 0, len(resp.Intents))
	for _, ei := range resp.Intents {
		desc := strings.TrimSpace(ei.Description)
		if desc == "" {
			continue
		}
		hint := models.DeviceType("")
		if dt, ok := models.ParseDeviceType(ei.DeviceType); ok {
			hint = dt
		}
		intents = append(intents, models.Intent{
			Description: desc,
			DeviceType:  hint,
			Modifiers:   ei.Modifiers,
		})
	}

	if len(intents) == 0 {
		return nil, fmt.Errorf("%w: no intents in reply", ErrParse)
	}
	return intents, nil
}
