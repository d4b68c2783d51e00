package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeObject extracts the JSON object from a model response and unmarshals
// it into v. Models wrap JSON in prose or markdown fences often enough that
// we cut from the first '{' to the last '}' before parsing, and run the
// payload through jsonrepair when strict parsing fails (trailing commas,
// single quotes, unquoted keys).
func DecodeObject(raw string, v any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON object in model response")
	}
	payload := raw[start : end+1]

	err := json.Unmarshal([]byte(payload), v)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(payload)
	if repairErr != nil {
		return fmt.Errorf("parse model JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("parse repaired model JSON: %w", err)
	}
	return nil
}
