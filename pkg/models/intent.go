package models

// Intent is one structured information unit extracted from a user request.
// Intents are produced once per run and never mutated afterwards.
type Intent struct {
	// Description is the self-contained restatement of this intent.
	Description string `json:"description"`
	// DeviceType is the extractor's device hint. May be empty when the
	// extractor could not decide; the planner then infers or fails the task.
	DeviceType DeviceType `json:"device_type,omitempty"`
	// Modifiers maps modifier kinds (time, location, manner, quantity,
	// negation) to the phrase that carries them.
	Modifiers map[string]string `json:"modifiers,omitempty"`
}

// ModifierCount returns the number of modifiers attached to this intent.
func (i Intent) ModifierCount() int {
	return len(i.Modifiers)
}

// Category labels a run's difficulty for reporting. It never influences
// planning or execution.
type Category string

const (
	// CategorySimple covers single-intent requests with few modifiers.
	CategorySimple Category = "simple"
	// CategoryModerate covers requests needing a couple of devices or
	// runtime collaboration.
	CategoryModerate Category = "moderate"
	// CategoryComplex covers multi-intent, heavily qualified requests.
	CategoryComplex Category = "complex"
)

// Valid returns true if c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategorySimple, CategoryModerate, CategoryComplex:
		return true
	default:
		return false
	}
}

// ComplexityScore computes the run complexity from extracted intents.
// The score is monotonic in both the intent count and the modifier count.
func ComplexityScore(intents []Intent) int {
	score := 2 * len(intents)
	for _, in := range intents {
		score += in.ModifierCount()
	}
	return score
}

// CategoryForScore maps a complexity score to its reporting category.
func CategoryForScore(score int) Category {
	switch {
	case score <= 3:
		return CategorySimple
	case score <= 7:
		return CategoryModerate
	default:
		return CategoryComplex
	}
}
