package device

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reFor    = regexp.MustCompile(`(?i)\bfor\s+(?:about\s+)?(?:\d+|a|an|half\s+an?)\s*(?:minutes?|mins?|hours?|hrs?|seconds?|secs?)\b`)
	reUntil  = regexp.MustCompile(`(?i)\buntil\s+(?:\d{1,2}(?::\d{2})?\s*(?:am|pm)?|tonight|midnight|noon|morning|evening)\b`)
	reAtTime = regexp.MustCompile(`(?i)\bat\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)
)

// matchWords reports whether any keyword appears in the lowercased text.
// Multi-word keywords match as substrings, single words only as whole words,
// so "play" cannot fire inside "display".
func matchWords(lower string, keywords ...string) bool {
	var words map[string]bool
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if words == nil {
			words = splitWords(lower)
		}
		if words[kw] {
			return true
		}
	}
	return false
}

func splitWords(lower string) map[string]bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// timerPhrase pulls a bounded-time phrase out of the action, if present.
func timerPhrase(action string) string {
	if m := reFor.FindString(action); m != "" {
		return m
	}
	return reUntil.FindString(action)
}
