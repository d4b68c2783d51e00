package planner

import (
	"strings"
	"unicode"

	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// deviceKeywords maps each device to the words and phrases that select it.
// Entries containing a space are matched as substrings of the lowercased
// text; single words must appear as whole words. Inference walks the devices
// in models.AllDeviceTypes order, so earlier devices win overlaps (the
// search engine claims "recommend some songs" before the audio system sees
// "songs").
var deviceKeywords = map[models.DeviceType][]string{
	models.DeviceClock: {
		"alarm", "alarms", "timer", "timers", "stopwatch", "countdown",
		"what time is it", "current time", "wake up", "wake me",
	},
	models.DeviceCalendar: {
		"calendar", "schedule", "appointment", "appointments", "agenda",
		"reschedule", "remind me", "my next event", "my events",
	},
	models.DeviceSearchEngine: {
		"recommend", "suggest", "recipe", "recipes", "weather", "forecast",
		"hungry", "cook", "cooking", "dish", "dishes", "meal", "meals",
		"news", "search", "look up", "find me", "what should", "how do",
		"tell me about", "tip", "tips",
	},
	models.DeviceTVDisplay: {
		"display", "screen", "tv", "television", "watch", "movie", "movies",
		"show me", "video", "videos",
	},
	models.DeviceFridge: {
		"fridge", "refrigerator", "ingredient", "ingredients", "expire",
		"expires", "expiring", "expired", "inventory", "groceries",
		"do we have", "leftovers",
	},
	models.DeviceLighting: {
		"light", "lights", "lighting", "lamp", "lamps", "dim", "brightness",
		"bright", "brighter", "darker",
	},
	models.DeviceThermostat: {
		"temperature", "thermostat", "heat", "heating", "cool", "cooling",
		"warmer", "colder", "degrees", "climate",
	},
	models.DeviceAudioSystem: {
		"music", "song", "songs", "playlist", "volume", "speaker", "speakers",
		"audio", "play", "sound", "sounds", "quieter", "louder",
	},
}

// moodThemes drives the atmosphere expansion: an intent with no resolvable
// device that matches one of these becomes a lighting + thermostat +
// audio_system triple. Specific themes are listed before the catch-alls so
// "wind down for the night" reads as sleep, not generic atmosphere. The
// first three theme names line up with the lighting scenes.
var moodThemes = []struct {
	theme    string
	keywords []string
}{
	{"sleep", []string{"sleep", "sleeping", "bed", "bedtime", "the night"}},
	{"work", []string{"work", "working", "focus", "study", "studying", "meeting", "meetings", "interview", "productive"}},
	{"relaxation", []string{"relax", "relaxing", "tired", "unwind", "cozy", "chill", "rest", "reading", "calm"}},
	{"a party", []string{"party", "hosting", "guests", "celebrate", "celebration", "shower"}},
	{"an energizing morning", []string{"energize", "energized", "energizing", "groggy"}},
	{"the occasion", []string{"atmosphere", "mood", "prepare the room", "get ready", "get everything ready", "make the room", "ambiance"}},
}

// matchesAny reports whether the text hits one of the keywords. Phrases
// match as substrings, single words as whole words only ("play" must not
// fire inside "display").
func matchesAny(lower string, words map[string]bool, keywords []string) bool {
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if words[kw] {
			return true
		}
	}
	return false
}

// wordSet splits the lowercased text into words, keeping apostrophes so
// "what's" stays one token.
func wordSet(lower string) map[string]bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// inferDevice resolves an intent with no usable hint by walking the device
// keyword tables in enum order. The bool is false when nothing matches.
func inferDevice(description string) (models.DeviceType, bool) {
	lower := strings.ToLower(description)
	words := wordSet(lower)
	for _, d := range models.AllDeviceTypes {
		if matchesAny(lower, words, deviceKeywords[d]) {
			return d, true
		}
	}
	return "", false
}

// matchMood returns the atmosphere theme for the description, if any.
func matchMood(description string) (string, bool) {
	lower := strings.ToLower(description)
	words := wordSet(lower)
	for _, mt := range moodThemes {
		if matchesAny(lower, words, mt.keywords) {
			return mt.theme, true
		}
	}
	return "", false
}
