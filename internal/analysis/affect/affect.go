package affect

import "strings"

// Classifier decides whether a piece of text signals emotional distress.
// The default is the keyword matcher below; callers hold this type so a
// statistical model can be swapped in without touching any call site.
type Classifier func(text string) bool

// distressVocabulary is a curated list, not an exhaustive one. Substring
// matching deliberately favors recall over precision: a missed cry for help
// costs more than a spurious supportive message.
var distressVocabulary = []string{
	"stressed", "anxious", "overwhelmed", "sad", "tired", "help", "lonely", "die",
	"hopeless", "empty", "numb", "desperate", "worthless", "broken", "helpless",
	"drained", "exhausted", "shattered", "frustrated", "angry", "disconnected",
	"isolated", "scared", "panicked", "unloved", "rejected", "invisible",
	"melancholy", "defeated", "useless", "restless", "shaky", "crying", "hurting",
	"apathetic", "lost", "confused", "paralyzed", "despair", "grief", "aching",
	"trapped", "forsaken", "miserable", "self-loathing", "pessimistic", "suffocating",
	"fading", "crushed", "worn out", "drowning", "brokenhearted", "fearful",
	"gloomy", "bleeding", "fragile", "unworthy", "regretful", "done",
}

// IsDistressSignal reports whether text contains any distress-indicative
// term. Matching is case-insensitive substring containment; pure, no
// failure modes.
func IsDistressSignal(text string) bool {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return false
	}
	for _, word := range distressVocabulary {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}
