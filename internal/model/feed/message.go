package feed

import (
	"strings"
	"unicode"
)

// Speaker identifies which side of the conversation a message came from.
type Speaker string

const (
	// Self marks messages this system itself sent into the chat.
	Self Speaker = "self"
	// Other marks messages from the monitored contact.
	Other Speaker = "other"
)

// Message is a single observed chat message. Immutable once constructed.
type Message struct {
	ID         string  `json:"id"`
	Speaker    Speaker `json:"speaker"`
	Text       string  `json:"text"`
	Normalized string  `json:"-"`
}

// New builds a Message with its normalized form precomputed.
func New(id string, speaker Speaker, text string) Message {
	return Message{
		ID:         id,
		Speaker:    speaker,
		Text:       text,
		Normalized: Normalize(text),
	}
}

// Identity is the dedup key: same speaker plus same normalized text means
// the same message, regardless of how the surface rendered it.
func (m Message) Identity() string {
	return string(m.Speaker) + "|" + m.Normalized
}

// Normalize collapses runs of whitespace to single spaces, trims, and
// case-folds so that cosmetic differences do not defeat deduplication.
func Normalize(text string) string {
	fields := strings.FieldsFunc(text, unicode.IsSpace)
	return strings.ToLower(strings.Join(fields, " "))
}
