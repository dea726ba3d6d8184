package generation

import "strings"

// emojiRanges lists the unicode blocks stripped from generated replies.
// The chat surface renders emoji inconsistently across clients, so replies
// are kept to plain text.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F680, 0x1F6FF}, // transport and map symbols
	{0x1F700, 0x1F77F}, // alchemical symbols
	{0x1F780, 0x1F7FF}, // geometric shapes extended
	{0x1F800, 0x1F8FF}, // supplemental arrows-C
	{0x1F900, 0x1F9FF}, // supplemental symbols and pictographs
	{0x1FA00, 0x1FA6F}, // chess symbols
	{0x1FA70, 0x1FAFF}, // symbols and pictographs extended-A
	{0x2702, 0x27B0},   // dingbats
	{0x24C2, 0x24C2},   // enclosed M
	{0x1F000, 0x1F251}, // enclosed characters
}

// StripEmojis removes emoji runes from text, leaving everything else
// untouched.
func StripEmojis(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !isEmoji(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isEmoji(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}
