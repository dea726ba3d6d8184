package generation

import "testing"

func TestStripEmojis(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello \U0001F600 world", "hello  world"},
		{"no emoji here", "no emoji here"},
		{"\U0001F680\U0001F9E0", ""},
		{"", ""},
		// Devanagari must pass through untouched for hi/mr replies.
		{"सब ठीक हो जाएगा", "सब ठीक हो जाएगा"},
	}
	for _, tc := range cases {
		if got := StripEmojis(tc.in); got != tc.want {
			t.Errorf("StripEmojis(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
