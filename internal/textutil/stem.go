package textutil

import "strings"

// TitleStem converts a chapter title into a lowercase token suitable for
// embedding in an output file name. Runs of non-alphanumeric characters
// collapse to single underscores. Returns "" when nothing usable remains.
func TitleStem(title string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}
