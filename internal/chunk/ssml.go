package chunk

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Markup controls SSML generation for synthesis requests.
type Markup struct {
	SpellNumbers bool
	// SentenceBreak inserts a break tag after each sentence inside a
	// segment. Zero disables insertion; the pause between segments is
	// handled by silence clips during assembly, so the final sentence of a
	// segment never gets a break.
	SentenceBreak time.Duration
}

var numberRe = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\b`)

// sentenceBreakRe matches a terminator run followed by whitespace; the break
// lands between them so end-of-segment terminators are left alone.
var sentenceBreakRe = regexp.MustCompile(`([.!?]+)(\s+)`)

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Wrap converts plain segment text into an SSML document. Text is escaped,
// numbers optionally gain say-as hints so the voice reads them as cardinals,
// sentence boundaries gain break tags, and the whole segment is enclosed in
// a speak element.
func (m Markup) Wrap(text string) string {
	escaped := ssmlEscaper.Replace(text)
	if m.SpellNumbers {
		escaped = numberRe.ReplaceAllString(escaped, `<say-as interpret-as="cardinal">$0</say-as>`)
	}
	if m.SentenceBreak > 0 {
		tag := `<break time="` + strconv.FormatFloat(m.SentenceBreak.Seconds(), 'f', -1, 64) + `s"/>`
		escaped = sentenceBreakRe.ReplaceAllString(escaped, "${1}"+tag+"${2}")
	}
	var out strings.Builder
	out.Grow(len(escaped) + 32)
	out.WriteString("<speak>")
	out.WriteString(escaped)
	out.WriteString("</speak>")
	return out.String()
}
