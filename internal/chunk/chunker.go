package chunk

import (
	"sort"
	"strings"
	"time"

	"lectern/internal/book"
)

// Segment is one synthesis unit with its trailing pause.
type Segment struct {
	Chapter    int
	Sequence   int
	Text       string
	PauseAfter time.Duration
}

// Chunker splits chapters into synthesis-sized segments.
type Chunker struct {
	MaxChars      int
	Abbreviations map[string]string
	SentencePause time.Duration
	ChapterPause  time.Duration

	sortedAbbrevs []string
}

// Split chunks every chapter in order. Chapter titles are narrated as the
// first segment of their chapter. The last segment of each chapter carries the
// chapter pause; every other segment carries the sentence pause. Sequence
// numbers are global across the whole book.
func (c *Chunker) Split(chapters []book.Chapter) []Segment {
	var segments []Segment
	sequence := 0

	for _, chapter := range chapters {
		var texts []string
		if chapter.Titled() {
			texts = append(texts, ensureTerminated(collapseWhitespace(chapter.Title)))
		}
		texts = append(texts, c.packSentences(chapter.Body)...)

		for i, text := range texts {
			pause := c.SentencePause
			if i == len(texts)-1 {
				pause = c.ChapterPause
			}
			segments = append(segments, Segment{
				Chapter:    chapter.Index,
				Sequence:   sequence,
				Text:       text,
				PauseAfter: pause,
			})
			sequence++
		}
	}
	return segments
}

// packSentences splits body text into sentences and greedily packs consecutive
// sentences into segments of at most MaxChars characters. A single sentence
// longer than the limit becomes a segment of its own rather than being cut.
func (c *Chunker) packSentences(body string) []string {
	text := collapseWhitespace(body)
	if text == "" {
		return nil
	}
	text = c.expandAbbreviations(text)
	sentences := splitSentences(text)

	var packed []string
	var current string
	for _, sentence := range sentences {
		switch {
		case current == "":
			current = sentence
		case len(current)+1+len(sentence) > c.MaxChars:
			packed = append(packed, current)
			current = sentence
		default:
			current += " " + sentence
		}
	}
	if current != "" {
		packed = append(packed, current)
	}
	return packed
}

// expandAbbreviations replaces abbreviations with their spoken form in a
// single left-to-right pass. Longer abbreviations win when one is a prefix of
// another, and matches must start at a word boundary.
func (c *Chunker) expandAbbreviations(text string) string {
	if len(c.Abbreviations) == 0 {
		return text
	}
	if c.sortedAbbrevs == nil {
		c.sortedAbbrevs = make([]string, 0, len(c.Abbreviations))
		for abbrev := range c.Abbreviations {
			c.sortedAbbrevs = append(c.sortedAbbrevs, abbrev)
		}
		sort.Slice(c.sortedAbbrevs, func(i, j int) bool {
			if len(c.sortedAbbrevs[i]) != len(c.sortedAbbrevs[j]) {
				return len(c.sortedAbbrevs[i]) > len(c.sortedAbbrevs[j])
			}
			return c.sortedAbbrevs[i] < c.sortedAbbrevs[j]
		})
	}

	var out strings.Builder
	out.Grow(len(text))
	for i := 0; i < len(text); {
		if i > 0 && text[i-1] != ' ' {
			out.WriteByte(text[i])
			i++
			continue
		}
		matched := false
		for _, abbrev := range c.sortedAbbrevs {
			if strings.HasPrefix(text[i:], abbrev) {
				out.WriteString(c.Abbreviations[abbrev])
				i += len(abbrev)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(text[i])
			i++
		}
	}
	return out.String()
}

// splitSentences splits collapsed text on sentence-ending punctuation runs.
// The input has already had all whitespace collapsed to single spaces.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isSentenceEnd(text[i]) {
			continue
		}
		for i+1 < len(text) && isSentenceEnd(text[i+1]) {
			i++
		}
		if i+1 < len(text) && text[i+1] != ' ' {
			continue
		}
		sentence := strings.TrimSpace(text[start : i+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func ensureTerminated(text string) string {
	if text == "" {
		return text
	}
	if isSentenceEnd(text[len(text)-1]) {
		return text
	}
	return text + "."
}
