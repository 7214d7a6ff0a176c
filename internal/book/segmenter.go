package book

import (
	"regexp"
	"strings"
)

// Chapter is a contiguous portion of the source text narrated as one unit.
type Chapter struct {
	Index int
	Title string
	Body  string
}

// Titled reports whether the chapter carries a heading of its own.
func (c Chapter) Titled() bool {
	return strings.TrimSpace(c.Title) != ""
}

// headingPatterns are tried in order against each line; the first match wins.
// Group 2 captures the title text after the designator.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:chapter|cap[ií]tulo|parte)\s+(\d+|[ivxlcdm]+)\s*:?\s*(.*)$`),
	regexp.MustCompile(`^\s*(\d+)\.\s+(\S.*)$`),
}

// Segment splits text into chapters by recognizing numbered headings.
//
// Lines matching a heading pattern start a new chapter; the text after the
// designator becomes the chapter title ("Capítulo 1: Início" titles the
// chapter "Início") and the heading line is not narrated as body text. A
// designator-only heading ("Chapter II") still starts a chapter, untitled.
// Text before the first heading becomes an untitled leading chapter when it
// is not blank. When no heading matches anywhere, the whole text is returned
// as one untitled chapter so narration can still proceed.
func Segment(text string) []Chapter {
	lines := strings.Split(text, "\n")

	var chapters []Chapter
	var title string
	headed := false
	var body []string
	flush := func() {
		joined := strings.TrimSpace(strings.Join(body, "\n"))
		if joined == "" && !headed {
			body = body[:0]
			return
		}
		chapters = append(chapters, Chapter{Index: len(chapters), Title: title, Body: joined})
		body = body[:0]
	}

	for _, line := range lines {
		if heading, ok := matchHeading(line); ok {
			flush()
			title = heading
			headed = true
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(chapters) == 0 {
		chapters = append(chapters, Chapter{Index: 0, Body: strings.TrimSpace(text)})
	}
	return chapters
}

// matchHeading returns the title captured after the heading designator. The
// title may be empty; ok alone marks the line as a chapter boundary.
func matchHeading(line string) (title string, ok bool) {
	if strings.TrimSpace(line) == "" {
		return "", false
	}
	for _, pattern := range headingPatterns {
		if m := pattern.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[2]), true
		}
	}
	return "", false
}
