package book

import (
	"strings"
	"testing"
)

func TestSegmentRecognizesHeadings(t *testing.T) {
	text := strings.Join([]string{
		"Capítulo 1: A Casa",
		"Era uma vez.",
		"",
		"Chapter II",
		"Second body.",
		"",
		"3. O Retorno",
		"Final body.",
	}, "\n")

	chapters := Segment(text)
	if len(chapters) != 3 {
		t.Fatalf("got %d chapters, want 3: %+v", len(chapters), chapters)
	}
	if chapters[0].Title != "A Casa" {
		t.Errorf("chapter 0 title = %q", chapters[0].Title)
	}
	if chapters[0].Body != "Era uma vez." {
		t.Errorf("chapter 0 body = %q", chapters[0].Body)
	}
	if chapters[1].Titled() {
		t.Errorf("designator-only heading should leave chapter 1 untitled, got %q", chapters[1].Title)
	}
	if chapters[1].Body != "Second body." {
		t.Errorf("chapter 1 body = %q", chapters[1].Body)
	}
	if chapters[2].Title != "O Retorno" {
		t.Errorf("chapter 2 title = %q", chapters[2].Title)
	}
	if chapters[2].Body != "Final body." {
		t.Errorf("chapter 2 body = %q", chapters[2].Body)
	}
	for i, ch := range chapters {
		if ch.Index != i {
			t.Errorf("chapter %d has index %d", i, ch.Index)
		}
	}
}

func TestSegmentPreambleBecomesLeadingChapter(t *testing.T) {
	text := "Dedicated to the reader.\n\nCapítulo 1\nBody."

	chapters := Segment(text)
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if chapters[0].Titled() {
		t.Errorf("preamble should be untitled, got %q", chapters[0].Title)
	}
	if chapters[0].Body != "Dedicated to the reader." {
		t.Errorf("preamble body = %q", chapters[0].Body)
	}
	if chapters[1].Titled() {
		t.Errorf("chapter 1 should be untitled, got %q", chapters[1].Title)
	}
	if chapters[1].Body != "Body." {
		t.Errorf("chapter 1 body = %q", chapters[1].Body)
	}
}

func TestSegmentTitleExcludesDesignator(t *testing.T) {
	text := "Chapter 1: Intro\nHello.\nChapter 2: More\nWorld."

	chapters := Segment(text)
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2: %+v", len(chapters), chapters)
	}
	if chapters[0].Title != "Intro" {
		t.Errorf("chapter 0 title = %q, want %q", chapters[0].Title, "Intro")
	}
	if chapters[1].Title != "More" {
		t.Errorf("chapter 1 title = %q, want %q", chapters[1].Title, "More")
	}

	localized := Segment("Capítulo 1: Início\nEra uma vez.")
	if len(localized) != 1 {
		t.Fatalf("got %d chapters, want 1", len(localized))
	}
	if localized[0].Title != "Início" {
		t.Errorf("title = %q, want %q", localized[0].Title, "Início")
	}
}

func TestSegmentNoHeadingsDegradesToSingleChapter(t *testing.T) {
	text := "Just a plain story.\nNothing resembles a heading here."

	chapters := Segment(text)
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
	if chapters[0].Titled() {
		t.Errorf("expected untitled chapter, got %q", chapters[0].Title)
	}
	if !strings.Contains(chapters[0].Body, "plain story") {
		t.Errorf("body = %q", chapters[0].Body)
	}
}

func TestSegmentNumberedListNeedsTextAfterPeriod(t *testing.T) {
	// A bare "3." line is not a heading; "3. Title" is.
	text := "Capítulo 1\nThe count reached\n3.\nand stopped."

	chapters := Segment(text)
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1: %+v", len(chapters), chapters)
	}
	if !strings.Contains(chapters[0].Body, "3.") {
		t.Errorf("numeric line should stay in body: %q", chapters[0].Body)
	}
}

func TestSegmentBlankLinesNeverMatch(t *testing.T) {
	chapters := Segment("Capítulo 1\n\n\nBody text.")
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
	if chapters[0].Body != "Body text." {
		t.Errorf("body = %q", chapters[0].Body)
	}
}

func TestSegmentConsecutiveHeadingsKeepEmptyChapter(t *testing.T) {
	text := "Capítulo 1\nCapítulo 2\nBody."

	chapters := Segment(text)
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2: %+v", len(chapters), chapters)
	}
	if chapters[0].Body != "" {
		t.Errorf("chapter 0 body = %q, want empty", chapters[0].Body)
	}
	if chapters[1].Body != "Body." {
		t.Errorf("chapter 1 body = %q", chapters[1].Body)
	}
}

func TestSegmentRomanNumerals(t *testing.T) {
	chapters := Segment("Parte IV: Inverno\nSnow fell.")
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
	if chapters[0].Title != "Inverno" {
		t.Errorf("title = %q", chapters[0].Title)
	}
}
