package chunk

import (
	"strings"
	"testing"
	"time"

	"lectern/internal/book"
)

func testChunker(maxChars int) *Chunker {
	return &Chunker{
		MaxChars:      maxChars,
		SentencePause: 800 * time.Millisecond,
		ChapterPause:  3 * time.Second,
	}
}

func TestSplitPacksSentencesGreedily(t *testing.T) {
	chapters := []book.Chapter{{Index: 0, Body: "One. Two. Three."}}

	segments := testChunker(9).Split(chapters)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segments), segments)
	}
	if segments[0].Text != "One. Two." {
		t.Errorf("segment 0 = %q", segments[0].Text)
	}
	if segments[1].Text != "Three." {
		t.Errorf("segment 1 = %q", segments[1].Text)
	}
}

func TestSplitPausesAndSequence(t *testing.T) {
	chapters := []book.Chapter{
		{Index: 0, Title: "Capítulo 1", Body: "First. Second."},
		{Index: 1, Body: "Third."},
	}

	chunker := testChunker(5)
	segments := chunker.Split(chapters)
	if len(segments) != 4 {
		t.Fatalf("got %d segments, want 4: %+v", len(segments), segments)
	}

	// Title narrated first, terminated with a period.
	if segments[0].Text != "Capítulo 1." {
		t.Errorf("title segment = %q", segments[0].Text)
	}
	for i, segment := range segments {
		if segment.Sequence != i {
			t.Errorf("segment %d has sequence %d", i, segment.Sequence)
		}
	}
	if segments[0].PauseAfter != chunker.SentencePause || segments[1].PauseAfter != chunker.SentencePause {
		t.Error("interior segments should carry the sentence pause")
	}
	if segments[2].PauseAfter != chunker.ChapterPause {
		t.Error("chapter-final segment should carry the chapter pause")
	}
	if segments[3].PauseAfter != chunker.ChapterPause {
		t.Error("book-final segment should carry the chapter pause")
	}
	if segments[2].Chapter != 0 || segments[3].Chapter != 1 {
		t.Errorf("chapter assignment wrong: %+v", segments)
	}
}

func TestSplitOversizedSentenceStandsAlone(t *testing.T) {
	long := strings.Repeat("palavra ", 20) + "fim."
	chapters := []book.Chapter{{Index: 0, Body: "Curto. " + long}}

	segments := testChunker(30).Split(chapters)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Text != "Curto." {
		t.Errorf("segment 0 = %q", segments[0].Text)
	}
	if len(segments[1].Text) <= 30 {
		t.Errorf("oversized sentence should stand alone uncut, got %q", segments[1].Text)
	}
}

func TestSplitCollapsesWhitespace(t *testing.T) {
	chapters := []book.Chapter{{Index: 0, Body: "Uma   frase\n\ncom quebras."}}

	segments := testChunker(100).Split(chapters)
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Text != "Uma frase com quebras." {
		t.Errorf("segment = %q", segments[0].Text)
	}
}

func TestExpandAbbreviations(t *testing.T) {
	chunker := testChunker(500)
	chunker.Abbreviations = map[string]string{
		"Dr.":  "Doutor",
		"Dra.": "Doutora",
		"Sr.":  "Senhor",
	}
	chapters := []book.Chapter{{Index: 0, Body: "O Dr. Silva e a Dra. Costa chegaram. O Sr. Lima não."}}

	segments := chunker.Split(chapters)
	if len(segments) != 1 {
		t.Fatalf("got %d segments: %+v", len(segments), segments)
	}
	want := "O Doutor Silva e a Doutora Costa chegaram. O Senhor Lima não."
	if segments[0].Text != want {
		t.Errorf("text = %q, want %q", segments[0].Text, want)
	}
}

func TestExpandAbbreviationsRequiresWordBoundary(t *testing.T) {
	chunker := testChunker(500)
	chunker.Abbreviations = map[string]string{"ex.": "exemplo"}

	got := chunker.expandAbbreviations("complex. ex. fim.")
	want := "complex. exemplo fim."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandAbbreviationsLongestWins(t *testing.T) {
	chunker := testChunker(500)
	chunker.Abbreviations = map[string]string{
		"Dr.":  "Doutor",
		"Dra.": "Doutora",
	}

	got := chunker.expandAbbreviations("Dra. Ana")
	if got != "Doutora Ana" {
		t.Errorf("got %q, want Doutora Ana", got)
	}
}

func TestSplitSentencesPunctuationRuns(t *testing.T) {
	sentences := splitSentences("Sério?! Sim... Claro.")
	want := []string{"Sério?!", "Sim...", "Claro."}
	if len(sentences) != len(want) {
		t.Fatalf("got %v, want %v", sentences, want)
	}
	for i := range want {
		if sentences[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, sentences[i], want[i])
		}
	}
}

func TestSplitSentencesUnterminatedTail(t *testing.T) {
	sentences := splitSentences("Primeira frase. E depois")
	if len(sentences) != 2 {
		t.Fatalf("got %v", sentences)
	}
	if sentences[1] != "E depois" {
		t.Errorf("tail = %q", sentences[1])
	}
}

func TestSplitEmptyChapterProducesNoSegments(t *testing.T) {
	segments := testChunker(100).Split([]book.Chapter{{Index: 0, Body: "   "}})
	if len(segments) != 0 {
		t.Fatalf("got %d segments, want 0", len(segments))
	}
}

func TestMarkupWrap(t *testing.T) {
	markup := Markup{SpellNumbers: true}
	got := markup.Wrap("Tinha 3 gatos & 2 cães.")
	for _, want := range []string{
		"<speak>",
		"</speak>",
		`<say-as interpret-as="cardinal">3</say-as>`,
		`<say-as interpret-as="cardinal">2</say-as>`,
		"&amp;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ssml %q missing %q", got, want)
		}
	}
}

func TestMarkupWrapWithoutNumbers(t *testing.T) {
	markup := Markup{}
	got := markup.Wrap("Tinha 3 gatos.")
	if strings.Contains(got, "say-as") {
		t.Errorf("unexpected say-as in %q", got)
	}
	if got != "<speak>Tinha 3 gatos.</speak>" {
		t.Errorf("ssml = %q", got)
	}
}

func TestMarkupWrapInsertsSentenceBreaks(t *testing.T) {
	markup := Markup{SentenceBreak: 800 * time.Millisecond}
	got := markup.Wrap("Um. Dois! Três?")
	want := `<speak>Um.<break time="0.8s"/> Dois!<break time="0.8s"/> Três?</speak>`
	if got != want {
		t.Errorf("ssml = %q, want %q", got, want)
	}
}

func TestMarkupWrapBreaksSkipNumbers(t *testing.T) {
	markup := Markup{SpellNumbers: true, SentenceBreak: 800 * time.Millisecond}
	got := markup.Wrap("Pi é 3.14. Fim.")
	want := `<speak>Pi é <say-as interpret-as="cardinal">3.14</say-as>.<break time="0.8s"/> Fim.</speak>`
	if got != want {
		t.Errorf("ssml = %q, want %q", got, want)
	}
}
