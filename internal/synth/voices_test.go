package synth

import (
	"errors"
	"strings"
	"testing"
)

func TestPickVoicePrefersPremium(t *testing.T) {
	name := PickVoice("pt-BR", "FEMALE", true)
	if !strings.Contains(name, "Wavenet") {
		t.Errorf("premium pick = %q, want a Wavenet voice", name)
	}
}

func TestPickVoiceStandardTier(t *testing.T) {
	name := PickVoice("pt-BR", "MALE", false)
	if name != "pt-BR-Standard-B" {
		t.Errorf("standard pick = %q", name)
	}
}

func TestPickVoiceExplicitNamePassesThrough(t *testing.T) {
	name := PickVoice("pt-BR", "pt-BR-Wavenet-C", true)
	if name != "pt-BR-Wavenet-C" {
		t.Errorf("explicit pick = %q", name)
	}
}

func TestPickVoiceUnknownLanguage(t *testing.T) {
	if name := PickVoice("ja-JP", "FEMALE", true); name != "" {
		t.Errorf("expected empty pick for unknown language, got %q", name)
	}
}

func TestKnownVoicesCaseInsensitive(t *testing.T) {
	if len(KnownVoices("PT-br")) == 0 {
		t.Error("expected voices for PT-br")
	}
}

func TestErrorCarriesPosition(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &Error{Chapter: 2, Sequence: 17, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatal("Unwrap lost the cause")
	}
	for _, want := range []string{"17", "chapter 2", "quota exceeded"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}
