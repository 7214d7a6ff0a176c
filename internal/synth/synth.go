package synth

import (
	"context"
	"fmt"
	"time"
)

// Gender selects a voice by speaker gender when no specific voice is named.
type Gender string

const (
	GenderFemale  Gender = "FEMALE"
	GenderMale    Gender = "MALE"
	GenderNeutral Gender = "NEUTRAL"
)

// Request describes one synthesis call.
type Request struct {
	// Text is the plain segment text. When SSML is set it contains a full
	// SSML document instead.
	Text         string
	SSML         bool
	Language     string
	Voice        string
	SpeakingRate float64
	Pitch        float64
	VolumeGainDB float64
}

// Clip is the audio produced for one request.
type Clip struct {
	// Audio holds encoded MP3 bytes.
	Audio []byte
	// Duration is the clip length when the provider reports it; zero when
	// unknown.
	Duration time.Duration
}

// Voice describes one available provider voice.
type Voice struct {
	Name          string
	LanguageCodes []string
	Gender        Gender
	SampleRateHz  int
	Premium       bool
}

// Synthesizer converts text segments into audio clips.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (Clip, error)
	Voices(ctx context.Context, language string) ([]Voice, error)
}

// Error reports a synthesis failure with the position of the segment that
// caused it, so callers can report exactly where a run failed.
type Error struct {
	Chapter  int
	Sequence int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("synthesize segment %d (chapter %d): %v", e.Sequence, e.Chapter, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
