// Package synth defines the synthesis contract the pipeline depends on and a
// catalog of known cloud voices.
//
// Concrete providers live under internal/services; the pipeline only sees the
// Synthesizer interface so tests can substitute fakes.
package synth
