package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var problems []string

	problems = append(problems, c.validatePaths()...)
	problems = append(problems, c.validateTTS()...)
	problems = append(problems, c.validateAudio()...)
	problems = append(problems, c.validateLogging()...)

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validatePaths() []string {
	var problems []string
	if c.Paths.InputDir == "" {
		problems = append(problems, "paths.input_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		problems = append(problems, "paths.output_dir must be set")
	}
	if c.Paths.WorkDir == "" {
		problems = append(problems, "paths.work_dir must be set")
	}
	if c.Paths.LogDir == "" {
		problems = append(problems, "paths.log_dir must be set")
	}
	return problems
}

func (c *Config) validateTTS() []string {
	var problems []string
	if c.TTS.Language == "" {
		problems = append(problems, "tts.language must be set")
	}
	switch c.TTS.Voice {
	case "FEMALE", "MALE", "NEUTRAL":
	case "":
		problems = append(problems, "tts.voice must be set")
	default:
		// Specific voice names like pt-BR-Wavenet-A pass through untouched.
		if !strings.Contains(c.TTS.Voice, "-") {
			problems = append(problems, fmt.Sprintf("tts.voice %q must be FEMALE, MALE, NEUTRAL, or a full voice name", c.TTS.Voice))
		}
	}
	if c.TTS.SpeakingRate < 0.25 || c.TTS.SpeakingRate > 4.0 {
		problems = append(problems, fmt.Sprintf("tts.speaking_rate %.2f must be between 0.25 and 4.0", c.TTS.SpeakingRate))
	}
	if c.TTS.Pitch < -20 || c.TTS.Pitch > 20 {
		problems = append(problems, fmt.Sprintf("tts.pitch %.2f must be between -20 and 20", c.TTS.Pitch))
	}
	if c.TTS.VolumeGainDB < -96 || c.TTS.VolumeGainDB > 16 {
		problems = append(problems, fmt.Sprintf("tts.volume_gain_db %.2f must be between -96 and 16", c.TTS.VolumeGainDB))
	}
	if c.TTS.MaxChunkChars < 100 {
		problems = append(problems, fmt.Sprintf("tts.max_chunk_chars %d must be at least 100", c.TTS.MaxChunkChars))
	}
	if c.TTS.MaxChunkChars > 5000 {
		problems = append(problems, fmt.Sprintf("tts.max_chunk_chars %d exceeds the provider request limit of 5000", c.TTS.MaxChunkChars))
	}
	if c.TTS.Concurrency > 32 {
		problems = append(problems, fmt.Sprintf("tts.concurrency %d must not exceed 32", c.TTS.Concurrency))
	}
	return problems
}

func (c *Config) validateAudio() []string {
	var problems []string
	if c.Audio.TargetLevelDB > 0 {
		problems = append(problems, fmt.Sprintf("audio.target_level_db %.1f must not be positive", c.Audio.TargetLevelDB))
	}
	if c.Audio.TargetLevelDB < -70 {
		problems = append(problems, fmt.Sprintf("audio.target_level_db %.1f must not be below -70", c.Audio.TargetLevelDB))
	}
	if c.Audio.FadeInMillis < 0 {
		problems = append(problems, "audio.fade_in_ms must not be negative")
	}
	if c.Audio.FadeOutMillis < 0 {
		problems = append(problems, "audio.fade_out_ms must not be negative")
	}
	return problems
}

func (c *Config) validateLogging() []string {
	var problems []string
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be console or json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q must be debug, info, warn, or error", c.Logging.Level))
	}
	return problems
}
