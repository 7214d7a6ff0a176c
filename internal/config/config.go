package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
}

// TTS contains configuration for the cloud text-to-speech collaborator.
type TTS struct {
	Language          string  `toml:"language"`
	Voice             string  `toml:"voice"`
	Premium           bool    `toml:"premium"`
	SpeakingRate      float64 `toml:"speaking_rate"`
	Pitch             float64 `toml:"pitch"`
	VolumeGainDB      float64 `toml:"volume_gain_db"`
	MaxChunkChars     int     `toml:"max_chunk_chars"`
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	MaxRetries        int     `toml:"max_retries"`
	Concurrency       int     `toml:"concurrency"`
	RequestsPerMinute int     `toml:"requests_per_minute"`
}

// Text contains configuration for text preparation before synthesis.
type Text struct {
	SSML          bool              `toml:"ssml"`
	SpellNumbers  bool              `toml:"spell_numbers"`
	Abbreviations map[string]string `toml:"abbreviations"`
}

// Audio contains configuration for concatenation and mastering.
type Audio struct {
	Bitrate         string  `toml:"bitrate"`
	SampleRateHz    int     `toml:"sample_rate_hz"`
	TargetLevelDB   float64 `toml:"target_level_db"`
	FadeInMillis    int     `toml:"fade_in_ms"`
	FadeOutMillis   int     `toml:"fade_out_ms"`
	SentencePauseMS int     `toml:"sentence_pause_ms"`
	ChapterPauseMS  int     `toml:"chapter_pause_ms"`
}

// Metadata contains the tags stamped onto produced audio files.
type Metadata struct {
	Artist string `toml:"artist"`
	Album  string `toml:"album"`
	Genre  string `toml:"genre"`
}

// Preview contains configuration for preview runs.
type Preview struct {
	Segments int `toml:"segments"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lectern.
//
// Configuration sections by subsystem:
//   - Paths: input/output/work/log directories
//   - TTS: cloud synthesis voice, tuning, limits, and credentials
//   - Text: abbreviation expansion and SSML markup behaviour
//   - Audio: pauses, mastering, and encode parameters
//   - Metadata: tags written to output files
//   - Preview: preview-mode segment cap
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	TTS           TTS           `toml:"tts"`
	Text          Text          `toml:"text"`
	Audio         Audio         `toml:"audio"`
	Metadata      Metadata      `toml:"metadata"`
	Preview       Preview       `toml:"preview"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lectern/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lectern.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a generation run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.InputDir, c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for audio assembly.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// PdftotextBinary returns the pdftotext executable name used for PDF extraction.
func (c *Config) PdftotextBinary() string {
	return "pdftotext"
}

// SentencePause returns the configured pause inserted after ordinary segments.
func (c *Config) SentencePause() time.Duration {
	return time.Duration(c.Audio.SentencePauseMS) * time.Millisecond
}

// ChapterPause returns the configured pause inserted after a chapter's final segment.
func (c *Config) ChapterPause() time.Duration {
	return time.Duration(c.Audio.ChapterPauseMS) * time.Millisecond
}

// FadeIn returns the fade-in applied at the start of each produced file.
func (c *Config) FadeIn() time.Duration {
	return time.Duration(c.Audio.FadeInMillis) * time.Millisecond
}

// FadeOut returns the fade-out applied at the end of each produced file.
func (c *Config) FadeOut() time.Duration {
	return time.Duration(c.Audio.FadeOutMillis) * time.Millisecond
}

// SynthesisTimeout returns the per-request timeout for the TTS collaborator.
func (c *Config) SynthesisTimeout() time.Duration {
	return time.Duration(c.TTS.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
