package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeText()
	c.normalizeAudio()
	c.normalizePreview()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTS() {
	c.TTS.Language = strings.TrimSpace(c.TTS.Language)
	c.TTS.Voice = strings.ToUpper(strings.TrimSpace(c.TTS.Voice))
	c.TTS.BaseURL = strings.TrimRight(strings.TrimSpace(c.TTS.BaseURL), "/")
	if c.TTS.BaseURL == "" {
		c.TTS.BaseURL = defaultTTSBaseURL
	}
	if c.TTS.APIKey == "" {
		c.TTS.APIKey = strings.TrimSpace(os.Getenv("GOOGLE_TTS_API_KEY"))
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
	if c.TTS.MaxRetries < 0 {
		c.TTS.MaxRetries = defaultTTSMaxRetries
	}
	if c.TTS.Concurrency <= 0 {
		c.TTS.Concurrency = defaultTTSConcurrency
	}
	if c.TTS.RequestsPerMinute <= 0 {
		c.TTS.RequestsPerMinute = defaultRequestsPerMinute
	}
	if c.TTS.MaxChunkChars <= 0 {
		c.TTS.MaxChunkChars = defaultMaxChunkChars
	}
}

func (c *Config) normalizeText() {
	if c.Text.Abbreviations == nil {
		c.Text.Abbreviations = defaultAbbreviations()
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.Bitrate = strings.TrimSpace(c.Audio.Bitrate)
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = defaultBitrate
	}
	if c.Audio.SampleRateHz <= 0 {
		c.Audio.SampleRateHz = defaultSampleRateHz
	}
	if c.Audio.SentencePauseMS < 0 {
		c.Audio.SentencePauseMS = defaultSentencePauseMS
	}
	if c.Audio.ChapterPauseMS < 0 {
		c.Audio.ChapterPauseMS = defaultChapterPauseMS
	}
}

func (c *Config) normalizePreview() {
	if c.Preview.Segments <= 0 {
		c.Preview.Segments = defaultPreviewSegments
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
