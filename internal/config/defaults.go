package config

const (
	defaultInputDir  = "~/.local/share/lectern/input"
	defaultOutputDir = "~/.local/share/lectern/output"
	defaultWorkDir   = "~/.local/share/lectern/work"
	defaultLogDir    = "~/.local/share/lectern/logs"

	defaultLanguage          = "pt-BR"
	defaultVoiceGender       = "FEMALE"
	defaultSpeakingRate      = 0.95
	defaultVolumeGainDB      = 0.3
	defaultMaxChunkChars     = 3500
	defaultTTSBaseURL        = "https://texttospeech.googleapis.com/v1"
	defaultTTSTimeoutSeconds = 60
	defaultTTSMaxRetries     = 3
	defaultTTSConcurrency    = 4
	defaultRequestsPerMinute = 120

	defaultBitrate         = "128k"
	defaultSampleRateHz    = 44100
	defaultTargetLevelDB   = -20.0
	defaultFadeInMillis    = 1000
	defaultFadeOutMillis   = 2000
	defaultSentencePauseMS = 800
	defaultChapterPauseMS  = 3000

	defaultArtist = "AI Narrator"
	defaultAlbum  = "Audiobook"
	defaultGenre  = "Audiobook"

	defaultPreviewSegments = 5

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// defaultAbbreviations mirrors the spoken expansions applied before sentence
// splitting so abbreviation periods are not mistaken for sentence boundaries.
func defaultAbbreviations() map[string]string {
	return map[string]string{
		"Dr.":    "Doutor",
		"Dra.":   "Doutora",
		"Sr.":    "Senhor",
		"Sra.":   "Senhora",
		"Prof.":  "Professor",
		"Profa.": "Professora",
		"etc.":   "et cetera",
		"ex.":    "exemplo",
		"obs.":   "observação",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		TTS: TTS{
			Language:          defaultLanguage,
			Voice:             defaultVoiceGender,
			Premium:           true,
			SpeakingRate:      defaultSpeakingRate,
			Pitch:             0,
			VolumeGainDB:      defaultVolumeGainDB,
			MaxChunkChars:     defaultMaxChunkChars,
			BaseURL:           defaultTTSBaseURL,
			TimeoutSeconds:    defaultTTSTimeoutSeconds,
			MaxRetries:        defaultTTSMaxRetries,
			Concurrency:       defaultTTSConcurrency,
			RequestsPerMinute: defaultRequestsPerMinute,
		},
		Text: Text{
			SSML:          true,
			SpellNumbers:  true,
			Abbreviations: defaultAbbreviations(),
		},
		Audio: Audio{
			Bitrate:         defaultBitrate,
			SampleRateHz:    defaultSampleRateHz,
			TargetLevelDB:   defaultTargetLevelDB,
			FadeInMillis:    defaultFadeInMillis,
			FadeOutMillis:   defaultFadeOutMillis,
			SentencePauseMS: defaultSentencePauseMS,
			ChapterPauseMS:  defaultChapterPauseMS,
		},
		Metadata: Metadata{
			Artist: defaultArtist,
			Album:  defaultAlbum,
			Genre:  defaultGenre,
		},
		Preview: Preview{
			Segments: defaultPreviewSegments,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
