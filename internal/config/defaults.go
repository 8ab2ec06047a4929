package config

const (
	defaultAudioDir         = "~/.local/share/scribe/audio"
	defaultLogDir           = "~/.local/share/scribe/logs"
	defaultEngine           = "local"
	defaultModel            = "base"
	defaultDevice           = "cpu"
	defaultTimeoutSeconds   = 14400
	defaultWhisperBinary    = "whisper-cli"
	defaultModelDir         = "~/.local/share/scribe/models"
	defaultMinVideoSeconds  = 1
	defaultMaxVideoSeconds  = 14400
	defaultMaxAudioSizeMB   = 1000
	defaultMinFreeSpaceMB   = 200
	defaultMaxAudioAgeHours = 24
	defaultLanguage         = "en"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// ValidModels lists the recognized speech model sizes.
var ValidModels = []string{"tiny", "base", "small", "medium", "large"}

// ValidDevices lists the recognized compute devices.
var ValidDevices = []string{"cpu", "cuda"}

func defaultSupportedLanguages() []string {
	return []string{
		"en", "es", "fr", "de", "it", "pt", "nl", "pl",
		"ru", "ja", "ko", "zh", "ar", "hi",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioDir: defaultAudioDir,
			LogDir:   defaultLogDir,
		},
		ASR: ASR{
			Enabled:        true,
			Engine:         defaultEngine,
			Model:          defaultModel,
			Device:         defaultDevice,
			TimeoutSeconds: defaultTimeoutSeconds,
			WhisperBinary:  defaultWhisperBinary,
			ModelDir:       defaultModelDir,
		},
		Limits: Limits{
			MinVideoDurationSeconds: defaultMinVideoSeconds,
			MaxVideoDurationSeconds: defaultMaxVideoSeconds,
			MaxAudioFileSizeMB:      defaultMaxAudioSizeMB,
			MinFreeSpaceMB:          defaultMinFreeSpaceMB,
		},
		Cleaning: Cleaning{
			RemoveFillerWords: true,
			AutoCleanupAudio:  true,
			MaxAudioAgeHours:  defaultMaxAudioAgeHours,
		},
		Language: Language{
			Default:   defaultLanguage,
			Supported: defaultSupportedLanguages(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
