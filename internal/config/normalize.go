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
	if err := c.normalizeASR(); err != nil {
		return err
	}
	c.normalizeLimits()
	c.normalizeCleaning()
	c.normalizeLanguage()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AudioDir) == "" {
		c.Paths.AudioDir = defaultAudioDir
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeASR() error {
	c.ASR.Engine = strings.ToLower(strings.TrimSpace(c.ASR.Engine))
	if c.ASR.Engine == "" {
		c.ASR.Engine = defaultEngine
	}
	c.ASR.Model = strings.ToLower(strings.TrimSpace(c.ASR.Model))
	if c.ASR.Model == "" {
		c.ASR.Model = defaultModel
	}
	c.ASR.Device = strings.ToLower(strings.TrimSpace(c.ASR.Device))
	if c.ASR.Device == "" {
		c.ASR.Device = defaultDevice
	}
	if c.ASR.TimeoutSeconds <= 0 {
		c.ASR.TimeoutSeconds = defaultTimeoutSeconds
	}
	c.ASR.WhisperBinary = strings.TrimSpace(c.ASR.WhisperBinary)
	if c.ASR.WhisperBinary == "" {
		c.ASR.WhisperBinary = defaultWhisperBinary
	}
	var err error
	if strings.TrimSpace(c.ASR.ModelDir) == "" {
		c.ASR.ModelDir = defaultModelDir
	}
	if c.ASR.ModelDir, err = expandPath(c.ASR.ModelDir); err != nil {
		return fmt.Errorf("asr.model_dir: %w", err)
	}
	c.ASR.OpenAIAPIKey = strings.TrimSpace(c.ASR.OpenAIAPIKey)
	if c.ASR.OpenAIAPIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.ASR.OpenAIAPIKey = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeLimits() {
	if c.Limits.MinVideoDurationSeconds <= 0 {
		c.Limits.MinVideoDurationSeconds = defaultMinVideoSeconds
	}
	if c.Limits.MaxVideoDurationSeconds <= 0 {
		c.Limits.MaxVideoDurationSeconds = defaultMaxVideoSeconds
	}
	if c.Limits.MaxAudioFileSizeMB <= 0 {
		c.Limits.MaxAudioFileSizeMB = defaultMaxAudioSizeMB
	}
	if c.Limits.MinFreeSpaceMB <= 0 {
		c.Limits.MinFreeSpaceMB = defaultMinFreeSpaceMB
	}
}

func (c *Config) normalizeCleaning() {
	if c.Cleaning.MaxAudioAgeHours <= 0 {
		c.Cleaning.MaxAudioAgeHours = defaultMaxAudioAgeHours
	}
}

func (c *Config) normalizeLanguage() {
	c.Language.Default = strings.ToLower(strings.TrimSpace(c.Language.Default))
	if c.Language.Default == "" {
		c.Language.Default = defaultLanguage
	}
	if len(c.Language.Supported) == 0 {
		c.Language.Supported = defaultSupportedLanguages()
		return
	}
	langs := make([]string, 0, len(c.Language.Supported))
	seen := make(map[string]struct{}, len(c.Language.Supported))
	for _, lang := range c.Language.Supported {
		normalized := strings.ToLower(strings.TrimSpace(lang))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		langs = append(langs, normalized)
	}
	if len(langs) == 0 {
		langs = defaultSupportedLanguages()
	}
	c.Language.Supported = langs
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
