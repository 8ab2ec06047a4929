package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateASR(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateLanguage(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateASR() error {
	switch c.ASR.Engine {
	case "local", "openai":
	default:
		return fmt.Errorf("asr.engine must be %q or %q", "local", "openai")
	}
	if c.ASR.Engine == "openai" && strings.TrimSpace(c.ASR.OpenAIAPIKey) == "" {
		return errors.New("asr.openai_api_key must be set when asr.engine is openai (or set OPENAI_API_KEY)")
	}
	if c.ASR.TimeoutSeconds <= 0 {
		return errors.New("asr.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLimits() error {
	if err := ensurePositiveMap(map[string]int{
		"limits.max_video_duration":     c.Limits.MaxVideoDurationSeconds,
		"limits.max_audio_file_size_mb": c.Limits.MaxAudioFileSizeMB,
		"limits.min_free_space_mb":      c.Limits.MinFreeSpaceMB,
	}); err != nil {
		return err
	}
	if c.Limits.MinVideoDurationSeconds < 0 {
		return errors.New("limits.min_video_duration must be >= 0")
	}
	if c.Limits.MinVideoDurationSeconds >= c.Limits.MaxVideoDurationSeconds {
		return errors.New("limits.min_video_duration must be less than limits.max_video_duration")
	}
	return nil
}

func (c *Config) validateLanguage() error {
	if c.Language.Default == "" {
		return nil
	}
	if !slices.Contains(c.Language.Supported, c.Language.Default) {
		return fmt.Errorf("language.default %q is not in language.supported", c.Language.Default)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
