package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.ASR.Model != "base" {
		t.Fatalf("default model = %q, want base", cfg.ASR.Model)
	}
	if cfg.Limits.MaxVideoDurationSeconds != 14400 {
		t.Fatalf("default max duration = %d, want 14400", cfg.Limits.MaxVideoDurationSeconds)
	}
	if !cfg.Cleaning.AutoCleanupAudio {
		t.Fatal("auto cleanup should default to true")
	}
	if cfg.Language.Default != "en" {
		t.Fatalf("default language = %q, want en", cfg.Language.Default)
	}
}

func TestLoadFillsEmptyDefaultLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[language]\ndefault = \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Language.Default != "en" {
		t.Fatalf("default language = %q, want en", cfg.Language.Default)
	}
}

func TestLoadParsesAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
audio_dir = "` + dir + `/audio"

[asr]
model = "SMALL"
device = "CUDA"

[language]
default = "en"
supported = ["EN", "en", " fr "]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Paths.AudioDir != filepath.Join(dir, "audio") {
		t.Fatalf("audio dir = %q", cfg.Paths.AudioDir)
	}
	if cfg.ASR.Model != "small" {
		t.Fatalf("model = %q, want small", cfg.ASR.Model)
	}
	if cfg.ASR.Device != "cuda" {
		t.Fatalf("device = %q, want cuda", cfg.ASR.Device)
	}
	if got := cfg.Language.Supported; len(got) != 2 || got[0] != "en" || got[1] != "fr" {
		t.Fatalf("supported = %v, want [en fr]", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{
			name:    "unknown engine",
			mutate:  func(c *config.Config) { c.ASR.Engine = "remote" },
			wantSub: "asr.engine",
		},
		{
			name: "openai without key",
			mutate: func(c *config.Config) {
				c.ASR.Engine = "openai"
				c.ASR.OpenAIAPIKey = ""
			},
			wantSub: "asr.openai_api_key",
		},
		{
			name: "min above max",
			mutate: func(c *config.Config) {
				c.Limits.MinVideoDurationSeconds = 600
				c.Limits.MaxVideoDurationSeconds = 60
			},
			wantSub: "min_video_duration",
		},
		{
			name: "default outside supported",
			mutate: func(c *config.Config) {
				c.Language.Default = "xx"
			},
			wantSub: "language.default",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Language.Supported = []string{"en", "fr"}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestOpenAIKeyEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[asr]\nengine = \"openai\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ASR.OpenAIAPIKey != "sk-test" {
		t.Fatalf("api key = %q, want env fallback", cfg.ASR.OpenAIAPIKey)
	}
}
