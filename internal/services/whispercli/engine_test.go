package whispercli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
	"scribe/internal/services"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.ASR.ModelDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(cfg.ASR.ModelDir, "ggml-base.bin"), []byte("weights"), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewEngine(&cfg)
}

func TestLoadRejectsMissingWeights(t *testing.T) {
	cfg := config.Default()
	cfg.ASR.ModelDir = t.TempDir()
	engine := NewEngine(&cfg)

	_, err := engine.Load(context.Background(), "base", "cpu")
	if services.KindOf(err) != services.KindModelLoadFailure {
		t.Fatalf("expected model load failure, got %v", err)
	}
}

func TestTranscribeParsesJSONOutput(t *testing.T) {
	engine := newTestEngine(t)
	audioDir := t.TempDir()
	audioPath := filepath.Join(audioDir, "speech.wav")

	var gotArgs []string
	engine.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != DefaultBinary {
			t.Fatalf("binary = %q", name)
		}
		gotArgs = args
		payload := `{
			"result": {"language": "en"},
			"transcription": [
				{"offsets": {"from": 0, "to": 2500}, "text": " hello there ",
				 "tokens": [{"p": 0.9}, {"p": 0.7}]},
				{"offsets": {"from": 2500, "to": 5000}, "text": "general remarks"},
				{"offsets": {"from": 5000, "to": 5100}, "text": "   "}
			]
		}`
		return os.WriteFile(filepath.Join(audioDir, "speech.json"), []byte(payload), 0o644)
	})

	handle, err := engine.Load(context.Background(), "base", "cpu")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := handle.Transcribe(context.Background(), audioPath, "en")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if out.Text != "hello there general remarks" {
		t.Fatalf("text = %q", out.Text)
	}
	if out.Language != "en" {
		t.Fatalf("language = %q", out.Language)
	}
	if len(out.Segments) != 2 {
		t.Fatalf("segments = %+v", out.Segments)
	}
	if out.Segments[0].Start != 0 || out.Segments[0].End != 2.5 {
		t.Fatalf("segment bounds = %+v", out.Segments[0])
	}
	want := 1 - (0.9+0.7)/2
	if diff := out.Segments[0].NoSpeechProb - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("no_speech_prob = %v, want %v", out.Segments[0].NoSpeechProb, want)
	}

	joined := strings.Join(gotArgs, " ")
	for _, part := range []string{"-f " + audioPath, "-l en", "--no-gpu", "--output-json-full"} {
		if !strings.Contains(joined, part) {
			t.Fatalf("args missing %q: %v", part, gotArgs)
		}
	}

	// The JSON output file is cleaned up after parsing.
	if _, err := os.Stat(filepath.Join(audioDir, "speech.json")); !os.IsNotExist(err) {
		t.Fatal("json output file should be removed")
	}
}

func TestTranscribeAutoLanguage(t *testing.T) {
	engine := newTestEngine(t)
	audioDir := t.TempDir()
	audioPath := filepath.Join(audioDir, "speech.wav")

	engine.WithCommandRunner(func(_ context.Context, _ string, args ...string) error {
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "-l auto") {
			t.Fatalf("args missing auto language: %v", args)
		}
		payload := `{"result": {"language": "fr"}, "transcription": [{"offsets": {"from": 0, "to": 1000}, "text": "bonjour"}]}`
		return os.WriteFile(filepath.Join(audioDir, "speech.json"), []byte(payload), 0o644)
	})

	handle, err := engine.Load(context.Background(), "base", "cpu")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := handle.Transcribe(context.Background(), audioPath, "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if out.Language != "fr" {
		t.Fatalf("language = %q", out.Language)
	}
}

func TestTranscribePropagatesCommandFailure(t *testing.T) {
	engine := newTestEngine(t)
	engine.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})

	handle, err := engine.Load(context.Background(), "base", "cpu")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := handle.Transcribe(context.Background(), "/tmp/speech.wav", ""); err == nil {
		t.Fatal("expected error")
	}
}
