package asr

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/services"
)

func writeWAV(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speech.wav")
	payload := append([]byte("RIFF"), bytes.Repeat([]byte{0}, size)...)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestTranscriber(engine *fakeEngine) *Transcriber {
	cfg := config.Default()
	cache := NewModelCache(engine, logging.NewNop())
	tr := NewTranscriber(&cfg, cache, logging.NewNop())
	tr.WithDetector(func(string) (string, bool) { return "", false })
	return tr
}

func TestTranscribeSuccess(t *testing.T) {
	engine := &fakeEngine{output: &Output{
		Text:     "  hello from the talk  ",
		Language: "en",
		Segments: []Segment{
			{Start: 0, End: 2, Text: "hello", NoSpeechProb: 0.1},
			{Start: 2, End: 4, Text: "from the talk", NoSpeechProb: 0.3},
		},
	}}
	tr := newTestTranscriber(engine)

	result, err := tr.Transcribe(context.Background(), writeWAV(t, 4096), "en")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Text != "hello from the talk" {
		t.Fatalf("text = %q", result.Text)
	}
	if result.Language != "en" {
		t.Fatalf("language = %q", result.Language)
	}
	want := 1.0 - (0.1+0.3)/2
	if diff := result.Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("confidence = %v, want %v", result.Confidence, want)
	}
}

func TestTranscribeNeutralConfidenceWithoutSegments(t *testing.T) {
	engine := &fakeEngine{output: &Output{Text: "words", Language: "en"}}
	tr := newTestTranscriber(engine)

	result, err := tr.Transcribe(context.Background(), writeWAV(t, 4096), "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Confidence != 0.5 {
		t.Fatalf("confidence = %v, want 0.5", result.Confidence)
	}
}

func TestTranscribeDiscardsUnsupportedLanguage(t *testing.T) {
	engine := &fakeEngine{output: &Output{Text: "words", Language: "en"}}
	tr := newTestTranscriber(engine)

	if _, err := tr.Transcribe(context.Background(), writeWAV(t, 4096), "xx"); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if engine.lastLang != "" {
		t.Fatalf("engine got language %q, want auto-detect", engine.lastLang)
	}
}

func TestTranscribeEmptyTextFails(t *testing.T) {
	engine := &fakeEngine{output: &Output{Text: "   ", Language: "en"}}
	tr := newTestTranscriber(engine)

	_, err := tr.Transcribe(context.Background(), writeWAV(t, 4096), "")
	if services.KindOf(err) != services.KindTranscriptionFailed {
		t.Fatalf("expected transcription failure, got %v", err)
	}
}

func TestTranscribeTimeout(t *testing.T) {
	engine := &fakeEngine{output: &Output{Text: "words"}}
	cfg := config.Default()
	cfg.ASR.TimeoutSeconds = 0 // deadline expires before the engine runs
	cache := NewModelCache(engine, logging.NewNop())
	tr := NewTranscriber(&cfg, cache, logging.NewNop())

	_, err := tr.Transcribe(context.Background(), writeWAV(t, 4096), "")
	if services.KindOf(err) != services.KindTranscriptionTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestTranscribeAudioValidation(t *testing.T) {
	engine := &fakeEngine{output: &Output{Text: "words"}}
	tr := newTestTranscriber(engine)
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.wav")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	tiny := filepath.Join(dir, "tiny.wav")
	if err := os.WriteFile(tiny, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	corrupt := filepath.Join(dir, "corrupt.wav")
	if err := os.WriteFile(corrupt, bytes.Repeat([]byte("garbage "), 512), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope.wav")},
		{"empty", empty},
		{"tiny", tiny},
		{"corrupt header", corrupt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tr.Transcribe(context.Background(), tc.path, "")
			if services.KindOf(err) != services.KindAudioFormatInvalid {
				t.Fatalf("expected audio format error, got %v", err)
			}
			if !services.IsUserFault(err) {
				t.Fatal("audio format errors are user faults")
			}
		})
	}
	if engine.loads != 0 {
		t.Fatalf("model loaded despite invalid audio: %d", engine.loads)
	}
}

func TestTranscribeDetectsLanguageWhenMissing(t *testing.T) {
	engine := &fakeEngine{output: &Output{Text: "bonjour tout le monde"}}
	tr := newTestTranscriber(engine)
	tr.WithDetector(func(text string) (string, bool) { return "fr", true })

	result, err := tr.Transcribe(context.Background(), writeWAV(t, 4096), "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Language != "fr" {
		t.Fatalf("language = %q, want fr", result.Language)
	}
}
