// Package whispercli runs speech recognition through the whisper.cpp
// command line tool.
package whispercli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scribe/internal/asr"
	"scribe/internal/config"
	"scribe/internal/services"
)

// DefaultBinary is the whisper.cpp executable name.
const DefaultBinary = "whisper-cli"

// Engine locates model weights on disk and shells out to whisper-cli.
type Engine struct {
	binary        string
	modelDir      string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewEngine creates an engine using the configured binary and model
// directory.
func NewEngine(cfg *config.Config) *Engine {
	binary := cfg.ASR.WhisperBinary
	if binary == "" {
		binary = DefaultBinary
	}
	return &Engine{
		binary:   binary,
		modelDir: cfg.ASR.ModelDir,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Engine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// Load verifies the requested model weights exist and returns a handle
// bound to them. whisper-cli loads the weights on each invocation, so the
// handle itself holds no memory.
func (e *Engine) Load(ctx context.Context, size, device string) (asr.Handle, error) {
	modelPath := filepath.Join(e.modelDir, fmt.Sprintf("ggml-%s.bin", size))
	if _, err := os.Stat(modelPath); err != nil {
		return nil, services.NewError(services.KindModelLoadFailure,
			fmt.Sprintf("model weights not found at %s", modelPath), err)
	}
	return &handle{engine: e, modelPath: modelPath, device: device}, nil
}

type handle struct {
	engine    *Engine
	modelPath string
	device    string
}

// Transcribe runs whisper-cli over the audio file and parses its JSON
// output file.
func (h *handle) Transcribe(ctx context.Context, path, lang string) (*asr.Output, error) {
	outPrefix := strings.TrimSuffix(path, filepath.Ext(path))
	args := h.buildArgs(path, outPrefix, lang)

	if err := h.engine.run(ctx, args...); err != nil {
		return nil, fmt.Errorf("whisper-cli: %w", err)
	}

	jsonPath := outPrefix + ".json"
	defer os.Remove(jsonPath)
	return loadOutput(jsonPath)
}

// Close is a no-op: whisper-cli holds no resources between invocations.
func (h *handle) Close() error {
	return nil
}

func (h *handle) buildArgs(source, outPrefix, lang string) []string {
	args := []string{
		"-m", h.modelPath,
		"-f", source,
		"--output-json-full",
		"-of", outPrefix,
		"--no-prints",
	}
	if lang != "" {
		args = append(args, "-l", lang)
	} else {
		args = append(args, "-l", "auto")
	}
	if h.device != "cuda" {
		args = append(args, "--no-gpu")
	}
	return args
}

// run executes whisper-cli, using the custom runner if set.
func (e *Engine) run(ctx context.Context, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, e.binary, args...)
	}
	cmd := exec.CommandContext(ctx, e.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", e.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// jsonPayload is the JSON structure whisper-cli writes with
// --output-json-full.
type jsonPayload struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text   string  `json:"text"`
		Tokens []token `json:"tokens"`
	} `json:"transcription"`
}

type token struct {
	P float64 `json:"p"`
}

// loadOutput parses a whisper-cli JSON output file into engine output.
// Segment no-speech probability is approximated as the inverse of the mean
// token probability.
func loadOutput(jsonPath string) (*asr.Output, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	var payload jsonPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	out := &asr.Output{Language: payload.Result.Language}
	var parts []string
	for _, seg := range payload.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		out.Segments = append(out.Segments, asr.Segment{
			Start:        float64(seg.Offsets.From) / 1000,
			End:          float64(seg.Offsets.To) / 1000,
			Text:         text,
			NoSpeechProb: noSpeechProb(seg.Tokens),
		})
	}
	out.Text = strings.Join(parts, " ")
	return out, nil
}

func noSpeechProb(tokens []token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var sum float64
	for _, tok := range tokens {
		sum += tok.P
	}
	return 1 - sum/float64(len(tokens))
}
