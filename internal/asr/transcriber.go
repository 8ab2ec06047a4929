package asr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scribe/internal/config"
	"scribe/internal/language"
	"scribe/internal/logging"
	"scribe/internal/services"
)

// minAudioBytes is smaller than any WAV file with real audio in it.
const minAudioBytes = 1024

// Result is a completed transcription.
type Result struct {
	Text       string
	Language   string
	Confidence float64
	Elapsed    time.Duration
}

// Transcriber validates audio input, acquires a model from the cache, and
// runs recognition under the configured timeout.
type Transcriber struct {
	cache     *ModelCache
	model     string
	device    string
	timeout   time.Duration
	supported []string
	logger    *slog.Logger
	detect    detectFunc
	now       func() time.Time
}

// NewTranscriber creates a transcriber using the configured model settings.
func NewTranscriber(cfg *config.Config, cache *ModelCache, logger *slog.Logger) *Transcriber {
	return &Transcriber{
		cache:     cache,
		model:     cfg.ASR.Model,
		device:    cfg.ASR.Device,
		timeout:   time.Duration(cfg.ASR.TimeoutSeconds) * time.Second,
		supported: cfg.Language.Supported,
		logger:    logging.NewComponentLogger(logger, "asr"),
		detect:    detectLanguage,
		now:       time.Now,
	}
}

// WithDetector sets a custom language detector (for testing).
func (t *Transcriber) WithDetector(fn func(text string) (string, bool)) {
	t.detect = fn
}

// Transcribe recognizes speech in the audio file at path. A requested
// language outside the supported set is discarded in favor of
// auto-detection. The whole call runs under the configured timeout.
func (t *Transcriber) Transcribe(ctx context.Context, path, lang string) (*Result, error) {
	log := logging.WithContext(ctx, t.logger)
	log.Info("starting transcription", logging.String("path", path))

	if err := validateAudioFile(path); err != nil {
		return nil, err
	}

	if lang != "" && !language.IsSupported(lang, t.supported) {
		log.Warn("unsupported language requested, falling back to auto-detection",
			logging.String("requested", lang),
		)
		lang = ""
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	handle, err := t.cache.Acquire(ctx, t.model, t.device)
	if err != nil {
		return nil, err
	}

	start := t.now()
	out, err := handle.Transcribe(ctx, path, lang)
	elapsed := t.now().Sub(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, services.Errorf(services.KindTranscriptionTimeout,
				"transcription timed out after %d seconds", int(t.timeout.Seconds()))
		}
		if services.KindOf(err) != services.KindUnknown {
			return nil, err
		}
		return nil, services.NewError(services.KindTranscriptionFailed, "transcription failed", err)
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return nil, services.Errorf(services.KindTranscriptionFailed,
			"transcription produced empty text, audio may be silent or unintelligible")
	}

	detected := language.ToISO2(out.Language)
	if detected == "" {
		if code, ok := t.detect(text); ok {
			log.Debug("language detected from text", logging.String("lang", code))
			detected = code
		}
	}

	result := &Result{
		Text:       text,
		Language:   detected,
		Confidence: confidence(out.Segments),
		Elapsed:    elapsed,
	}
	log.Info("transcription successful",
		logging.Int("chars", len(result.Text)),
		logging.String("lang", result.Language),
		logging.Float64("confidence", result.Confidence),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// confidence derives an aggregate score from segment no-speech
// probabilities. With no segments to judge, 0.5 is the neutral default.
func confidence(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0.5
	}
	var sum float64
	for _, seg := range segments {
		sum += seg.NoSpeechProb
	}
	score := 1.0 - sum/float64(len(segments))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// validateAudioFile rejects paths that cannot plausibly hold audio before
// any model work happens.
func validateAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.NewError(services.KindAudioFormatInvalid,
			fmt.Sprintf("audio file does not exist: %s", path), err)
	}
	if info.Size() == 0 {
		return services.Errorf(services.KindAudioFormatInvalid, "audio file is empty: %s", path)
	}
	if info.Size() < minAudioBytes {
		return services.Errorf(services.KindAudioFormatInvalid,
			"audio file too small to contain speech: %s (%d bytes)", path, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return services.NewError(services.KindAudioFormatInvalid,
			fmt.Sprintf("audio file is not readable: %s", path), err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		header := make([]byte, 4)
		if _, err := io.ReadFull(f, header); err != nil || string(header) != "RIFF" {
			return services.Errorf(services.KindAudioFormatInvalid,
				"audio file appears to be corrupted or invalid: %s", path)
		}
	}
	return nil
}
