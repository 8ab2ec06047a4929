// Package transcript orchestrates the tiered transcript acquisition flow:
// pre-existing captions first, speech recognition when captions are missing
// or too short, and the video description as a degraded fallback.
package transcript

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"scribe/internal/asr"
	"scribe/internal/audio"
	"scribe/internal/captions"
	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/services/openaiasr"
	"scribe/internal/services/whispercli"
	"scribe/internal/services/ytdlp"
	"scribe/internal/textnorm"
)

// Method identifies which tier produced a transcript.
type Method string

const (
	MethodCaptions    Method = "captions"
	MethodASR         Method = "asr"
	MethodDescription Method = "description"
	MethodNone        Method = "none"
)

// noTranscriptText is returned when every tier comes up empty.
const noTranscriptText = "No transcript or description available for this video. The video might not have captions enabled."

// Result is an immutable snapshot of one acquisition.
type Result struct {
	VideoID    string
	Title      string
	Text       string
	Method     Method
	Language   string
	Confidence float64
	Elapsed    time.Duration
}

type captionSource interface {
	Fetch(ctx context.Context, ref string) (*captions.Listing, error)
	Resolve(ctx context.Context, listing *captions.Listing, lang string) (string, bool)
}

type audioExtractor interface {
	Extract(ctx context.Context, url string) (*audio.Asset, error)
	Cleanup(path string) error
}

type speechTranscriber interface {
	Transcribe(ctx context.Context, path, lang string) (*asr.Result, error)
}

// Service runs acquisitions.
type Service struct {
	captions    captionSource
	extractor   audioExtractor
	transcriber speechTranscriber
	asrEnabled  bool
	autoCleanup bool
	cleanOpts   textnorm.Options
	language    string
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a service from explicit stage implementations.
func New(cfg *config.Config, source captionSource, extractor audioExtractor, transcriber speechTranscriber, logger *slog.Logger) *Service {
	return &Service{
		captions:    source,
		extractor:   extractor,
		transcriber: transcriber,
		asrEnabled:  cfg.ASR.Enabled,
		autoCleanup: cfg.Cleaning.AutoCleanupAudio,
		cleanOpts:   textnorm.Options{RemoveFillerWords: cfg.Cleaning.RemoveFillerWords},
		language:    cfg.Language.Default,
		logger:      logging.NewComponentLogger(logger, "transcript"),
		now:         time.Now,
	}
}

// NewFromConfig wires the full stage stack from configuration: yt-dlp
// client, caption source, audio extractor, and the configured speech
// engine behind a model cache.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Service {
	client := ytdlp.NewClient(cfg.YtdlpBinary())
	source := captions.NewSource(client, logger)
	extractor := audio.NewExtractor(cfg, client, logger)

	var engine asr.Engine
	if cfg.ASR.Engine == "openai" {
		engine = openaiasr.NewEngine(cfg.ASR.OpenAIAPIKey)
	} else {
		engine = whispercli.NewEngine(cfg)
	}
	cache := asr.NewModelCache(engine, logger)
	transcriber := asr.NewTranscriber(cfg, cache, logger)

	return New(cfg, source, extractor, transcriber, logger)
}

// Acquire resolves a transcript for the given video reference. Only hard
// failures with no usable fallback return an error; an empty outcome is
// reported as MethodNone with explanatory text.
func (s *Service) Acquire(ctx context.Context, ref string) (*Result, error) {
	ctx = services.WithRequestID(ctx, uuid.NewString())
	start := s.now()

	log := logging.WithContext(ctx, s.logger)
	log.Info("starting transcript acquisition", logging.String("ref", ref))

	finish := func(r Result) *Result {
		r.Elapsed = s.now().Sub(start)
		log.Info("transcript acquisition finished",
			logging.String(logging.FieldMethod, string(r.Method)),
			logging.Int("chars", len(r.Text)),
			logging.Duration("elapsed", r.Elapsed),
		)
		return &r
	}

	listing, err := s.captions.Fetch(ctx, ref)
	if err != nil {
		// A failed metadata lookup only means no captions; the audio
		// pipeline has its own download path and may still succeed.
		if !s.asrEnabled {
			return nil, err
		}
		log.Warn("caption lookup failed, attempting speech recognition",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.UserMessage(err)),
		)
		result, asset, terr := s.transcribe(ctx, ref)
		if terr != nil {
			return nil, terr
		}
		base := Result{VideoID: asset.VideoID, Title: asset.Title, Language: s.language}
		return finish(asrOutcome(base, result)), nil
	}
	ctx = services.WithVideoID(ctx, listing.ID)
	log = logging.WithContext(ctx, s.logger)

	lang := s.language
	if lang == "" {
		lang = listing.Language
	}
	if lang == "" {
		lang = "en"
	}

	base := Result{VideoID: listing.ID, Title: listing.Title, Language: lang}

	if text, ok := s.captions.Resolve(services.WithStage(ctx, "captions"), listing, lang); ok {
		r := base
		r.Text = text
		r.Method = MethodCaptions
		if listing.Language != "" {
			r.Language = listing.Language
		}
		return finish(r), nil
	}

	fallback, hasFallback := descriptionCandidate(listing.Description)

	if !s.asrEnabled {
		if hasFallback {
			log.Info("speech recognition disabled, using description")
			r := base
			r.Text = fallback
			r.Method = MethodDescription
			return finish(r), nil
		}
		r := base
		r.Text = noTranscriptText
		r.Method = MethodNone
		return finish(r), nil
	}

	result, _, err := s.transcribe(ctx, ref)
	if err != nil {
		if hasFallback {
			log.Warn("speech recognition failed, falling back to description",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, services.UserMessage(err)),
			)
			r := base
			r.Text = fallback
			r.Method = MethodDescription
			return finish(r), nil
		}
		return nil, err
	}

	return finish(asrOutcome(base, result)), nil
}

func asrOutcome(base Result, result *asr.Result) Result {
	base.Text = result.Text
	base.Method = MethodASR
	if result.Language != "" {
		base.Language = result.Language
	}
	base.Confidence = result.Confidence
	return base
}

// transcribe runs the extraction and recognition stages, deleting the
// audio file on every exit path when auto-cleanup is enabled.
func (s *Service) transcribe(ctx context.Context, ref string) (*asr.Result, *audio.Asset, error) {
	ctx = services.WithStage(ctx, "asr")
	asset, err := s.extractor.Extract(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if s.autoCleanup {
			if err := s.extractor.Cleanup(asset.Path); err != nil {
				s.logger.Warn("failed to clean up audio file", logging.Error(err))
			}
		}
	}()

	result, err := s.transcriber.Transcribe(ctx, asset.Path, s.language)
	if err != nil {
		return nil, nil, err
	}
	result.Text = textnorm.CleanWith(result.Text, s.cleanOpts)
	return result, asset, nil
}
