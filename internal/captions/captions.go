// Package captions fetches pre-existing caption tracks for a video and
// parses their payloads into plain text.
package captions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"scribe/internal/logging"
	"scribe/internal/services/ytdlp"
)

// SufficientChars is the minimum length a parsed caption text must exceed
// before it counts as a usable transcript.
const SufficientChars = 100

// maxPayloadBytes caps how much of a caption payload is read.
const maxPayloadBytes = 16 << 20

// Track describes one downloadable caption rendition.
type Track struct {
	Format string
	URL    string
	Name   string
}

// Listing is the caption inventory for a single video, together with the
// metadata the fallback tiers need.
type Listing struct {
	ID              string
	Title           string
	Description     string
	DurationSeconds float64
	Language        string
	Manual          map[string][]Track
	Automatic       map[string][]Track
}

// MetadataClient is the subset of the yt-dlp client the caption stage uses.
type MetadataClient interface {
	FetchMetadata(ctx context.Context, url string) (*ytdlp.Metadata, error)
}

// Source lists and downloads caption tracks.
type Source struct {
	client MetadataClient
	http   *http.Client
	logger *slog.Logger
}

// NewSource creates a caption source backed by the given metadata client.
func NewSource(client MetadataClient, logger *slog.Logger) *Source {
	return &Source{
		client: client,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logging.NewComponentLogger(logger, "captions"),
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func (s *Source) WithHTTPClient(client *http.Client) {
	s.http = client
}

// Fetch looks up the video's metadata and caption inventory without
// downloading any media.
func (s *Source) Fetch(ctx context.Context, ref string) (*Listing, error) {
	meta, err := s.client.FetchMetadata(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &Listing{
		ID:              meta.ID,
		Title:           meta.Title,
		Description:     meta.Description,
		DurationSeconds: meta.Duration,
		Language:        meta.Language,
		Manual:          convertTracks(meta.Subtitles),
		Automatic:       convertTracks(meta.AutomaticCaptions),
	}, nil
}

// Resolve downloads and parses caption tracks for the given language,
// automatic tracks first, then manual ones. The first parsed text longer
// than SufficientChars wins. The boolean reports whether usable text was
// found; download or parse failures on individual tracks are logged and
// skipped, never fatal.
func (s *Source) Resolve(ctx context.Context, listing *Listing, lang string) (string, bool) {
	log := logging.WithContext(ctx, s.logger)

	// Automatic captions first: usually more complete than manual uploads.
	for _, track := range listing.Automatic[lang] {
		if track.Format != "json3" {
			continue
		}
		text, err := s.fetchAndParse(ctx, track.URL)
		if err != nil {
			log.Warn("failed to parse automatic caption track",
				logging.String("lang", lang),
				logging.Error(err),
			)
			continue
		}
		if Sufficient(text) {
			log.Debug("automatic captions resolved",
				logging.String("lang", lang),
				logging.Int("chars", len(text)),
			)
			return text, true
		}
	}

	for _, track := range listing.Manual[lang] {
		text, err := s.fetchAndParse(ctx, track.URL)
		if err != nil {
			log.Warn("failed to parse manual caption track",
				logging.String("lang", lang),
				logging.String("format", track.Format),
				logging.Error(err),
			)
			continue
		}
		if Sufficient(text) {
			log.Debug("manual captions resolved",
				logging.String("lang", lang),
				logging.Int("chars", len(text)),
			)
			return text, true
		}
	}

	return "", false
}

// Sufficient reports whether parsed caption text is long enough to serve
// as a transcript.
func Sufficient(text string) bool {
	return len(strings.TrimSpace(text)) > SufficientChars
}

func (s *Source) fetchAndParse(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build caption request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download caption track: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download caption track: status %d", resp.StatusCode)
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return "", fmt.Errorf("read caption payload: %w", err)
	}
	return ParsePayload(string(payload)), nil
}

func convertTracks(in map[string][]ytdlp.CaptionTrack) map[string][]Track {
	out := make(map[string][]Track, len(in))
	for lang, tracks := range in {
		converted := make([]Track, 0, len(tracks))
		for _, t := range tracks {
			converted = append(converted, Track{Format: t.Ext, URL: t.URL, Name: t.Name})
		}
		out[lang] = converted
	}
	return out
}
