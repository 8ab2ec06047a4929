// Package ytdlp wraps the yt-dlp command line tool for metadata lookup and
// audio downloads.
package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"scribe/internal/services"
)

// DefaultBinary is the yt-dlp executable name.
const DefaultBinary = "yt-dlp"

// CaptionTrack describes one downloadable caption rendition.
type CaptionTrack struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Metadata is the subset of yt-dlp --dump-json output the pipeline needs.
type Metadata struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Duration          float64                   `json:"duration"`
	Language          string                    `json:"language"`
	WebpageURL        string                    `json:"webpage_url"`
	Subtitles         map[string][]CaptionTrack `json:"subtitles"`
	AutomaticCaptions map[string][]CaptionTrack `json:"automatic_captions"`
}

// Client invokes yt-dlp.
type Client struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient creates a yt-dlp client using the given executable name.
func NewClient(binary string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.commandRunner = runner
}

// run executes yt-dlp, using the custom runner if set.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.binary, args...)
	}
	cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", c.binary, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// FetchMetadata retrieves video metadata without downloading media.
func (c *Client) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	output, err := c.run(ctx,
		"--dump-json",
		"--no-download",
		"--no-warnings",
		"--no-playlist",
		url,
	)
	if err != nil {
		return nil, classifyFetchError(err)
	}

	var meta Metadata
	if err := json.Unmarshal(output, &meta); err != nil {
		return nil, services.NewError(services.KindInvalidSource, "unable to extract video information", err)
	}
	if meta.ID == "" {
		return nil, services.Errorf(services.KindInvalidSource, "unable to extract video information")
	}
	return &meta, nil
}

// DownloadAudio downloads the best audio stream and transcodes it to a mono
// 16 kHz 16-bit PCM WAV file at dest. dest must end in .wav.
func (c *Client) DownloadAudio(ctx context.Context, url, dest string) error {
	template := strings.TrimSuffix(dest, ".wav") + ".%(ext)s"
	_, err := c.run(ctx,
		"-f", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "wav",
		"--postprocessor-args", "ffmpeg:-ar 16000 -ac 1 -c:a pcm_s16le",
		"--no-playlist",
		"--no-warnings",
		"-o", template,
		url,
	)
	if err != nil {
		return classifyDownloadError(err)
	}
	return nil
}

// classifyFetchError buckets metadata lookup failures by the tool's output.
func classifyFetchError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not available"), strings.Contains(msg, "private"):
		return services.NewError(services.KindInvalidSource, "video is not available or is private", err)
	case strings.Contains(msg, "network"), strings.Contains(msg, "connection"):
		return services.NewError(services.KindNetworkFailure, "network error while fetching video info", err)
	default:
		return services.NewError(services.KindInvalidSource, "invalid URL or video unavailable", err)
	}
}

// classifyDownloadError buckets download failures by the tool's output.
func classifyDownloadError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not available"), strings.Contains(msg, "private"):
		return services.NewError(services.KindInvalidSource, "video is not available or is private", err)
	case strings.Contains(msg, "network"), strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return services.NewError(services.KindNetworkFailure, "network error during download", err)
	default:
		return services.NewError(services.KindExtractionFailed, "download failed", err)
	}
}
