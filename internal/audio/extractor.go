// Package audio turns source videos into local WAV files suitable for
// speech recognition, enforcing disk, duration, and size policies.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/services/ytdlp"
)

// Asset describes one extracted audio file.
type Asset struct {
	Path            string
	DurationSeconds float64
	SizeBytes       int64
	VideoID         string
	Title           string
}

// SizeMB reports the asset size in megabytes.
func (a *Asset) SizeMB() float64 {
	return float64(a.SizeBytes) / (1024 * 1024)
}

// MediaClient is the subset of the yt-dlp client the extractor uses.
type MediaClient interface {
	FetchMetadata(ctx context.Context, url string) (*ytdlp.Metadata, error)
	DownloadAudio(ctx context.Context, url, dest string) error
}

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

// Extractor downloads and transcodes source audio into the working directory.
type Extractor struct {
	dir    string
	limits config.Limits
	client MediaClient
	logger *slog.Logger
	statfs statfsFunc
	now    func() time.Time
}

// NewExtractor creates an extractor bound to the configured working directory.
func NewExtractor(cfg *config.Config, client MediaClient, logger *slog.Logger) *Extractor {
	return &Extractor{
		dir:    cfg.Paths.AudioDir,
		limits: cfg.Limits,
		client: client,
		logger: logging.NewComponentLogger(logger, "audio"),
		statfs: realStatfs,
		now:    time.Now,
	}
}

// WithStatfs sets a custom filesystem stat function (for testing).
func (e *Extractor) WithStatfs(fn statfsFunc) {
	e.statfs = fn
}

// WithClock sets a custom time source (for testing).
func (e *Extractor) WithClock(now func() time.Time) {
	e.now = now
}

// Dir returns the extractor's working directory.
func (e *Extractor) Dir() string {
	return e.dir
}

// Extract runs the gated extraction sequence: working directory, disk space,
// metadata, duration bounds, download, output verification, size ceiling.
// It returns an Asset or a classified error.
func (e *Extractor) Extract(ctx context.Context, url string) (*Asset, error) {
	log := logging.WithContext(ctx, e.logger)
	log.Info("starting audio extraction", logging.String("url", url))

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, services.NewError(services.KindFileSystemPermission,
				fmt.Sprintf("permission denied creating %s", e.dir), err)
		}
		return nil, services.NewError(services.KindExtractionFailed,
			fmt.Sprintf("create working directory %s", e.dir), err)
	}

	if err := e.checkDiskSpace(log); err != nil {
		return nil, err
	}

	meta, err := e.client.FetchMetadata(ctx, url)
	if err != nil {
		return nil, err
	}
	log.Info("video info retrieved",
		logging.String(logging.FieldVideoID, meta.ID),
		logging.String("title", meta.Title),
		logging.Float64("duration_seconds", meta.Duration),
	)

	if err := e.validateDuration(meta.Duration); err != nil {
		return nil, err
	}

	dest := filepath.Join(e.dir, fmt.Sprintf("%s_%d.wav", meta.ID, e.now().Unix()))
	log.Info("downloading audio", logging.String("path", dest))

	if err := e.client.DownloadAudio(ctx, url, dest); err != nil {
		return nil, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, services.NewError(services.KindExtractionFailed,
			fmt.Sprintf("audio file was not created at expected path %s", dest), err)
	}

	maxBytes := int64(e.limits.MaxAudioFileSizeMB) * 1024 * 1024
	if info.Size() > maxBytes {
		// Remove the oversize output before failing so it cannot linger.
		_ = os.Remove(dest)
		return nil, services.Errorf(services.KindExtractionFailed,
			"audio file too large (%.1fMB), maximum allowed %dMB",
			float64(info.Size())/(1024*1024), e.limits.MaxAudioFileSizeMB)
	}

	asset := &Asset{
		Path:            dest,
		DurationSeconds: meta.Duration,
		SizeBytes:       info.Size(),
		VideoID:         meta.ID,
		Title:           meta.Title,
	}
	log.Info("audio extraction successful",
		logging.String("path", asset.Path),
		logging.Float64("size_mb", asset.SizeMB()),
		logging.Float64("duration_seconds", asset.DurationSeconds),
	)
	return asset, nil
}

// checkDiskSpace fails when free space in the working directory drops below
// the configured floor. A missing statfs primitive downgrades to a warning.
func (e *Extractor) checkDiskSpace(log *slog.Logger) error {
	_, free, err := e.statfs(e.dir)
	if err != nil {
		log.Warn("could not check disk space",
			logging.Error(err),
			logging.String(logging.FieldEventType, "disk_space_check_skipped"),
		)
		return nil
	}
	freeMB := float64(free) / (1024 * 1024)
	requiredMB := float64(e.limits.MinFreeSpaceMB)
	if freeMB < requiredMB {
		return services.Errorf(services.KindDiskSpaceExhausted,
			"insufficient disk space: required %.0fMB, available %.1fMB", requiredMB, freeMB)
	}
	log.Debug("disk space check passed", logging.Float64("available_mb", freeMB))
	return nil
}

func (e *Extractor) validateDuration(seconds float64) error {
	min := e.limits.MinVideoDurationSeconds
	max := e.limits.MaxVideoDurationSeconds
	if seconds < float64(min) || seconds > float64(max) {
		return services.NewDurationError(seconds, min, max)
	}
	return nil
}

// Cleanup deletes an extracted audio file. A missing file counts as success.
func (e *Extractor) Cleanup(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err == nil {
		e.logger.Info("audio file deleted", logging.String("path", path))
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		e.logger.Debug("audio file already removed", logging.String("path", path))
		return nil
	}
	return fmt.Errorf("delete audio file %s: %w", path, err)
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}
