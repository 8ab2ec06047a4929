package audio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"scribe/internal/logging"
)

// PurgeResult contains the outcome of a stale audio sweep.
type PurgeResult struct {
	Removed []string
	Errors  []PurgeError
	Skipped bool
}

// PurgeError pairs a file path with its removal error.
type PurgeError struct {
	Path  string
	Error error
}

// PurgeOlderThan removes WAV files in the working directory whose
// modification time is older than maxAge. The sweep runs under a file lock
// so concurrent invocations do not race; when the lock is already held the
// sweep is skipped. Per-file failures are collected, never fatal.
func (e *Extractor) PurgeOlderThan(ctx context.Context, maxAge time.Duration) PurgeResult {
	result := PurgeResult{}

	dir := strings.TrimSpace(e.dir)
	if dir == "" {
		return result
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Errors = append(result.Errors, PurgeError{Path: dir, Error: err})
		return result
	}

	lock := flock.New(filepath.Join(dir, ".purge.lock"))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		result.Skipped = true
		e.logger.Debug("purge sweep already running, skipping",
			logging.String("dir", dir),
		)
		return result
	}
	defer lock.Unlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Errors = append(result.Errors, PurgeError{Path: dir, Error: err})
		return result
	}

	cutoff := e.now().Add(-maxAge)

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".wav") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, PurgeError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, PurgeError{Path: path, Error: err})
			e.logger.Warn("failed to remove stale audio file",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "audio_purge_failed"),
				logging.String(logging.FieldErrorHint, "check audio_dir permissions"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		e.logger.Info("removed stale audio file",
			logging.String("path", path),
			logging.Duration("age", e.now().Sub(info.ModTime())),
			logging.String(logging.FieldEventType, "audio_purge"),
		)
	}

	return result
}
