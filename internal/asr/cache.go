package asr

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/services"
)

// ModelCache holds at most one loaded model handle, keyed by (size, device).
// Acquiring the same key returns the cached handle; a different key loads a
// new model and releases the previous one. Safe for concurrent use.
type ModelCache struct {
	mu     sync.Mutex
	engine Engine
	logger *slog.Logger

	handle Handle
	size   string
	device string
}

// NewModelCache creates an empty cache backed by the given engine.
func NewModelCache(engine Engine, logger *slog.Logger) *ModelCache {
	return &ModelCache{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "asr"),
	}
}

// Acquire returns a handle for the requested model, loading it if the cache
// holds a different key or nothing at all. Invalid sizes and devices fall
// back to defaults with a warning rather than failing.
func (c *ModelCache) Acquire(ctx context.Context, size, device string) (Handle, error) {
	size = c.normalizeSize(size)
	device = c.normalizeDevice(device)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil && c.size == size && c.device == device {
		c.logger.Debug("using cached speech model",
			logging.String("model", size),
			logging.String("device", device),
		)
		return c.handle, nil
	}

	c.logger.Info("loading speech model",
		logging.String("model", size),
		logging.String("device", device),
	)
	handle, err := c.engine.Load(ctx, size, device)
	if err != nil {
		if services.KindOf(err) != services.KindUnknown {
			return nil, err
		}
		return nil, services.NewError(services.KindModelLoadFailure, "failed to load speech model", err)
	}

	c.releaseLocked()
	c.handle = handle
	c.size = size
	c.device = device
	return handle, nil
}

// Unload releases the cached model, if any. Safe to call when empty.
func (c *ModelCache) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		c.logger.Debug("no speech model loaded to unload")
		return
	}
	c.logger.Info("unloading speech model", logging.String("model", c.size))
	c.releaseLocked()
}

// Info reports whether a model is loaded and which key it was loaded under.
func (c *ModelCache) Info() (loaded bool, size, device string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil, c.size, c.device
}

func (c *ModelCache) releaseLocked() {
	if c.handle == nil {
		return
	}
	if err := c.handle.Close(); err != nil {
		c.logger.Warn("failed to release speech model", logging.Error(err))
	}
	c.handle = nil
	c.size = ""
	c.device = ""
}

func (c *ModelCache) normalizeSize(size string) string {
	size = strings.ToLower(strings.TrimSpace(size))
	if slices.Contains(config.ValidModels, size) {
		return size
	}
	if size != "" {
		c.logger.Warn("invalid model size, using base",
			logging.String("requested", size),
		)
	}
	return "base"
}

func (c *ModelCache) normalizeDevice(device string) string {
	device = strings.ToLower(strings.TrimSpace(device))
	if slices.Contains(config.ValidDevices, device) {
		return device
	}
	if device != "" {
		c.logger.Warn("invalid device, using cpu",
			logging.String("requested", device),
		)
	}
	return "cpu"
}
