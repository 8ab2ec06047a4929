// Package asr runs speech recognition over extracted audio files. It keeps
// at most one loaded model in memory and wraps engine backends behind a
// small load/transcribe contract.
package asr

import "context"

// Segment is one time-aligned piece of recognized speech.
type Segment struct {
	Start        float64
	End          float64
	Text         string
	NoSpeechProb float64
}

// Output is the raw result an engine backend produces.
type Output struct {
	Text     string
	Language string
	Segments []Segment
}

// Handle is a loaded model ready to transcribe. Close releases whatever
// resources the backend holds for it.
type Handle interface {
	Transcribe(ctx context.Context, path, language string) (*Output, error)
	Close() error
}

// Engine constructs model handles. Implementations live under
// internal/services (whispercli, openaiasr).
type Engine interface {
	Load(ctx context.Context, size, device string) (Handle, error)
}
