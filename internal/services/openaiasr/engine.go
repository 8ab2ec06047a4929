// Package openaiasr runs speech recognition through the OpenAI Whisper API.
package openaiasr

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"scribe/internal/asr"
	"scribe/internal/services"
)

// transcriptionClient is the slice of the OpenAI client the engine uses.
type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Engine sends audio files to the hosted Whisper model. The size and device
// parameters of the engine contract are ignored: the API serves one model.
type Engine struct {
	apiKey string
	client transcriptionClient
}

// NewEngine creates an engine using the given API key.
func NewEngine(apiKey string) *Engine {
	return &Engine{apiKey: apiKey}
}

// WithClient sets a custom API client (for testing).
func (e *Engine) WithClient(client transcriptionClient) {
	e.client = client
}

// Load validates the credentials and returns a handle. No model weights are
// pulled locally.
func (e *Engine) Load(ctx context.Context, size, device string) (asr.Handle, error) {
	if e.apiKey == "" {
		return nil, services.Errorf(services.KindModelLoadFailure, "OpenAI API key is not configured")
	}
	client := e.client
	if client == nil {
		client = openai.NewClient(e.apiKey)
	}
	return &handle{client: client}, nil
}

type handle struct {
	client transcriptionClient
}

// Transcribe uploads the audio file and requests a verbose JSON
// transcription so segment probabilities come back with the text.
func (h *handle) Transcribe(ctx context.Context, path, lang string) (*asr.Output, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: lang,
	}
	resp, err := h.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classifyAPIError(err)
	}

	out := &asr.Output{
		Text:     resp.Text,
		Language: resp.Language,
	}
	for _, seg := range resp.Segments {
		out.Segments = append(out.Segments, asr.Segment{
			Start:        seg.Start,
			End:          seg.End,
			Text:         seg.Text,
			NoSpeechProb: seg.NoSpeechProb,
		})
	}
	return out, nil
}

// Close is a no-op: the handle holds no local resources.
func (h *handle) Close() error {
	return nil
}

// classifyAPIError buckets API failures into the error taxonomy.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return services.NewError(services.KindModelLoadFailure, "OpenAI API rejected the configured key", err)
		case apiErr.HTTPStatusCode == 429:
			return services.NewError(services.KindResourceExhausted, "OpenAI API rate limit exceeded", err)
		case apiErr.HTTPStatusCode >= 500:
			return services.NewError(services.KindNetworkFailure, "OpenAI API is unavailable", err)
		default:
			return services.NewError(services.KindTranscriptionFailed,
				fmt.Sprintf("OpenAI API error (status %d)", apiErr.HTTPStatusCode), err)
		}
	}
	if kind := services.ClassifyGeneric(err.Error()); kind != services.KindUnknown {
		return services.NewError(kind, "transcription request failed", err)
	}
	return services.NewError(services.KindTranscriptionFailed, "transcription request failed", err)
}
