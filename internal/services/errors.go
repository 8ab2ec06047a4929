package services

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a failure category within the acquisition pipeline.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidSource
	KindDurationOutOfRange
	KindNetworkFailure
	KindDiskSpaceExhausted
	KindFileSystemPermission
	KindExtractionFailed
	KindModelLoadFailure
	KindTranscriptionTimeout
	KindAudioFormatInvalid
	KindResourceExhausted
	KindTranscriptionFailed
	KindCleaningFailed
)

// Class groups kinds by the pipeline stage that raises them.
type Class int

const (
	ClassUnknown Class = iota
	ClassExtraction
	ClassSpeechEngine
	ClassCleaning
)

func (k Kind) String() string {
	switch k {
	case KindInvalidSource:
		return "invalid_source"
	case KindDurationOutOfRange:
		return "duration_out_of_range"
	case KindNetworkFailure:
		return "network_failure"
	case KindDiskSpaceExhausted:
		return "disk_space_exhausted"
	case KindFileSystemPermission:
		return "filesystem_permission"
	case KindExtractionFailed:
		return "extraction_failed"
	case KindModelLoadFailure:
		return "model_load_failure"
	case KindTranscriptionTimeout:
		return "transcription_timeout"
	case KindAudioFormatInvalid:
		return "audio_format_invalid"
	case KindResourceExhausted:
		return "resource_exhausted"
	case KindTranscriptionFailed:
		return "transcription_failed"
	case KindCleaningFailed:
		return "cleaning_failed"
	default:
		return "unknown"
	}
}

// Class reports which stage family the kind belongs to.
func (k Kind) Class() Class {
	switch k {
	case KindInvalidSource, KindDurationOutOfRange, KindNetworkFailure,
		KindDiskSpaceExhausted, KindFileSystemPermission, KindExtractionFailed:
		return ClassExtraction
	case KindModelLoadFailure, KindTranscriptionTimeout, KindAudioFormatInvalid,
		KindResourceExhausted, KindTranscriptionFailed:
		return ClassSpeechEngine
	case KindCleaningFailed:
		return ClassCleaning
	default:
		return ClassUnknown
	}
}

// Error carries a technical message for logs alongside a fixed user-safe
// message selected by kind. Technical details never reach UserMessage; the
// one exception is the duration gate, whose numeric limits are embedded via
// NewDurationError.
type Error struct {
	Kind       Kind
	Message    string
	userDetail string
	Err        error
}

// NewError builds a classified error. message is the technical detail and may
// contain paths, hosts, and tool output.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Errorf builds a classified error with a formatted technical message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewDurationError reports a duration outside the accepted window. The limits
// appear in both the technical and the user-facing message.
func NewDurationError(seconds float64, minSeconds, maxSeconds int) *Error {
	detail := fmt.Sprintf("video duration must be between %d and %d seconds", minSeconds, maxSeconds)
	return &Error{
		Kind:       KindDurationOutOfRange,
		Message:    fmt.Sprintf("duration %.1fs outside [%d, %d]", seconds, minSeconds, maxSeconds),
		userDetail: detail,
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if msg := strings.TrimSpace(e.Message); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match against a bare *Error carrying only a kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// UserMessage returns the canned user-safe phrase for the error kind.
func (e *Error) UserMessage() string {
	if e.userDetail != "" {
		return e.userDetail
	}
	return userMessageForKind(e.Kind)
}

func userMessageForKind(kind Kind) string {
	switch kind {
	case KindInvalidSource:
		return "Please provide a valid video URL. The video may be private or unavailable."
	case KindDurationOutOfRange:
		return "Video duration is outside the supported range. Please try a different video."
	case KindNetworkFailure:
		return "Network error occurred. Please check your connection and try again."
	case KindDiskSpaceExhausted:
		return "Server storage is full. Please contact the administrator."
	case KindFileSystemPermission:
		return "File system error occurred. Please contact the administrator."
	case KindExtractionFailed:
		return "Audio could not be extracted from this video. Please try a different video."
	case KindModelLoadFailure:
		return "Transcription service is temporarily unavailable. Please try again later."
	case KindTranscriptionTimeout:
		return "Transcription timed out. The video may be too long. Please try a shorter video."
	case KindAudioFormatInvalid:
		return "Audio file is corrupted or invalid. Please try a different video."
	case KindResourceExhausted:
		return "Video is too large to process. Please try a shorter video."
	case KindTranscriptionFailed:
		return "No speech could be transcribed from this video."
	case KindCleaningFailed:
		return "Failed to process transcript text. The content may be invalid."
	default:
		return "An unexpected error occurred. Please try again or contact support."
	}
}

// KindOf extracts the classified kind from an error chain.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnknown
}

// IsUserFault reports whether the failure was caused by the input rather than
// the system. Only invalid sources, out-of-range durations, and undecodable
// audio count.
func IsUserFault(err error) bool {
	switch KindOf(err) {
	case KindInvalidSource, KindDurationOutOfRange, KindAudioFormatInvalid:
		return true
	default:
		return false
	}
}

// UserMessage maps any error to a message safe to show outside the system.
// Classified errors use their canned phrase; everything else goes through the
// keyword fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.UserMessage()
	}
	return userMessageForKind(ClassifyGeneric(err.Error()))
}

// ClassifyGeneric buckets an unclassified error message into a kind by
// keyword family. Matching is case-insensitive; the first family that hits
// wins.
func ClassifyGeneric(message string) Kind {
	lower := strings.ToLower(message)
	contains := func(keys ...string) bool {
		for _, key := range keys {
			if strings.Contains(lower, key) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("network", "connection", "timed out", "timeout"):
		return KindNetworkFailure
	case contains("permission", "access denied"):
		return KindFileSystemPermission
	case contains("memory", "out of memory"):
		return KindResourceExhausted
	case contains("not found", "unavailable", "does not exist"):
		return KindInvalidSource
	case contains("invalid", "corrupt", "malformed"):
		return KindAudioFormatInvalid
	default:
		return KindUnknown
	}
}
