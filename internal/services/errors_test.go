package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"scribe/internal/services"
)

func TestErrorMessageIncludesKindAndDetail(t *testing.T) {
	inner := errors.New("exit status 1")
	err := services.NewError(services.KindNetworkFailure, "yt-dlp fetch failed", inner)
	msg := err.Error()
	if !strings.Contains(msg, "network_failure") {
		t.Fatalf("missing kind in %q", msg)
	}
	if !strings.Contains(msg, "yt-dlp fetch failed") {
		t.Fatalf("missing detail in %q", msg)
	}
	if !errors.Is(err, inner) {
		t.Fatal("wrapped error not reachable via errors.Is")
	}
}

func TestIsUserFault(t *testing.T) {
	cases := []struct {
		kind services.Kind
		want bool
	}{
		{services.KindInvalidSource, true},
		{services.KindDurationOutOfRange, true},
		{services.KindAudioFormatInvalid, true},
		{services.KindNetworkFailure, false},
		{services.KindDiskSpaceExhausted, false},
		{services.KindFileSystemPermission, false},
		{services.KindModelLoadFailure, false},
		{services.KindTranscriptionTimeout, false},
		{services.KindResourceExhausted, false},
		{services.KindTranscriptionFailed, false},
	}
	for _, tc := range cases {
		err := services.Errorf(tc.kind, "detail")
		if got := services.IsUserFault(err); got != tc.want {
			t.Fatalf("IsUserFault(%v) = %v, want %v", tc.kind, got, tc.want)
		}
	}
	if services.IsUserFault(errors.New("plain")) {
		t.Fatal("plain errors are never user faults")
	}
}

func TestUserMessageNeverLeaksTechnicalDetail(t *testing.T) {
	secrets := []string{"/var/lib/scribe/audio", "203.0.113.7", "yt-dlp"}
	for kind := services.KindInvalidSource; kind <= services.KindCleaningFailed; kind++ {
		err := services.Errorf(kind, "failed at %s from %s via %s", secrets[0], secrets[1], secrets[2])
		msg := services.UserMessage(err)
		for _, secret := range secrets {
			if strings.Contains(msg, secret) {
				t.Fatalf("kind %v user message leaks %q: %q", kind, secret, msg)
			}
		}
		if msg == "" {
			t.Fatalf("kind %v produced empty user message", kind)
		}
	}
}

func TestDurationErrorEmbedsLimits(t *testing.T) {
	err := services.NewDurationError(20000, 1, 14400)
	msg := err.UserMessage()
	if !strings.Contains(msg, "1") || !strings.Contains(msg, "14400") {
		t.Fatalf("duration limits missing from %q", msg)
	}
	if strings.Contains(msg, "20000") {
		t.Fatalf("observed duration should not appear in %q", msg)
	}
}

func TestUserMessageWrappedClassifiedError(t *testing.T) {
	inner := services.Errorf(services.KindModelLoadFailure, "ggml-base.bin missing")
	wrapped := fmt.Errorf("transcribe stage: %w", inner)
	msg := services.UserMessage(wrapped)
	if strings.Contains(msg, "ggml") {
		t.Fatalf("technical detail leaked: %q", msg)
	}
	if msg != services.UserMessage(inner) {
		t.Fatal("wrapping changed the user message")
	}
}

func TestClassifyGeneric(t *testing.T) {
	cases := []struct {
		message string
		want    services.Kind
	}{
		{"Connection reset by peer", services.KindNetworkFailure},
		{"request timed out", services.KindNetworkFailure},
		{"permission denied", services.KindFileSystemPermission},
		{"cannot allocate memory", services.KindResourceExhausted},
		{"video not found", services.KindInvalidSource},
		{"invalid data found when processing input", services.KindAudioFormatInvalid},
		{"something inexplicable", services.KindUnknown},
	}
	for _, tc := range cases {
		if got := services.ClassifyGeneric(tc.message); got != tc.want {
			t.Fatalf("ClassifyGeneric(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}

func TestKindClassGrouping(t *testing.T) {
	if services.KindDiskSpaceExhausted.Class() != services.ClassExtraction {
		t.Fatal("disk space should be an extraction failure")
	}
	if services.KindTranscriptionTimeout.Class() != services.ClassSpeechEngine {
		t.Fatal("timeout should be a speech engine failure")
	}
	if services.KindCleaningFailed.Class() != services.ClassCleaning {
		t.Fatal("cleaning kind should map to cleaning class")
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", services.Errorf(services.KindInvalidSource, "bad url"))
	if !errors.Is(err, &services.Error{Kind: services.KindInvalidSource}) {
		t.Fatal("errors.Is should match on kind")
	}
	if errors.Is(err, &services.Error{Kind: services.KindNetworkFailure}) {
		t.Fatal("errors.Is matched the wrong kind")
	}
}
