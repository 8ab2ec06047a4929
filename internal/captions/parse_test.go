package captions

import "testing"

func TestParsePayloadJSON3(t *testing.T) {
	payload := `{
		"events": [
			{"segs": [{"utf8": "hello"}, {"utf8": "world"}]},
			{"segs": [{"utf8": "second\nevent"}]},
			{"tStartMs": 100}
		]
	}`
	got := ParsePayload(payload)
	want := "hello world second event"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParsePayloadJSON3Malformed(t *testing.T) {
	// Mentions "events" but is not valid JSON, so the timed-text path runs.
	payload := "\"events\" broken {\nactual spoken words here\n"
	got := ParsePayload(payload)
	if got == "" {
		t.Fatal("expected fallback text, got empty")
	}
}

func TestParsePayloadVTT(t *testing.T) {
	payload := "WEBVTT\nKind: captions\n\n" +
		"00:00:01.000 --> 00:00:04.000\n" +
		"<c.colorE5E5E5>welcome to</c> the show\n\n" +
		"00:00:04.000 --> 00:00:07.000\n" +
		"today we talk about go\n"
	got := ParsePayload(payload)
	want := "welcome to the show today we talk about go"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParsePayloadSRT(t *testing.T) {
	payload := "1\n00:00:01,000 --> 00:00:04,000\nfirst line\n\n" +
		"2\n00:00:04,000 --> 00:00:07,000\nsecond line\n"
	got := ParsePayload(payload)
	want := "first line second line"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParsePayloadEmpty(t *testing.T) {
	if got := ParsePayload(""); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
