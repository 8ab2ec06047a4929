package textnorm

import (
	"strings"
	"testing"
)

func TestRemoveTimestamps(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"square brackets", "[00:01:02] hello", " hello"},
		{"short square", "[0:15] hello", " hello"},
		{"parentheses", "(01:30) hello", " hello"},
		{"srt cue", "00:00:01,000 --> 00:00:04,000\nhello", "\nhello"},
		{"angle brackets", "<00:00:01> hello", " hello"},
		{"line leading", "1:23 hello\n2:45 world", "hello\nworld"},
		{"no timestamps", "plain text", "plain text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RemoveTimestamps(tc.input); got != tc.want {
				t.Fatalf("RemoveTimestamps(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestRemoveFillerWords(t *testing.T) {
	got := RemoveFillerWords("Um I think this is, uh, you know, great")
	for _, filler := range []string{"Um", "uh", "you know"} {
		if strings.Contains(got, filler) {
			t.Fatalf("filler %q survived: %q", filler, got)
		}
	}
	if !strings.Contains(got, "think") || !strings.Contains(got, "great") {
		t.Fatalf("content words removed: %q", got)
	}
}

func TestFixSpacing(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"too  many   spaces", "too many spaces"},
		{"space before , comma", "space before, comma"},
		{"missing.space", "missing. space"},
		{"  edges  ", "edges"},
	}
	for _, tc := range cases {
		if got := FixSpacing(tc.input); got != tc.want {
			t.Fatalf("FixSpacing(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFixPunctuation(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"hello!! world", "Hello! World."},
		{"first. second sentence", "First. Second sentence."},
		{"no terminator", "No terminator."},
		{"already done.", "Already done."},
	}
	for _, tc := range cases {
		if got := FixPunctuation(tc.input); got != tc.want {
			t.Fatalf("FixPunctuation(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := NormalizeWhitespace("a\r\nb\r c\n\n\n\nd  ")
	want := "a\nb\n c\n\nd"
	if got != want {
		t.Fatalf("NormalizeWhitespace = %q, want %q", got, want)
	}
}

func TestCleanEmptyInput(t *testing.T) {
	if got := Clean(""); got != "" {
		t.Fatalf("Clean(\"\") = %q, want empty", got)
	}
}

func TestCleanShortResultReturnsOriginal(t *testing.T) {
	// Cleaning strips everything useful, so the trimmed input comes back.
	input := "  um uh  "
	if got := Clean(input); got != "um uh" {
		t.Fatalf("Clean(%q) = %q, want trimmed original", input, got)
	}
}

func TestCleanIdempotent(t *testing.T) {
	input := "[00:01] um so this is a, uh, transcript about  testing . it has issues"
	once := Clean(input)
	twice := Clean(once)
	if once != twice {
		t.Fatalf("Clean not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestCleanWithoutFillerRemoval(t *testing.T) {
	input := "um this transcript keeps every single word intact for review"
	got := CleanWith(input, Options{})
	if !strings.Contains(got, "um") {
		t.Fatalf("filler removed despite disabled option: %q", got)
	}
}

func TestCleanFullPipeline(t *testing.T) {
	input := "[00:00:01] so today we're going to talk about  golang . it's a great language!! really"
	got := Clean(input)
	if strings.Contains(got, "[") || strings.Contains(got, "00:00") {
		t.Fatalf("timestamps survived: %q", got)
	}
	if strings.Contains(got, "!!") {
		t.Fatalf("repeated punctuation survived: %q", got)
	}
	if got[len(got)-1] != '.' && got[len(got)-1] != '!' && got[len(got)-1] != '?' {
		t.Fatalf("missing terminal punctuation: %q", got)
	}
}
