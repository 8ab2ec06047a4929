// Package textnorm cleans and segments machine-generated transcripts.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var timestampPatterns = []*regexp.Regexp{
	// [00:00:00] and [0:00]
	regexp.MustCompile(`\[\d{1,2}:\d{2}(?::\d{2})?\]`),
	// (00:00)
	regexp.MustCompile(`\(\d{1,2}:\d{2}(?::\d{2})?\)`),
	// 00:00:00,000 --> 00:00:00,000
	regexp.MustCompile(`\d{2}:\d{2}:\d{2}(?:,\d{3})?\s*-->\s*\d{2}:\d{2}:\d{2}(?:,\d{3})?`),
	// <00:00:00>
	regexp.MustCompile(`<\d{1,2}:\d{2}(?::\d{2})?>`),
	// bare timestamp at start of line
	regexp.MustCompile(`(?m)^\d{1,2}:\d{2}(?::\d{2})?\s*`),
}

var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bum\b`),
	regexp.MustCompile(`(?i)\buh\b`),
	regexp.MustCompile(`(?i)\blike\b`),
	regexp.MustCompile(`(?i)\byou know\b`),
	regexp.MustCompile(`(?i)\bI mean\b`),
	regexp.MustCompile(`(?i)\bso\b`),
	regexp.MustCompile(`(?i)\bbasically\b`),
	regexp.MustCompile(`(?i)\bactually\b`),
	regexp.MustCompile(`(?i)\bliterally\b`),
	regexp.MustCompile(`(?i)\bkind of\b`),
	regexp.MustCompile(`(?i)\bsort of\b`),
	regexp.MustCompile(`(?i)\byeah\b`),
	regexp.MustCompile(`(?i)\bokay\b`),
	regexp.MustCompile(`(?i)\bwell\b`),
	regexp.MustCompile(`(?i)\bright\b`),
	regexp.MustCompile(`(?i)\balright\b`),
	regexp.MustCompile(`(?i)\bmm\b`),
	regexp.MustCompile(`(?i)\bhmm\b`),
	regexp.MustCompile(`(?i)\buh-huh\b`),
	regexp.MustCompile(`(?i)\buh huh\b`),
	regexp.MustCompile(`(?i)\bmm-hmm\b`),
	regexp.MustCompile(`(?i)\bmm hmm\b`),
}

var (
	multiSpace        = regexp.MustCompile(` {2,}`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([.,!?;:])`)
	punctThenLetter   = regexp.MustCompile(`([.,!?;:])([A-Za-z])`)
	lineEdgeSpace     = regexp.MustCompile(`(?m)^[ \t]+|[ \t]+$`)
	repeatedPunct     = regexp.MustCompile(`([.,!?;:]){2,}`)
	sentenceStart     = regexp.MustCompile(`([.!?]\s+)([a-z])`)
	excessiveNewlines = regexp.MustCompile(`\n{3,}`)
)

// Options controls optional cleanup behavior.
type Options struct {
	RemoveFillerWords bool
}

// RemoveTimestamps strips bracketed, cue-style, and line-leading timestamps.
func RemoveTimestamps(text string) string {
	for _, pattern := range timestampPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	return text
}

// RemoveFillerWords replaces common spoken filler words with spaces.
func RemoveFillerWords(text string) string {
	for _, pattern := range fillerPatterns {
		text = pattern.ReplaceAllString(text, " ")
	}
	return text
}

// FixSpacing collapses repeated spaces and corrects spacing around punctuation.
func FixSpacing(text string) string {
	text = multiSpace.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = punctThenLetter.ReplaceAllString(text, "$1 $2")
	text = lineEdgeSpace.ReplaceAllString(text, "")
	return text
}

// FixPunctuation deduplicates punctuation runs, capitalizes sentence starts,
// and terminates the text with a period when no sentence ender is present.
func FixPunctuation(text string) string {
	text = repeatedPunct.ReplaceAllString(text, "$1")
	text = sentenceStart.ReplaceAllStringFunc(text, strings.ToUpper)
	text = capitalizeFirst(text)
	if text != "" && !strings.ContainsRune(".!?", rune(text[len(text)-1])) {
		text += "."
	}
	return text
}

// NormalizeWhitespace canonicalizes line endings, collapses blank-line runs
// to paragraph breaks, and trims the text.
func NormalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = excessiveNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Clean runs the full cleanup pipeline with filler word removal enabled.
func Clean(text string) string {
	return CleanWith(text, Options{RemoveFillerWords: true})
}

// CleanWith runs the cleanup pipeline: timestamps, optional filler words,
// spacing, punctuation, whitespace. Cleaning never fails; when the result
// drops below a useful length the trimmed input is returned instead.
func CleanWith(text string, opts Options) (result string) {
	if text == "" {
		return ""
	}
	defer func() {
		if recover() != nil {
			result = strings.TrimSpace(text)
		}
	}()

	cleaned := RemoveTimestamps(text)
	if opts.RemoveFillerWords {
		cleaned = RemoveFillerWords(cleaned)
	}
	cleaned = FixSpacing(cleaned)
	cleaned = FixPunctuation(cleaned)
	cleaned = NormalizeWhitespace(cleaned)

	if len(strings.TrimSpace(cleaned)) < 10 {
		return strings.TrimSpace(text)
	}
	return cleaned
}

func capitalizeFirst(text string) string {
	if text == "" {
		return text
	}
	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(r)) + text[size:]
}
