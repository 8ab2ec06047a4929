package transcript

import (
	"regexp"
	"strings"
)

// Description fallback policy: strip links, collapse whitespace, require
// enough remaining text to be worth returning, cap the length.
const (
	minDescriptionChars = 50
	maxDescriptionChars = 1000
)

var (
	urlPattern        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// descriptionCandidate turns a video description into a fallback
// transcript candidate. The boolean reports whether the cleaned text is
// long enough to serve as one.
func descriptionCandidate(description string) (string, bool) {
	text := urlPattern.ReplaceAllString(description, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) <= minDescriptionChars {
		return "", false
	}
	if runes := []rune(text); len(runes) > maxDescriptionChars {
		text = string(runes[:maxDescriptionChars])
	}
	return text, true
}
