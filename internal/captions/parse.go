package captions

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	markupTags      = regexp.MustCompile(`<[^>]+>`)
	cueTiming       = regexp.MustCompile(`\d+:\d+:\d+[.,]\d+ --> \d+:\d+:\d+[.,]\d+`)
	webvttHeader    = regexp.MustCompile(`(?s)WEBVTT.*?\n\n`)
	sequenceNumber  = regexp.MustCompile(`^\d+$`)
	timestampPrefix = regexp.MustCompile(`^\d+:\d+:\d+`)
	multiWhitespace = regexp.MustCompile(`\s+`)
)

// ParsePayload converts a raw caption payload into plain text. Payloads
// that look like json3 documents are parsed structurally; everything else
// is treated as timed-text markup (VTT/SRT) and stripped line by line.
func ParsePayload(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "{") || strings.Contains(payload, `"events"`) {
		if text, ok := parseJSON3(payload); ok {
			return text
		}
	}
	return parseTimedText(payload)
}

// parseJSON3 extracts the utf8 segments of a json3 caption document,
// concatenated in array order and joined by single spaces.
func parseJSON3(payload string) (string, bool) {
	var doc struct {
		Events []struct {
			Segs []struct {
				UTF8 string `json:"utf8"`
			} `json:"segs"`
		} `json:"events"`
	}
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return "", false
	}

	var parts []string
	for _, event := range doc.Events {
		for _, seg := range event.Segs {
			if seg.UTF8 != "" {
				parts = append(parts, seg.UTF8)
			}
		}
	}
	text := strings.Join(parts, " ")
	text = multiWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), true
}

// parseTimedText strips VTT/SRT markup: tags, cue timing lines, the WEBVTT
// header, and bare sequence numbers. Remaining lines are joined by spaces.
func parseTimedText(payload string) string {
	text := markupTags.ReplaceAllString(payload, "")
	text = cueTiming.ReplaceAllString(text, "")
	text = webvttHeader.ReplaceAllString(text, "")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || sequenceNumber.MatchString(line) || timestampPrefix.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}

	joined := strings.Join(kept, " ")
	joined = multiWhitespace.ReplaceAllString(joined, " ")
	return strings.TrimSpace(joined)
}
