package textnorm

import "strings"

// DefaultMaxSegmentLength is the segment size used when callers pass a
// non-positive limit.
const DefaultMaxSegmentLength = 500

// Segment splits cleaned text into chunks of at most maxLen characters,
// packing whole sentences greedily. A single sentence longer than maxLen
// becomes its own segment.
func Segment(text string, maxLen int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxSegmentLength
	}

	sentences := splitSentences(text)

	var segments []string
	var current string
	for _, sentence := range sentences {
		if len(current)+len(sentence)+1 > maxLen {
			if current != "" {
				segments = append(segments, strings.TrimSpace(current))
				current = sentence
			} else {
				segments = append(segments, strings.TrimSpace(sentence))
			}
			continue
		}
		if current != "" {
			current += " " + sentence
		} else {
			current = sentence
		}
	}
	if current != "" {
		segments = append(segments, strings.TrimSpace(current))
	}
	return segments
}

// splitSentences breaks text after runs of sentence-ending punctuation that
// are followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		// consume the full punctuation run
		for i+1 < len(runes) && (runes[i+1] == '.' || runes[i+1] == '!' || runes[i+1] == '?') {
			i++
		}
		if i+1 >= len(runes) {
			break
		}
		if runes[i+1] != ' ' && runes[i+1] != '\t' && runes[i+1] != '\n' {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		for i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n') {
			i++
		}
		start = i + 1
	}
	if start < len(runes) {
		tail := strings.TrimSpace(string(runes[start:]))
		if tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}
