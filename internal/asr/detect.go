package asr

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// detectFunc fills in the language when an engine does not report one.
type detectFunc func(text string) (code string, ok bool)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// detectLanguage runs statistical language detection over the transcript
// text. The detector is built once, it loads language models on first use.
func detectLanguage(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()
	})
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
