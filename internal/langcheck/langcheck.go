// Package langcheck gates generated question texts on language. Problems
// are curated in Japanese; a reply drifting into another language is a
// generation failure.
package langcheck

import (
	lingua "github.com/pemistahl/lingua-go"
)

// Checker detects whether a text reads as Japanese.
type Checker struct {
	detector lingua.LanguageDetector
}

func New() *Checker {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Japanese, lingua.English).
		Build()

	return &Checker{detector: detector}
}

// minRunes is the length below which detection is too unreliable to gate
// on. Tile notation alone ("1m 2m 3m ...") defeats any detector.
const minRunes = 20

// LooksJapanese reports whether the text is plausibly Japanese. Short or
// undetectable texts pass; the gate only rejects confident mismatches.
func (c *Checker) LooksJapanese(text string) bool {
	if len([]rune(text)) < minRunes {
		return true
	}
	lang, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return true
	}
	return lang == lingua.Japanese
}
