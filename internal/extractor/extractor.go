// Package extractor turns a natural-language question text into a
// structured hand using an LLM with a strict JSON output contract.
package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/rkoshiba/janmon/internal/hand"
)

// Extractor parses a question text into a structured hand. A nil hand with
// a nil error means the extractor could not find a hand in the text; that is
// an ordinary extraction failure, not a transport error.
type Extractor interface {
	Extract(ctx context.Context, questionText string) (*hand.Hand, error)
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\n?(.*?)\n?```")

// StripJSONFences returns the content of the first markdown code fence when
// present, otherwise the trimmed input. LLMs routinely wrap JSON output in
// fences even when told not to.
func StripJSONFences(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}
