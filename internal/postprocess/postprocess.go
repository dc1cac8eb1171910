// Package postprocess removes common LLM artifacts from generated question
// text.
//
// It is applied to the raw text returned by any LLM-backed generator before
// the question enters the candidate pipeline.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean removes LLM artifacts from text in three phases and returns the
// trimmed result:
//  1. Thinking / reasoning block removal
//  2. Instruction echo removal (prompt leakage)
//  3. Quote and fence wrapping removal
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeInstructionEchoes(text)
	text = removeWrapping(text)
	return strings.TrimSpace(text)
}

// --- Phase 1: thinking blocks ---

// thinkingBlockRe matches complete <thinking>…</thinking> style blocks.
// Each tag variant is listed explicitly because Go's RE2 engine does not
// support backreferences.
// Flags: i = case-insensitive, s = dot matches newline.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// truncatedThinkingRe matches an opened thinking tag whose closing tag is
// missing (the model was cut off mid-thought).
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// --- Phase 2: instruction echoes ---

// echoPatterns match introductory lines that LLMs sometimes prepend even
// when told to output the question text alone. Each pattern is anchored to
// the start of the string.
var echoPatterns = []*regexp.Regexp{
	// "Here is / Here's [the|a] [generated] question|problem:"
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the| a)? (?:generated )?(?:question|problem)\s*:`),
	// "[The] [generated] question|problem [text]:"
	regexp.MustCompile(`(?i)^(?:the )?(?:generated )?(?:question|problem)(?: text)?\s*:`),
	// Japanese lead-ins: 「問題:」「問題文:」「以下の問題です。」
	regexp.MustCompile(`^問題文?\s*[:：]`),
	regexp.MustCompile(`^以下(?:の|が)問題(?:文)?です[。:：]?`),
}

func removeInstructionEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// --- Phase 3: quote and fence wrapping ---

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\n?(.*?)\n?```$")

// removeWrapping strips a markdown code fence or a matching pair of outer
// quotes when the entire text is wrapped in them. Supported quote pairs:
//
//	"…"  '…'  «…»  "…"  '…'  「…」
func removeWrapping(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '「' && last == '」') ||
		(first == '“' && last == '”') || // " "
		(first == '‘' && last == '’') { //  ' '
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
