package postprocess

import "testing"

func TestRemoveThinkingBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no thinking blocks",
			input:    "東場0本場、あなたは南家。リーチしてロンで和了しました。",
			expected: "東場0本場、あなたは南家。リーチしてロンで和了しました。",
		},
		{
			name:     "simple thinking block",
			input:    "Some text<thinking>Let me build a toitoi hand</thinking>More text",
			expected: "Some textMore text",
		},
		{
			name:     "reasoning block",
			input:    "Start<reasoning>Counting han</reasoning>End",
			expected: "StartEnd",
		},
		{
			name:     "multiple thinking blocks",
			input:    "<thinking>First</thinking>middle<thinking>Second</thinking>",
			expected: "middle",
		},
		{
			name:     "truncated thinking block (no closing)",
			input:    "<thinking>Question in progress",
			expected: "",
		},
		{
			name:     "truncated thinking in middle",
			input:    "Before<thinking>Incomplete",
			expected: "Before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeThinkingBlocks(tt.input)
			if got != tt.expected {
				t.Errorf("removeThinkingBlocks(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveInstructionEchoes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "here is the question",
			input:    "Here is the question: 東場0本場、あなたは東家。",
			expected: "東場0本場、あなたは東家。",
		},
		{
			name:     "generated problem prefix",
			input:    "The generated problem: 手牌は以下の通り。",
			expected: "手牌は以下の通り。",
		},
		{
			name:     "japanese mondai prefix",
			input:    "問題文: 東場0本場、あなたは東家。",
			expected: "東場0本場、あなたは東家。",
		},
		{
			name:     "japanese lead-in sentence",
			input:    "以下の問題です。東場0本場、あなたは東家。",
			expected: "東場0本場、あなたは東家。",
		},
		{
			name:     "no echo",
			input:    "東場0本場、あなたは東家。",
			expected: "東場0本場、あなたは東家。",
		},
		{
			name:     "echo-like text mid-string untouched",
			input:    "この問題: は本文の一部です",
			expected: "この問題: は本文の一部です",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeInstructionEchoes(tt.input)
			if got != tt.expected {
				t.Errorf("removeInstructionEchoes(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveWrapping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double quotes",
			input:    `"東場0本場。"`,
			expected: "東場0本場。",
		},
		{
			name:     "corner brackets",
			input:    "「東場0本場。」",
			expected: "東場0本場。",
		},
		{
			name:     "code fence",
			input:    "```\n東場0本場。\n```",
			expected: "東場0本場。",
		},
		{
			name:     "code fence with language tag",
			input:    "```text\n東場0本場。\n```",
			expected: "東場0本場。",
		},
		{
			name:     "mismatched quotes untouched",
			input:    `"東場0本場。`,
			expected: `"東場0本場。`,
		},
		{
			name:     "interior quotes untouched",
			input:    `和了牌は"4s"です`,
			expected: `和了牌は"4s"です`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := removeWrapping(tt.input)
			if got != tt.expected {
				t.Errorf("removeWrapping(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	input := "<thinking>plan the hand</thinking>Here is the question: 「東場0本場、あなたは東家。」"
	want := "東場0本場、あなたは東家。"
	if got := Clean(input); got != want {
		t.Errorf("Clean(%q) = %q, want %q", input, got, want)
	}
}
