package judge

import (
	"strings"
	"unicode/utf8"
)

// Verdict is the structured reading of a raw compliance reply.
type Verdict struct {
	// Value is "Yes" or "No" when Parsed is true. When Parsed is false it
	// carries the first line of the reply verbatim, or "Unknown" when the
	// reply was blank.
	Value  string
	Parsed bool
	Reason string
}

// Compliant reports whether the verdict is a parsed affirmative.
func (v Verdict) Compliant() bool {
	return v.Parsed && v.Value == "Yes"
}

var answerLabels = []string{"回答形式:", "回答形式", "回答:", "回答"}

// ParseVerdict extracts a Yes/No verdict and a reason from a raw compliance
// reply. The first non-blank line is checked for a Yes/No prefix after
// stripping answer labels; failing that, the whole reply is scanned and the
// earlier of Yes/No wins. Replies with no recognizable token are kept
// verbatim with Parsed set to false.
func ParseVerdict(raw string) Verdict {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Verdict{Value: "Unknown", Parsed: false}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	firstLine := ""
	if len(lines) > 0 {
		firstLine = lines[0]
	}

	firstClean := firstLine
	for _, label := range answerLabels {
		if strings.HasPrefix(firstClean, label) {
			firstClean = strings.TrimSpace(strings.TrimPrefix(firstClean, label))
			break
		}
	}

	v := Verdict{Reason: extractReason(lines)}

	upper := strings.ToUpper(firstClean)
	switch {
	case strings.HasPrefix(upper, "YES"):
		v.Value, v.Parsed = "Yes", true
	case strings.HasPrefix(upper, "NO"):
		v.Value, v.Parsed = "No", true
	default:
		clean := text
		for _, label := range answerLabels {
			clean = strings.ReplaceAll(clean, label, "")
		}
		cleanUpper := strings.ToUpper(strings.TrimSpace(clean))
		yesPos := strings.Index(cleanUpper, "YES")
		noPos := strings.Index(cleanUpper, "NO")
		switch {
		case yesPos != -1 && (noPos == -1 || yesPos < noPos):
			v.Value, v.Parsed = "Yes", true
		case noPos != -1:
			v.Value, v.Parsed = "No", true
		case firstClean != "":
			v.Value = firstClean
		default:
			v.Value = "Unknown"
		}
	}

	return v
}

func extractReason(lines []string) string {
	if len(lines) < 2 {
		return ""
	}
	for _, line := range lines[1:] {
		if strings.Contains(line, "理由") || strings.Contains(strings.ToLower(line), "reason") {
			if i := strings.IndexAny(line, ":："); i != -1 {
				_, size := utf8.DecodeRuneInString(line[i:])
				return strings.TrimSpace(line[i+size:])
			}
			return line
		}
	}
	return strings.TrimSpace(strings.Join(lines[1:], "\n"))
}
