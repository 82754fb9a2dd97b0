package formatter

import (
	"regexp"
	"strings"
)

// CommitMessage is a parsed conventional commit first line.
type CommitMessage struct {
	Type     string
	Scope    string
	Breaking bool
	Summary  string
}

// String renders the message in `type(scope)!: summary` form.
func (m CommitMessage) String() string {
	var b strings.Builder
	b.WriteString(m.Type)
	if m.Scope != "" {
		b.WriteString("(" + m.Scope + ")")
	}
	if m.Breaking {
		b.WriteString("!")
	}
	b.WriteString(": " + m.Summary)
	return b.String()
}

var commitPattern = regexp.MustCompile(
	`(?i)^(feat|fix|docs|style|refactor|test|chore|perf|ci|build|revert)(\(([^)]*)\))?(!)?:\s*(.+)$`)

// ParseCommitMessage parses the first line of model output into a
// CommitMessage, normalizing the type to lowercase. The second return value
// reports whether the text matched the conventional commit shape.
func ParseCommitMessage(text string) (CommitMessage, bool) {
	line := firstContentLine(CleanModelOutput(text))
	matches := commitPattern.FindStringSubmatch(line)
	if matches == nil {
		return CommitMessage{}, false
	}

	return CommitMessage{
		Type:     strings.ToLower(matches[1]),
		Scope:    strings.TrimSpace(matches[3]),
		Breaking: matches[4] == "!",
		Summary:  strings.TrimSpace(matches[5]),
	}, true
}

// FormatCommitMessage normalizes model output into a single commit line.
// Output that does not parse as a conventional commit is surfaced as-is,
// trimmed, so the user still gets something usable.
func FormatCommitMessage(text string) string {
	if msg, ok := ParseCommitMessage(text); ok {
		return msg.String()
	}
	return firstContentLine(CleanModelOutput(text))
}

// CleanModelOutput strips decoration models like to add around the actual
// message: code fences, surrounding quotes and stray whitespace.
func CleanModelOutput(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		var kept []string
		for _, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	text = strings.Trim(text, "`\"'")
	return strings.TrimSpace(text)
}

func firstContentLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
