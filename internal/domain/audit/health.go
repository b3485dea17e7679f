package audit

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/archguard/archguard/internal/domain"
)

// indentWidth converts leading whitespace to a level whatever the file's
// real indent style is.
const indentWidth = 2

var healthCommentMarkers = []string{"//", "*"}

// CheckHealth returns at most one file_size issue followed by at most one
// indentation issue.
func CheckHealth(content string, maxFileLines, maxIndent int) []domain.HealthIssue {
	lines := splitLines(content)

	var issues []domain.HealthIssue
	if len(lines) > maxFileLines {
		issues = append(issues, domain.HealthIssue{
			Kind:   domain.HealthFileSize,
			Actual: len(lines),
			Limit:  maxFileLines,
		})
	}

	level, line := maxIndentation(lines)
	if level > maxIndent {
		issues = append(issues, domain.HealthIssue{
			Kind:   domain.HealthIndentation,
			Actual: level,
			Limit:  maxIndent,
			Line:   line,
		})
	}
	return issues
}

// maxIndentation returns the deepest indentation level and the 1-based line
// where it first occurs. Blank and comment lines are ignored.
func maxIndentation(lines []string) (level, line int) {
	for i, l := range lines {
		stripped := strings.TrimLeftFunc(l, unicode.IsSpace)
		if stripped == "" || hasAnyPrefix(stripped, healthCommentMarkers) {
			continue
		}
		lead := utf8.RuneCountInString(l[:len(l)-len(stripped)])
		if lvl := lead / indentWidth; lvl > level {
			level, line = lvl, i+1
		}
	}
	return level, line
}
