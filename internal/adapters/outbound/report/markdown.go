// Package report renders run results as machine- and review-friendly text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/archguard/archguard/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteJSON writes result as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Markdown renders result as a markdown document suitable for PR comments.
func Markdown(result *domain.RunResult) string {
	var b strings.Builder
	s := result.Summary

	b.WriteString("# Architecture Audit Report\n\n")
	fmt.Fprintf(&b, "**Status:** %s\n", result.Status)
	fmt.Fprintf(&b, "**Target:** `%s`\n", result.Target)
	if result.CommitHash != "" {
		fmt.Fprintf(&b, "**Commit:** `%s`\n", result.CommitHash)
	}
	fmt.Fprintf(&b, "**Files with findings:** %d of %d audited\n\n", s.FilesWithFindings, s.FilesAudited)

	if result.Status == domain.StatusPassed {
		b.WriteString("All clear.\n")
		return b.String()
	}

	if s.Violations > 0 {
		b.WriteString("## Architecture Violations\n\n")
		t := table.New().
			Border(lipgloss.MarkdownBorder()).
			BorderTop(false).
			BorderBottom(false).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
			Headers("File", "Layer", "Violation")
		for _, r := range result.Reports {
			for _, v := range r.Violations {
				t.Row(
					"`"+escapeCell(r.File)+"`",
					escapeCell(r.Layer),
					fmt.Sprintf("%s (L%d)", escapeCell(v.Message()), v.Line),
				)
			}
		}
		b.WriteString(t.String())
		b.WriteString("\n\n")
	}

	if s.MissingTests > 0 {
		b.WriteString("## Missing Tests\n\n")
		b.WriteString("Source files without an associated test:\n\n")
		for _, r := range result.Reports {
			if r.TDDMissing {
				fmt.Fprintf(&b, "- [ ] `%s`\n", r.File)
			}
		}
		b.WriteString("\n")
	}

	if s.HealthIssues > 0 {
		b.WriteString("## Code Health\n\n")
		for _, r := range result.Reports {
			if len(r.Health) == 0 {
				continue
			}
			fmt.Fprintf(&b, "**%s**:\n", r.File)
			for _, h := range r.Health {
				fmt.Fprintf(&b, "  - %s\n", h.Message())
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
