package tui

import (
	"fmt"
	"strings"

	"github.com/archguard/archguard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusColors = map[domain.Status]lipgloss.Color{
		domain.StatusPassed:  success,
		domain.StatusWarning: warning,
		domain.StatusFailed:  danger,
	}

	dimStyle           = lipgloss.NewStyle().Foreground(dim)
	faintStyle         = lipgloss.NewStyle().Foreground(faint)
	passStyle          = lipgloss.NewStyle().Foreground(success)
	failStyle          = lipgloss.NewStyle().Foreground(danger)
	warnStyle          = lipgloss.NewStyle().Foreground(warning)
	infoStyle          = lipgloss.NewStyle().Foreground(info)
	fileStyle          = lipgloss.NewStyle().Foreground(dim)
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	separatorLine      = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderRun formats a run result for the terminal.
func RenderRun(result *domain.RunResult) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("archguard")
	subtitle := dimStyle.Render("Architecture Audit")
	status := lipgloss.NewStyle().
		Bold(true).
		Foreground(statusColor(result.Status)).
		Render(string(result.Status))
	target := fileStyle.Render(result.Target)

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + status + "\n" + target))
	b.WriteString("\n\n")

	s := result.Summary
	stats := fmt.Sprintf("%d scanned  ·  %d audited  ·  %d with findings", s.FilesScanned, s.FilesAudited, s.FilesWithFindings)
	if result.CommitHash != "" {
		stats += "  ·  " + shortHash(result.CommitHash)
	}
	b.WriteString("  " + dimStyle.Render(stats) + "\n")

	if len(result.Reports) == 0 {
		b.WriteString("\n  " + passStyle.Render("No issues found.") + "\n\n")
		return b.String()
	}

	// ── Violations ──
	if s.Violations > 0 {
		renderSectionHeader(&b, "Architecture Violations", s.Violations)
		for _, r := range result.Reports {
			for _, v := range r.Violations {
				fmt.Fprintf(&b, "    %s %s  %s\n",
					failStyle.Render("●"),
					fileStyle.Render(fmt.Sprintf("%s:%d", r.File, v.Line)),
					v.Message(),
				)
			}
		}
	}

	// ── Missing tests ──
	if s.MissingTests > 0 {
		renderSectionHeader(&b, "Missing Tests", s.MissingTests)
		for _, r := range result.Reports {
			if r.TDDMissing {
				fmt.Fprintf(&b, "    %s %s  %s\n", failStyle.Render("○"), r.File, faintStyle.Render(r.Layer))
			}
		}
	}

	// ── Health ──
	if s.HealthIssues > 0 {
		renderSectionHeader(&b, "Code Health", s.HealthIssues)
		for _, r := range result.Reports {
			for _, h := range r.Health {
				fmt.Fprintf(&b, "    %s %s  %s\n", warnStyle.Render("●"), fileStyle.Render(r.File), h.Message())
			}
		}
	}

	b.WriteString("\n  " + separatorLine + "\n\n")
	return b.String()
}

func renderSectionHeader(b *strings.Builder, title string, count int) {
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n\n",
		sectionHeaderStyle.Render(title),
		dimStyle.Render(fmt.Sprintf("(%d)", count)),
	)
}

// RenderHistory formats run history for terminal output.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found. Record runs with `archguard audit --record`.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := shortHash(e.CommitHash)
		if hash == "" {
			hash = "·······"
		}

		status := lipgloss.NewStyle().
			Foreground(statusColor(e.Status)).
			Render(padRight(string(e.Status), 7))

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(datePart(e.Timestamp)),
			faintStyle.Render(hash),
			status,
			fmt.Sprintf("%d violations, %d missing tests, %d health", e.Violations, e.MissingTests, e.HealthIssues),
		)

		if i > 0 {
			diff := e.Violations - entries[i-1].Violations
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderRules formats the effective rule set.
func RenderRules(rules *domain.RuleSet) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Layers") + "  " + dimStyle.Render("(first match wins)") + "\n\n")

	for i, l := range rules.Layers() {
		fmt.Fprintf(&b, "  %s %s  %s\n",
			dimStyle.Render(fmt.Sprintf("%d.", i+1)),
			sectionHeaderStyle.Render(padRight(l.Name, 16)),
			infoStyle.Render(strings.Join(l.Identifiers, ", ")),
		)
		if len(l.Forbidden) > 0 {
			fmt.Fprintf(&b, "     %s %s\n", failStyle.Render("✗"), strings.Join(l.Forbidden, ", "))
		}
	}

	b.WriteString("\n  " + separatorLine + "\n\n")
	fmt.Fprintf(&b, "  %s %d\n", padRight("max file lines", 24), rules.MaxFileLines())
	fmt.Fprintf(&b, "  %s %d\n", padRight("max indentation level", 24), rules.MaxIndentationLevel())
	fmt.Fprintf(&b, "  %s %s\n", padRight("test suffixes", 24), strings.Join(rules.TestSuffixes(), " "))
	fmt.Fprintf(&b, "  %s %s\n", padRight("test dirs", 24), strings.Join(rules.TestDirs(), " "))
	fmt.Fprintf(&b, "  %s %s\n", padRight("excluded dirs", 24), strings.Join(rules.ExcludeDirs(), " "))
	b.WriteString("\n")
	return b.String()
}

func statusColor(s domain.Status) lipgloss.Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return fg
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func datePart(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
