package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/archguard/archguard/internal/adapters/outbound/report"
	"github.com/archguard/archguard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedRun() *domain.RunResult {
	return domain.NewRunResult(".", []domain.FileReport{
		{
			File:  "src/core/usecase.ts",
			Layer: "core",
			Violations: []domain.Violation{
				{Line: 3, Import: "@infrastructure/db", Forbidden: "infrastructure", Layer: "core"},
			},
			Health:     []domain.HealthIssue{{Kind: domain.HealthIndentation, Actual: 7, Limit: 5, Line: 12}},
			TDDMissing: true,
		},
	}, 5, 5)
}

func TestMarkdown_Failed(t *testing.T) {
	md := report.Markdown(failedRun())

	assert.Contains(t, md, "# Architecture Audit Report")
	assert.Contains(t, md, "**Status:** FAILED")
	assert.Contains(t, md, "## Architecture Violations")
	assert.Contains(t, md, "`src/core/usecase.ts`")
	assert.Contains(t, md, "(L3)")
	assert.Contains(t, md, "- [ ] `src/core/usecase.ts`")
	assert.Contains(t, md, "Max indentation level (7) at line 12 exceeds limit (5)")
}

func TestMarkdown_TableShape(t *testing.T) {
	md := report.Markdown(failedRun())

	var rows []string
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "|") {
			rows = append(rows, line)
		}
	}
	require.Len(t, rows, 3, "header, separator and one violation")
	assert.Contains(t, rows[0], "File")
	assert.Contains(t, rows[1], "---")
	assert.Contains(t, rows[2], "core")
}

func TestMarkdown_Passed(t *testing.T) {
	md := report.Markdown(domain.NewRunResult("src", nil, 3, 3))
	assert.Contains(t, md, "**Status:** PASSED")
	assert.Contains(t, md, "All clear.")
	assert.NotContains(t, md, "##")
}

func TestMarkdown_WarningHasNoViolationTable(t *testing.T) {
	run := domain.NewRunResult(".", []domain.FileReport{{
		File:       "src/a.ts",
		Layer:      "unknown",
		Violations: []domain.Violation{},
		Health:     []domain.HealthIssue{{Kind: domain.HealthFileSize, Actual: 301, Limit: 300}},
	}}, 1, 1)

	md := report.Markdown(run)
	assert.Contains(t, md, "**Status:** WARNING")
	assert.NotContains(t, md, "## Architecture Violations")
	assert.Contains(t, md, "## Code Health")
}

func TestWriteJSON_Shape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, failedRun()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "FAILED", decoded["status"])
	assert.NotContains(t, decoded, "commit_hash")

	reports := decoded["reports"].([]any)
	first := reports[0].(map[string]any)
	assert.Equal(t, true, first["tdd_missing"])
	assert.Len(t, first["violations"], 1)
}

func TestWriteJSON_EmptyReportsIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, domain.NewRunResult(".", nil, 0, 0)))
	assert.Contains(t, buf.String(), `"reports": []`)
}
