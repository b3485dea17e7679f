package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archguard/archguard/internal/adapters/outbound/rules"
	"github.com/archguard/archguard/internal/adapters/outbound/scanner"
	"github.com/archguard/archguard/internal/application"
	"github.com/archguard/archguard/internal/domain"
)

const testRules = `
layers:
  - name: core
    identifiers: [core]
    forbidden: [infrastructure]
  - name: infra
    identifiers: [infrastructure]
test_suffixes: [.test.ts]
`

func setupProject(t *testing.T) (string, *application.AuditService) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		".archguard.yaml":          testRules,
		"src/core/usecase.ts":      "import { Db } from '@infrastructure/db'\n",
		"src/core/clean.ts":        "export const x = 1\n",
		"src/core/clean.test.ts":   "test\n",
		"src/infrastructure/db.ts": "export class Db {}\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root, application.NewAuditService(scanner.New(), rules.New(), nil, nil)
}

func callTool(t *testing.T, h func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	var req mcplib.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandleAudit(t *testing.T) {
	root, svc := setupProject(t)

	res := callTool(t, handleAudit(root, svc), map[string]any{})
	require.False(t, res.IsError, resultText(t, res))

	var run domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &run))
	assert.Equal(t, domain.StatusFailed, run.Status)
	assert.Equal(t, 1, run.Summary.Violations)
}

func TestHandleAudit_SubPath(t *testing.T) {
	root, svc := setupProject(t)

	res := callTool(t, handleAudit(root, svc), map[string]any{"path": "src/infrastructure"})
	var run domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &run))
	assert.Equal(t, "src/infrastructure", run.Target)
	assert.Equal(t, 0, run.Summary.Violations)
	assert.Equal(t, 1, run.Summary.MissingTests)
}

func TestHandleAuditFile(t *testing.T) {
	root, svc := setupProject(t)

	res := callTool(t, handleAuditFile(root, svc), map[string]any{"file": "src/core/clean.ts"})
	var run domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &run))
	assert.Equal(t, domain.StatusPassed, run.Status)
}

func TestHandleAuditFile_RequiresFile(t *testing.T) {
	root, svc := setupProject(t)
	res := callTool(t, handleAuditFile(root, svc), map[string]any{})
	assert.True(t, res.IsError)
}

func TestHandleAuditFile_UnknownLayer(t *testing.T) {
	root, svc := setupProject(t)
	res := callTool(t, handleAuditFile(root, svc), map[string]any{"file": "src/core/clean.ts", "layer": "ui"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "unknown layer")
}

func TestHandleClassify(t *testing.T) {
	root, svc := setupProject(t)

	res := callTool(t, handleClassify(root, svc), map[string]any{"file": "src/core/new_usecase.ts"})
	require.False(t, res.IsError, resultText(t, res))

	var c application.Classification
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &c))
	assert.Equal(t, "src/core/new_usecase.ts", c.File)
	assert.Equal(t, "core", c.Layer)
	assert.Equal(t, []string{"infrastructure"}, c.Forbidden)
}

func TestHandleRulesResource(t *testing.T) {
	root, svc := setupProject(t)

	contents, err := handleRulesResource(root, svc)(context.Background(), mcplib.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, rulesURI, text.URI)

	var cfg domain.RulesConfig
	require.NoError(t, json.Unmarshal([]byte(text.Text), &cfg))
	require.Len(t, cfg.Layers, 2)
	assert.Equal(t, "core", cfg.Layers[0].Name)
}

func TestHandleRulesResource_NoRules(t *testing.T) {
	svc := application.NewAuditService(scanner.New(), rules.New(), nil, nil)
	_, err := handleRulesResource(t.TempDir(), svc)(context.Background(), mcplib.ReadResourceRequest{})
	assert.ErrorIs(t, err, domain.ErrRulesNotFound)
}
