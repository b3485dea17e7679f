package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/archguard/archguard/internal/application"
)

// registerTools registers all archguard MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, svc *application.AuditService) {
	// 1. archguard_audit
	s.AddTool(
		mcplib.NewTool("archguard_audit",
			mcplib.WithDescription("Audit the project (or a sub-path) and return the run result as JSON: violations, code health issues and missing tests per file"),
			mcplib.WithString("path", mcplib.Description("Directory or file relative to the project root (default: whole project)")),
			mcplib.WithBoolean("changed_only", mcplib.Description("Only audit files changed in the git worktree")),
		),
		handleAudit(projectPath, svc),
	)

	// 2. archguard_audit_file
	s.AddTool(
		mcplib.NewTool("archguard_audit_file",
			mcplib.WithDescription("Audit a single file. Use after editing a file to confirm it respects the layer rules"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the file relative to the project root"),
			),
			mcplib.WithString("layer", mcplib.Description("Audit the file as this layer instead of classifying it")),
		),
		handleAuditFile(projectPath, svc),
	)

	// 3. archguard_classify
	s.AddTool(
		mcplib.NewTool("archguard_classify",
			mcplib.WithDescription("Return the layer a path belongs to and the imports that layer must not use. Works for files that do not exist yet"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the file relative to the project root"),
			),
		),
		handleClassify(projectPath, svc),
	)
}

func handleAudit(projectPath string, svc *application.AuditService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		path, _ := args["path"].(string)
		changedOnly, _ := args["changed_only"].(bool)

		result, err := svc.Run(ctx, application.AuditRequest{
			Target:      resolve(projectPath, path),
			ChangedOnly: changedOnly,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("audit failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleAuditFile(projectPath string, svc *application.AuditService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		layer, _ := request.GetArguments()["layer"].(string)

		result, err := svc.Run(ctx, application.AuditRequest{
			Target:     resolve(projectPath, file),
			ForceLayer: layer,
			Workers:    1,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("audit failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleClassify(projectPath string, svc *application.AuditService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		c, err := svc.Classify(resolve(projectPath, file), "")
		if err != nil {
			return errorResult(fmt.Sprintf("classify failed: %v", err)), nil
		}
		return jsonResult(c)
	}
}

func resolve(projectPath, p string) string {
	if p == "" {
		return projectPath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}

// jsonResult marshals v to indented JSON and wraps it in a CallToolResult.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
