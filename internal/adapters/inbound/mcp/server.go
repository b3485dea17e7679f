package mcp

import (
	"github.com/archguard/archguard/internal/application"
	"github.com/mark3labs/mcp-go/server"
)

// NewArchguardMCPServer creates a new MCP server with all archguard tools and
// resources registered. Relative paths in tool arguments are resolved
// against projectPath.
func NewArchguardMCPServer(projectPath string, svc *application.AuditService) *server.MCPServer {
	s := server.NewMCPServer(
		"archguard",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
