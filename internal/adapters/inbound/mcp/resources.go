package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/archguard/archguard/internal/application"
)

const rulesURI = "archguard://rules"

// registerResources registers all archguard MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, svc *application.AuditService) {
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Architecture Rules",
			mcplib.WithResourceDescription("Effective layer rules for the project: layers in precedence order, forbidden imports and health limits"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(projectPath, svc),
	)
}

func handleRulesResource(projectPath string, svc *application.AuditService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		proj, err := svc.Resolve(projectPath, "")
		if err != nil {
			return nil, fmt.Errorf("loading rules: %w", err)
		}

		data, err := json.MarshalIndent(proj.Rules.Config(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling rules: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      rulesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
