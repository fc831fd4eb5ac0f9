package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/modkit/modkit/internal/application"
)

// NewServer creates an MCP server exposing validation of the project at
// projectPath through svc.
func NewServer(projectPath string, svc *application.RunService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"modkit",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
