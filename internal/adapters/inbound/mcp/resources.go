package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/modkit/modkit/internal/application"
	"github.com/modkit/modkit/internal/domain"
	"github.com/modkit/modkit/internal/domain/validator"
)

func registerResources(s *server.MCPServer, projectPath string, svc *application.RunService) {
	s.AddResource(
		mcplib.NewResource(
			"modkit://validators",
			"Validators",
			mcplib.WithResourceDescription("Available validators in execution order"),
			mcplib.WithMIMEType("application/json"),
		),
		func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
			return jsonContents(request.Params.URI, validator.Describe())
		},
	)

	s.AddResource(
		mcplib.NewResource(
			"modkit://history",
			"Run History",
			mcplib.WithResourceDescription("Validation runs recorded for the project, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath, svc),
	)

	s.AddResource(
		mcplib.NewResource(
			"modkit://settings",
			"Settings",
			mcplib.WithResourceDescription("Effective settings as dotted keys"),
			mcplib.WithMIMEType("application/json"),
		),
		func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
			settings, err := flatSettings(projectPath, svc)
			if err != nil {
				return nil, err
			}
			return jsonContents(request.Params.URI, settings)
		},
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"modkit://validators/{name}",
			"Validator",
			mcplib.WithTemplateDescription("Group and description of a single validator"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleValidatorResource(),
	)
}

func handleHistoryResource(projectPath string, svc *application.RunService) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := svc.History(projectPath, domain.RunQuery{})
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		return jsonContents(request.Params.URI, entries)
	}
}

func handleValidatorResource() server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		name := templateArg(request.Params.Arguments["name"])
		if name == "" {
			return nil, fmt.Errorf("validator name is required")
		}
		for _, d := range validator.Describe() {
			if d.Name == name {
				return jsonContents(request.Params.URI, d)
			}
		}
		return nil, fmt.Errorf("unknown validator %q", name)
	}
}

// templateArg reads a URI template variable, which arrives as a string or a
// single-element list depending on how it was matched.
func templateArg(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		if len(x) > 0 {
			return x[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
