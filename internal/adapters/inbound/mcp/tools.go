package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/modkit/modkit/internal/adapters/outbound/config"
	"github.com/modkit/modkit/internal/adapters/outbound/render"
	"github.com/modkit/modkit/internal/application"
	"github.com/modkit/modkit/internal/domain/validator"
)

func registerTools(s *server.MCPServer, projectPath string, svc *application.RunService) {
	s.AddTool(
		mcplib.NewTool("modkit_validate",
			mcplib.WithDescription("Run validators against the project and return the report as JSON with a summary and exit code"),
			mcplib.WithString("validators", mcplib.Description("Comma-separated validator names (default: all)")),
			mcplib.WithBoolean("parallel", mcplib.Description("Run validators of a group in parallel")),
		),
		handleValidate(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("modkit_list_validators",
			mcplib.WithDescription("List the available validators with their group and description"),
		),
		handleListValidators(),
	)

	s.AddTool(
		mcplib.NewTool("modkit_get_setting",
			mcplib.WithDescription("Return the effective value of a dotted settings key, or every setting below it"),
			mcplib.WithString("key", mcplib.Description("Dotted key such as validate.workers (default: all settings)")),
		),
		handleGetSetting(projectPath, svc),
	)
}

func handleValidate(projectPath string, svc *application.RunService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		req := application.RunRequest{
			Path:       projectPath,
			Validators: splitCSV(request.GetString("validators", "")),
		}
		args := request.GetArguments()
		if _, ok := args["parallel"]; ok {
			parallel := request.GetBool("parallel", false)
			req.Parallel = &parallel
		}

		result, err := svc.Execute(ctx, req)
		if result == nil {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}
		var defect *application.DefectError
		if err != nil && !errors.As(err, &defect) && !errors.Is(err, application.ErrInterrupted) {
			return errorResult(fmt.Sprintf("validate failed: %v", err)), nil
		}

		var buf bytes.Buffer
		if renderErr := render.JSON(&buf, result.Report); renderErr != nil {
			return nil, fmt.Errorf("rendering report: %w", renderErr)
		}
		res := textResult(buf.String())
		if err != nil {
			res.Content = append(res.Content, mcplib.NewTextContent(err.Error()))
			res.IsError = true
		}
		return res, nil
	}
}

func handleListValidators() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(validator.Describe())
	}
}

func handleGetSetting(projectPath string, svc *application.RunService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		key := request.GetString("key", "")
		settings, err := flatSettings(projectPath, svc)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		value, entries, ok := config.Lookup(settings, key)
		if !ok {
			return errorResult(fmt.Sprintf("no setting found for %q", key)), nil
		}
		if entries == nil {
			return textResult(value), nil
		}
		return textResult(strings.Join(entries, "\n")), nil
	}
}

func flatSettings(projectPath string, svc *application.RunService) (map[string]string, error) {
	cfg, err := svc.Settings(application.RunRequest{Path: projectPath})
	if err != nil {
		return nil, err
	}
	return config.Flatten(cfg)
}

func splitCSV(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
