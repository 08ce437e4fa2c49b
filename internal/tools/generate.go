package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/spt-forge/internal/checklist"
)

// GenerateTool handles the spt_generate_checklist MCP tool.
// Unlike spt_process_requirement it performs a single pass with no
// retries, returning the raw structured checklist for inspection.
type GenerateTool struct {
	resolver Resolver
}

// NewGenerateTool creates a GenerateTool with its dependencies.
func NewGenerateTool(resolver Resolver) *GenerateTool {
	return &GenerateTool{resolver: resolver}
}

// Definition returns the MCP tool definition for registration.
func (t *GenerateTool) Definition() mcp.Tool {
	return mcp.NewTool("spt_generate_checklist",
		mcp.WithDescription(
			"Convert a natural-language access-control requirement into a structured "+
				"requirement checklist WITHOUT running the resolution loop. "+
				"Use this to inspect how a requirement decomposes into effect, principal, "+
				"actions, resources and conditions, and to see the completeness analysis. "+
				"For full processing with retries and policy generation, use "+
				"spt_process_requirement instead.",
		),
		mcp.WithString("requirement",
			mcp.Required(),
			mcp.Description("The access-control requirement in plain English."),
		),
	)
}

// Handle processes the spt_generate_checklist tool call.
func (t *GenerateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requirement := strings.TrimSpace(req.GetString("requirement", ""))
	if requirement == "" {
		return mcp.NewToolResultError("requirement must not be empty"), nil
	}

	c, err := t.resolver.GenerateChecklist(ctx, requirement)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generating checklist: %v", err)), nil
	}

	resolved, feedback, _ := checklist.Analyze(c)

	raw, err := checklist.CanonicalJSON(c)
	if err != nil {
		return nil, fmt.Errorf("encoding checklist: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Requirement Checklist\n\n")
	if resolved {
		sb.WriteString("**Analysis:** complete and unambiguous — ready for policy generation.\n\n")
	} else {
		sb.WriteString("**Analysis:**\n\n")
		sb.WriteString(feedback)
		sb.WriteString("\n\n")
	}
	sb.WriteString("```json\n")
	sb.WriteString(raw)
	sb.WriteString("\n```\n")

	return mcp.NewToolResultText(sb.String()), nil
}
