// Package tools implements the MCP tools exposed by spt-forge.
//
// Each tool is a small struct holding its dependencies, with a
// Definition() for registration and a Handle() for execution.
// Tools depend on the Resolver abstraction, not on the concrete
// engine (DIP), so they can be tested with a stub.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/spt-forge/internal/checklist"
	"github.com/HendryAvila/spt-forge/internal/engine"
)

// Resolver generates checklists and drives the resolution loop.
type Resolver interface {
	GenerateChecklist(ctx context.Context, requirement string) (*checklist.RequirementChecklist, error)
	ProcessRequirement(ctx context.Context, requirement string) (*engine.ResolutionResult, error)
}

// ProcessTool handles the spt_process_requirement MCP tool.
// This is the core of spt-forge: it runs the bounded resolution loop
// over a natural-language access requirement and, when the requirement
// resolves, synthesizes SimplePolicyTalk policy statements.
type ProcessTool struct {
	resolver Resolver
}

// NewProcessTool creates a ProcessTool with its dependencies.
func NewProcessTool(resolver Resolver) *ProcessTool {
	return &ProcessTool{resolver: resolver}
}

// Definition returns the MCP tool definition for registration.
func (t *ProcessTool) Definition() mcp.Tool {
	return mcp.NewTool("spt_process_requirement",
		mcp.WithDescription(
			"Process a natural-language AWS access-control requirement end to end. "+
				"The requirement is converted into a structured checklist, analyzed for "+
				"completeness and ambiguity, and refined over a bounded number of attempts. "+
				"If the requirement resolves, SimplePolicyTalk policy statements are generated. "+
				"If it does not, the response explains exactly which elements are missing or "+
				"ambiguous so the user can supply them.",
		),
		mcp.WithString("requirement",
			mcp.Required(),
			mcp.Description(
				"The access-control requirement in plain English. "+
					"Example: 'Allow developers to read objects in the logs bucket.'",
			),
		),
	)
}

// Handle processes the spt_process_requirement tool call.
func (t *ProcessTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requirement := strings.TrimSpace(req.GetString("requirement", ""))
	if requirement == "" {
		return mcp.NewToolResultError("requirement must not be empty"), nil
	}

	result, err := t.resolver.ProcessRequirement(ctx, requirement)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("processing requirement: %v", err)), nil
	}

	return mcp.NewToolResultText(formatResult(requirement, result)), nil
}

// formatResult renders a resolution result as markdown for the AI.
func formatResult(requirement string, result *engine.ResolutionResult) string {
	var sb strings.Builder

	switch result.Status {
	case engine.OutcomeSuccess:
		sb.WriteString("# Requirement Resolved\n\n")
		fmt.Fprintf(&sb, "**Attempts:** %d\n\n", result.Attempts)
		sb.WriteString("## Generated Policy\n\n")
		sb.WriteString("```\n")
		sb.WriteString(strings.TrimSpace(result.Policy))
		sb.WriteString("\n```\n")
	case engine.OutcomeMaxAttempts, engine.OutcomeIncomplete:
		sb.WriteString("# Requirement Not Resolved\n\n")
		fmt.Fprintf(&sb, "**Attempts:** %d\n\n", result.Attempts)
		sb.WriteString("## What Is Still Needed\n\n")
		sb.WriteString(result.Feedback)
		sb.WriteString("\n\n")
		if len(result.MissingElements) > 0 {
			fmt.Fprintf(&sb, "**Missing elements:** %s\n\n", strings.Join(result.MissingElements, ", "))
		}
		sb.WriteString("Ask the user to restate the requirement with these points addressed, ")
		sb.WriteString("then call `spt_process_requirement` again.\n")
	default:
		sb.WriteString("# Processing Failed\n\n")
		fmt.Fprintf(&sb, "**Error:** %s\n", result.Error)
	}

	fmt.Fprintf(&sb, "\n---\n_Requirement: %s_\n", requirement)
	return sb.String()
}
