package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/spt-forge/internal/history"
)

// RunReader reads recorded resolution runs.
type RunReader interface {
	Recent(limit int) ([]history.Run, error)
	Stats() (*history.Stats, error)
}

// HistoryTool handles the spt_history MCP tool.
type HistoryTool struct {
	runs RunReader
}

// NewHistoryTool creates a HistoryTool. runs may be nil when the
// history subsystem failed to initialize; the tool then reports that
// history is unavailable instead of erroring at registration time.
func NewHistoryTool(runs RunReader) *HistoryTool {
	return &HistoryTool{runs: runs}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("spt_history",
		mcp.WithDescription(
			"Show recent requirement resolution runs and aggregate statistics. "+
				"Use this to recall what requirements were processed before, which ones "+
				"resolved, and how many attempts they took.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of recent runs to return (default 10)."),
		),
	)
}

// Handle processes the spt_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.runs == nil {
		return mcp.NewToolResultError("run history is unavailable — the history database could not be opened"), nil
	}

	limit := req.GetInt("limit", 10)

	stats, err := t.runs.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading run statistics: %v", err)), nil
	}

	runs, err := t.runs.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading recent runs: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("# Resolution Run History\n\n")
	fmt.Fprintf(&sb, "**Total runs:** %d | **Resolved:** %d | **Unresolved:** %d | **Errored:** %d\n\n",
		stats.TotalRuns, stats.Successful, stats.Unresolved, stats.Errored)

	if len(runs) == 0 {
		sb.WriteString("No runs recorded yet.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}

	sb.WriteString("## Recent Runs\n\n")
	for _, run := range runs {
		fmt.Fprintf(&sb, "- [%s] **%s** (%d attempts): %s\n",
			run.CreatedAt, run.Status, run.Attempts, truncate(run.Requirement, 120))
		if run.MissingElements != "" {
			fmt.Fprintf(&sb, "  - missing: %s\n", run.MissingElements)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// truncate shortens s to max characters, appending an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
