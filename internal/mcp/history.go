package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type historyParams struct {
	Project string `json:"project,omitempty" jsonschema:"project whose stored rounds to list; omit to list projects instead"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum rounds to return; defaults to 10"`
}

func (h *handler) historyHandler(ctx context.Context, req *mcp.CallToolRequest, params historyParams) (*mcp.CallToolResult, any, error) {
	if h.store == nil {
		return errorResult("run history is disabled")
	}

	if params.Project == "" {
		projects, err := h.store.ListProjects(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to list projects: %v", err))
		}
		if len(projects) == 0 {
			return textResult("No stored rounds yet. Run mut_run or mut_suggest first.")
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Projects with stored rounds (%d):\n", len(projects))
		for _, p := range projects {
			fmt.Fprintf(&b, "  %s\n", p)
		}
		return textResult(b.String())
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	history, err := h.store.GetRunHistory(ctx, params.Project, limit)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run history: %v", err))
	}
	if len(history) == 0 {
		return textResult(fmt.Sprintf("No stored rounds for %s.", params.Project))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent rounds for %s:\n\n", params.Project)
	fmt.Fprintf(&b, "%-36s  %-11s  %-10s  %6s  %8s  %9s  %s\n",
		"RUN ID", "APPROACH", "LABEL", "TOTAL", "DETECTED", "DETECTION", "DATE")
	for _, meta := range history {
		fmt.Fprintf(&b, "%-36s  %-11s  %-10s  %6d  %8d  %8.2f%%  %s\n",
			meta.RunID,
			meta.Approach,
			meta.Label,
			meta.Total,
			meta.Detected,
			meta.DetectionRate*100,
			meta.Timestamp.Format("2006-01-02 15:04"),
		)
	}
	return textResult(b.String())
}
