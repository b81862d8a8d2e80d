package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mutbench/internal/analysis"
	"mutbench/internal/model"
	"mutbench/internal/report"
)

type compareParams struct {
	BaselineRunID  string `json:"baseline_run_id,omitempty" jsonschema:"run ID of the earlier round"`
	CandidateRunID string `json:"candidate_run_id,omitempty" jsonschema:"run ID of the later round"`
	Project        string `json:"project,omitempty" jsonschema:"project whose two most recent rounds to compare when no run IDs are given"`
}

func (h *handler) compareHandler(ctx context.Context, req *mcp.CallToolRequest, params compareParams) (*mcp.CallToolResult, any, error) {
	if h.store == nil {
		return errorResult("run history is disabled; no stored rounds to compare")
	}

	baseline, candidate, errText := h.resolveRounds(ctx, params)
	if errText != "" {
		return errorResult(errText)
	}

	improvement := analysis.CompareRounds(baseline, candidate)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Baseline:  %s\n", baseline.RunID)
	fmt.Fprintf(&buf, "Candidate: %s\n\n", candidate.RunID)
	if _, err := report.NewSimpleWriter(&buf).WriteImprovement(improvement); err != nil {
		return errorResult(fmt.Sprintf("Failed to render comparison: %v", err))
	}

	return textResult(buf.String())
}

// resolveRounds loads the two rounds to compare, either by explicit run IDs
// or as a project's two most recent rounds. The returned string is an error
// message for the caller when resolution fails.
func (h *handler) resolveRounds(ctx context.Context, params compareParams) (baseline, candidate *model.RunReport, errText string) {
	if params.BaselineRunID != "" || params.CandidateRunID != "" {
		if params.BaselineRunID == "" || params.CandidateRunID == "" {
			return nil, nil, "baseline_run_id and candidate_run_id must be given together"
		}

		baseline, err := h.store.GetRunReportByRunID(ctx, params.BaselineRunID)
		if err != nil {
			return nil, nil, fmt.Sprintf("Failed to load baseline round: %v", err)
		}
		if baseline == nil {
			return nil, nil, fmt.Sprintf("No stored round with run ID %s", params.BaselineRunID)
		}

		candidate, err := h.store.GetRunReportByRunID(ctx, params.CandidateRunID)
		if err != nil {
			return nil, nil, fmt.Sprintf("Failed to load candidate round: %v", err)
		}
		if candidate == nil {
			return nil, nil, fmt.Sprintf("No stored round with run ID %s", params.CandidateRunID)
		}

		return baseline, candidate, ""
	}

	if params.Project == "" {
		return nil, nil, "either two run IDs or a project is required"
	}

	history, err := h.store.GetRunHistory(ctx, params.Project, 2)
	if err != nil {
		return nil, nil, fmt.Sprintf("Failed to load run history: %v", err)
	}
	if len(history) < 2 {
		return nil, nil, fmt.Sprintf("Project %s has %d stored round(s); need at least two to compare", params.Project, len(history))
	}

	// History is most recent first.
	candidate, err = h.store.GetRunReportByRunID(ctx, history[0].RunID)
	if err != nil || candidate == nil {
		return nil, nil, fmt.Sprintf("Failed to load round %s: %v", history[0].RunID, err)
	}
	baseline, err = h.store.GetRunReportByRunID(ctx, history[1].RunID)
	if err != nil || baseline == nil {
		return nil, nil, fmt.Sprintf("Failed to load round %s: %v", history[1].RunID, err)
	}

	return baseline, candidate, ""
}
