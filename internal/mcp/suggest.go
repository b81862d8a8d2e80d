package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mutbench/internal/model"
	"mutbench/internal/report"
	"mutbench/internal/suggest"
)

type suggestParams struct {
	Source     string `json:"source,omitempty" jsonschema:"directory of source files to analyze"`
	MaxPerFile int    `json:"max_per_file,omitempty" jsonschema:"cap suggestions per file; 0 uses the default"`
}

func (h *handler) suggestHandler(ctx context.Context, req *mcp.CallToolRequest, params suggestParams) (*mcp.CallToolResult, any, error) {
	if params.Source == "" {
		return errorResult("source is required")
	}

	opts := []suggest.Option{suggest.WithLogger(h.logger)}
	if params.MaxPerFile > 0 {
		opts = append(opts, suggest.WithMaxPerFile(params.MaxPerFile))
	}

	suggester := suggest.New(opts...)
	pass, err := suggester.Run(ctx, uuid.New().String(), params.Source)
	if err != nil {
		return errorResult(fmt.Sprintf("Analysis failed: %v", err))
	}

	// Store the pass as a pattern round so mut_compare can pick it up.
	if h.store != nil {
		run := pass.ToRunReport()
		run.Summary = model.NewRunSummary(run)
		if err := h.store.SaveRunReport(ctx, run); err != nil {
			h.logger.Warn("failed to store pattern round", "run_id", pass.RunID, "error", err)
		}
	}

	var buf bytes.Buffer
	if _, err := report.NewSimpleWriter(&buf).WriteSuggestions(pass); err != nil {
		return errorResult(fmt.Sprintf("Failed to render suggestions: %v", err))
	}

	return textResult(buf.String())
}
