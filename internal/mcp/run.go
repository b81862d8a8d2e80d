package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mutbench/internal/model"
	"mutbench/internal/mutation"
	"mutbench/internal/pipeline"
	"mutbench/internal/report"
)

type runParams struct {
	Project string `json:"project,omitempty" jsonschema:"absolute or relative path of the project directory to mutate"`
	Tool    string `json:"tool,omitempty" jsonschema:"mutation tool to run (mutmut, gremlins, generic); auto-detected when empty"`
	Sample  bool   `json:"sample,omitempty" jsonschema:"load a bundled fixture round instead of running a tool"`
	Label   string `json:"label,omitempty" jsonschema:"name for this round within a study, e.g. round-1"`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	if params.Project == "" {
		return errorResult("project is required")
	}

	tool := params.Tool
	if tool == "" {
		tool = h.cfg.Tool
	}

	mutOpts := []pipeline.MutationStepOption{
		pipeline.WithTool(tool),
		pipeline.WithTimeout(h.cfg.Timeout),
		pipeline.WithMutationLogger(h.logger),
	}
	if params.Sample {
		mutOpts = append(mutOpts, pipeline.WithSample(mutation.SampleRound1))
	}

	p := pipeline.DefaultPipeline(h.store, h.logger,
		pipeline.NewMutationStep(mutOpts...),
		pipeline.NewResultsStep(
			pipeline.WithResultsTool(tool),
			pipeline.WithResultsLogger(h.logger),
		),
	)

	run := model.NewRunReport(uuid.New().String(), params.Project, model.ApproachTraditional)
	if params.Label != "" {
		run.Label = params.Label
	}

	if err := p.Execute(ctx, run); err != nil {
		return errorResult(fmt.Sprintf("Round failed: %v", err))
	}

	var buf bytes.Buffer
	if _, err := report.NewSimpleWriter(&buf).Write(run); err != nil {
		return errorResult(fmt.Sprintf("Failed to render summary: %v", err))
	}

	return textResult(buf.String())
}
