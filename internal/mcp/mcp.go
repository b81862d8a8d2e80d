package mcp

import (
	_ "embed"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mutbench/internal/config"
	"mutbench/internal/database"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	cfg    *config.Config
	store  *database.HistoryDB // nil when history persistence is disabled
	logger *slog.Logger
}

// ServerOption configures the MCP server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used by tool handlers.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// NewServer creates an MCP server with all mutbench tools registered.
func NewServer(cfg *config.Config, store *database.HistoryDB, version string, opts ...ServerOption) *mcp.Server {
	var so serverOptions
	for _, o := range opts {
		o(&so)
	}
	if so.logger == nil {
		so.logger = slog.Default()
	}

	h := &handler{
		cfg:    cfg,
		store:  store,
		logger: so.logger,
	}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "mutbench", Version: version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "mut_run",
		Description: `Run a mutation testing round against a project directory.

Selects a mutation tool (mutmut, gremlins, or a generic results file), runs it,
parses the results, and stores the round. Set sample=true to load a bundled
fixture instead of running a tool. Returns the summary text and the run ID
for use with mut_compare.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "mut_suggest",
		Description: `Analyze source files for likely mutation points without running a tool.

Scans for arithmetic operators, comparisons, boolean logic, constants, and
boundary conditions, and reports suggested mutation points plus generated
test skeletons. The pass is stored as a pattern-approach round.`,
	}, h.suggestHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "mut_compare",
		Description: `Compare two stored rounds and report the detection-rate change.

Provide baseline_run_id and candidate_run_id, or just a project to compare
its two most recent rounds. Reports newly detected mutants, still-surviving
mutants, and recommendations.`,
	}, h.compareHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "mut_history",
		Description: `List recent stored rounds for a project, most recent first.

Omit the project to list the projects with stored history instead.`,
	}, h.historyHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
