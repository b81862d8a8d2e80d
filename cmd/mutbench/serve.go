package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"mutbench/internal/config"
	"mutbench/internal/database"
	"mutbench/internal/mcp"
)

// NewServeCmd creates the serve command.
// The serve command exposes mutation rounds, pattern analysis, and round
// comparison as MCP tools, so coding agents can drive studies directly.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Serve starts a Model Context Protocol server exposing mutation
testing as tools: mut_run, mut_suggest, mut_compare, and mut_history.

By default the server speaks over stdio, which is how MCP clients such
as editors and coding agents usually launch it. With --http the server
listens on a TCP address instead, using the streamable HTTP transport.

Examples:
  # Serve over stdio (typical MCP client configuration)
  mutbench serve

  # Serve over HTTP on port 8089
  mutbench serve --http :8089

  # Serve without touching the history database
  mutbench serve --no-save`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("http", "",
		"Listen address for the streamable HTTP transport (empty: stdio)")
	cmd.Flags().String("db-dir", "",
		"Directory for the history database (default: XDG data directory)")
	cmd.Flags().Bool("no-save", false,
		"Disable the history database (mut_history and stored comparisons unavailable)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	httpAddr, err := cmd.Flags().GetString("http")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}

	// MCP clients read JSON-RPC from stdout, so logs must stay on stderr.
	logger := setupLogger(cmd, "")
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	cfg := config.NewConfig()
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	var store *database.HistoryDB
	if !noSave {
		store, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
	}

	server := mcp.NewServer(cfg, store, getVersion(), mcp.WithLogger(logger))

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr, logger)
	}

	logger.Info("MCP server listening on stdio", "version", getVersion())
	return server.Run(ctx, &sdk.StdioTransport{})
}

// serveHTTP serves the MCP server over the streamable HTTP transport.
func serveHTTP(ctx context.Context, server *sdk.Server, addr string, logger *slog.Logger) error {
	handler := sdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *sdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close() //nolint:errcheck // Best effort shutdown
	}()

	logger.Info("MCP server listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
