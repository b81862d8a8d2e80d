// Package main provides the entry point for the mutbench CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mutbench/internal/log"
)

// NewRootCmd creates the root command for mutbench.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutbench",
		Short: "Comparative mutation testing workbench",
		Long: `mutbench runs comparative mutation testing studies.

It executes external mutation tools (mutmut, gremlins, or any tool that
emits a results file), analyzes sources for likely mutation points without
running a tool, and compares the detection rates of rounds and approaches.

Rounds are stored locally so later runs can be compared against earlier
ones. Use 'mutbench run --sample' to explore with a bundled fixture.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("color", log.AutoColor(), "Colorize log output")
	cmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON lines")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewSuggestCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger creates a structured logger from the persistent flags.
// root, when non-empty, relativizes path attributes in log output.
func setupLogger(cmd *cobra.Command, root string) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")   //nolint:errcheck // flag registered on root
	color, _ := cmd.Flags().GetBool("color")       //nolint:errcheck // flag registered on root
	jsonLogs, _ := cmd.Flags().GetBool("log-json") //nolint:errcheck // flag registered on root

	return log.New(os.Stderr, log.Options{
		Verbose: verbose,
		Color:   color,
		JSON:    jsonLogs,
		Root:    root,
	})
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
