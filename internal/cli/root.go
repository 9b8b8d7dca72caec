package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/rental_reconciler/internal/middleware"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
}

// NewRootCmd builds the reconciler command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "reconciler",
		Short: "Offline and maintenance tools for the rental reconciler",
		Long: `reconciler evaluates allocation rules against bank exports without touching
the database, runs rule based auto-allocation over uncategorized transactions,
and mints development tokens for the HTTP API.

Example Usage:
  reconciler rules dry-run --rules rules.yaml --transactions export.xlsx
  reconciler auto-allocate --limit 200
  reconciler dev-token --user alice`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			cmd.SetContext(middleware.WithLogger(cmd.Context(), logger))
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newAutoAllocateCmd())
	cmd.AddCommand(newDevTokenCmd())
	return cmd
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
