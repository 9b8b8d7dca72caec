package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/rental_reconciler/internal/core/ports/services"
	"github.com/SscSPs/rental_reconciler/internal/core/services"
	"github.com/SscSPs/rental_reconciler/internal/middleware"
	"github.com/SscSPs/rental_reconciler/internal/platform/config"
	"github.com/SscSPs/rental_reconciler/internal/repositories/database/pgsql"
	"github.com/SscSPs/rental_reconciler/pkg/database"
	"github.com/spf13/cobra"
)

const cliUserID = "cli"

type autoAllocateOptions struct {
	limit  int
	userID string
}

func newAutoAllocateCmd() *cobra.Command {
	opts := &autoAllocateOptions{}
	cmd := &cobra.Command{
		Use:   "auto-allocate",
		Short: "Apply active rules to uncategorized income and expense transactions",
		Long: `auto-allocate connects to the database configured by PGSQL_URL, picks up to
--limit uncategorized income and expense transactions (oldest first) and runs
the applyRules batch operation on them. Each transaction is processed
independently; failures are reported per transaction.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.limit < 1 {
				return fmt.Errorf("--limit must be positive, got %d", opts.limit)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			pool, err := database.NewPgxPool(cmd.Context(), cfg.DatabaseURL, true)
			if err != nil {
				return err
			}
			defer database.ClosePgxPool(pool)

			container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), nil)
			return runAutoAllocate(cmd.Context(), cmd.OutOrStdout(), container.Batch, opts)
		},
	}
	cmd.Flags().IntVar(&opts.limit, "limit", 100, "Maximum number of transactions to process")
	cmd.Flags().StringVar(&opts.userID, "user", cliUserID, "User id recorded as the last editor")
	return cmd
}

func runAutoAllocate(ctx context.Context, out io.Writer, batchSvc portssvc.BatchSvc, opts *autoAllocateOptions) error {
	ctx = middleware.WithUserID(ctx, opts.userID)
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("user_id", opts.userID))
	ctx = middleware.WithLogger(ctx, logger)

	result, err := batchSvc.AutoAllocate(ctx, opts.limit, opts.userID)
	if err != nil {
		return fmt.Errorf("auto-allocation failed: %w", err)
	}
	writeBatchSummary(out, result)
	return nil
}

func writeBatchSummary(out io.Writer, result *domain.BatchResult) {
	fmt.Fprintf(out, "processed %d transactions: %d succeeded, %d failed\n", result.Total, result.Success, result.Failed)
	for _, item := range result.Results {
		if item.Succeeded() {
			continue
		}
		fmt.Fprintf(out, "  transaction %d: %d %s\n", item.ID, item.StatusCode, item.Message)
	}
}
