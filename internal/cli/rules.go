package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/SscSPs/rental_reconciler/internal/middleware"
	"github.com/SscSPs/rental_reconciler/internal/utils/rules"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Work with allocation rules",
	}
	cmd.AddCommand(newRulesDryRunCmd())
	return cmd
}

type dryRunOptions struct {
	rulesPath        string
	transactionsPath string
	onlyUnmatched    bool
}

func newRulesDryRunCmd() *cobra.Command {
	opts := &dryRunOptions{}
	cmd := &cobra.Command{
		Use:   "dry-run",
		Short: "Show which rule would categorize each transaction of a bank export",
		Long: `dry-run loads rules from a YAML file and transactions from a CSV or XLSX bank
export, then prints the winning rule and category for every transaction.
Nothing is written anywhere.

The export needs a header row with at least "type" and "amount" columns;
"id", "sender", "receiver" and "description" are read when present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesDryRun(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.rulesPath, "rules", "rules.yaml", "Path to the YAML rule file")
	cmd.Flags().StringVar(&opts.transactionsPath, "transactions", "", "Path to the CSV or XLSX bank export")
	cmd.Flags().BoolVar(&opts.onlyUnmatched, "unmatched", false, "Print only transactions no rule matches")
	_ = cmd.MarkFlagRequired("transactions")
	return cmd
}

func runRulesDryRun(cmd *cobra.Command, opts *dryRunOptions) error {
	logger := middleware.GetLoggerFromCtx(cmd.Context())

	ruleSet, err := LoadRulesFile(opts.rulesPath)
	if err != nil {
		return err
	}
	txns, err := LoadTransactionsFile(opts.transactionsPath)
	if err != nil {
		return err
	}
	logger.Debug("Loaded dry-run inputs", slog.Int("rules", len(ruleSet)), slog.Int("transactions", len(txns)))

	matched := writeDryRunReport(cmd.OutOrStdout(), txns, ruleSet, opts.onlyUnmatched)
	logger.Info("Dry run finished", slog.Int("transactions", len(txns)), slog.Int("matched", matched))
	return nil
}

// writeDryRunReport prints one line per transaction and returns how many matched a rule.
func writeDryRunReport(out io.Writer, txns []domain.Transaction, ruleSet []domain.AllocationRule, onlyUnmatched bool) int {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tAMOUNT\tDESCRIPTION\tRULE\tCATEGORY")

	matched := 0
	for _, txn := range txns {
		rule := rules.Resolve(txn, ruleSet)
		if rule != nil {
			matched++
			if onlyUnmatched {
				continue
			}
		}

		ruleName, category := "-", "-"
		if rule != nil {
			ruleName = rule.Name
			if rule.CategoryID != nil {
				category = strconv.FormatInt(*rule.CategoryID, 10)
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", txn.ID, txn.Type, txn.Amount.StringFixed(2), txn.Description, ruleName, category)
	}
	_ = w.Flush()
	return matched
}
