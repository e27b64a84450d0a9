package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-engine/internal/application/ledger/queries"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Resource transaction history",
		Long: `View and summarise resource transactions.

Every charge, refund and grant is recorded in the same database transaction
as the resource change it describes.

Examples:
  colonyctl ledger transactions --player 0xabc --limit 20
  colonyctl ledger transactions --player 0xabc --category DEFENSE
  colonyctl ledger show 3f6c2a1e-8d0b-4c55-9a7e-1b2f0c9d4e77 --player 0xabc
  colonyctl ledger flow --player 0xabc --start-date 2025-03-01 --end-date 2025-03-31`,
	}

	cmd.AddCommand(newLedgerTransactionsCommand())
	cmd.AddCommand(newLedgerShowCommand())
	cmd.AddCommand(newLedgerFlowCommand())

	return cmd
}

func newLedgerTransactionsCommand() *cobra.Command {
	var (
		startDate   string
		endDate     string
		category    string
		txType      string
		relatedKind string
		limit       int
		offset      int
		orderBy     string
	)

	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"list"},
		Short:   "List transactions",
		Long: `List resource transactions with optional filtering.

Results are ordered by timestamp descending (newest first) by default.

Categories:
  FACILITIES  - facility upgrades
  RESEARCH    - technologies
  DEFENSE     - defense batches
  ADMIN       - operator grants

Transaction Types:
  BUILD_CHARGE  - cost deducted when a build starts
  BUILD_REFUND  - partial refund of a cancelled build
  ADMIN_GRANT   - resources credited by an operator`,
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}
			start, err := parseDate(startDate, false)
			if err != nil {
				return err
			}
			end, err := parseDate(endDate, true)
			if err != nil {
				return err
			}

			query := &queries.GetTransactionsQuery{
				PlayerKey: player,
				StartDate: start,
				EndDate:   end,
				Limit:     limit,
				Offset:    offset,
				OrderBy:   orderBy,
			}
			if category != "" {
				query.Category = &category
			}
			if txType != "" {
				query.TransactionType = &txType
			}
			if relatedKind != "" {
				query.RelatedKind = &relatedKind
			}

			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, query)
				if err != nil {
					return err
				}
				return printTransactions(cmd.OutOrStdout(), resp.(*queries.GetTransactionsResponse))
			})
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&txType, "type", "", "Filter by transaction type")
	cmd.Flags().StringVar(&relatedKind, "kind", "", "Filter by related kind (e.g. metal_mine)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of transactions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")
	cmd.Flags().StringVar(&orderBy, "order-by", "timestamp DESC", "Sort order (timestamp DESC or timestamp ASC)")

	return cmd
}

func newLedgerShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, &queries.GetTransactionQuery{PlayerKey: player, TransactionID: args[0]})
				if err != nil {
					return err
				}
				return printTransaction(cmd.OutOrStdout(), resp.(*queries.GetTransactionResponse).Transaction)
			})
		},
	}
}

func newLedgerFlowCommand() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Summarise resources spent and returned per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}
			start, err := parseDate(startDate, false)
			if err != nil {
				return err
			}
			end, err := parseDate(endDate, true)
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, &queries.GetResourceFlowQuery{
					PlayerKey: player,
					StartDate: start,
					EndDate:   end,
				})
				if err != nil {
					return err
				}
				return printFlow(cmd.OutOrStdout(), resp.(*queries.GetResourceFlowResponse))
			})
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "End date (YYYY-MM-DD or RFC3339)")

	return cmd
}

func printTransactions(w io.Writer, resp *queries.GetTransactionsResponse) error {
	if wantsYAML() {
		return printYAML(w, resp.Transactions)
	}

	if len(resp.Transactions) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return nil
	}

	rows := make([][]string, 0, len(resp.Transactions))
	for _, tx := range resp.Transactions {
		rows = append(rows, []string{
			tx.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			tx.Type,
			tx.Category,
			fmt.Sprintf("%d", tx.Metal),
			fmt.Sprintf("%d", tx.Crystal),
			fmt.Sprintf("%d", tx.Deuterium),
			tx.Description,
		})
	}
	if err := printTable(w, []string{"Time", "Type", "Category", "Metal", "Crystal", "Deuterium", "Description"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "Showing %d of %d transactions\n", len(resp.Transactions), resp.Total)
	return nil
}

func printTransaction(w io.Writer, tx *queries.TransactionDTO) error {
	if wantsYAML() {
		return printYAML(w, tx)
	}

	rows := [][]string{
		{"ID", tx.ID},
		{"Time", tx.Timestamp.UTC().Format("2006-01-02 15:04:05")},
		{"Type", tx.Type},
		{"Category", tx.Category},
		{"Change", formatCost(rules.Cost{Metal: tx.Metal, Crystal: tx.Crystal, Deuterium: tx.Deuterium})},
		{"Description", tx.Description},
	}
	if tx.RelatedKind != "" {
		rows = append(rows, []string{"Related", fmt.Sprintf("%s x%d", tx.RelatedKind, tx.RelatedAmount)})
	}
	return printTable(w, []string{"Field", "Value"}, rows)
}

func printFlow(w io.Writer, resp *queries.GetResourceFlowResponse) error {
	if wantsYAML() {
		return printYAML(w, resp.Categories)
	}

	if len(resp.Categories) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return nil
	}

	var outflow, inflow, net rules.Cost
	rows := make([][]string, 0, len(resp.Categories)+1)
	for _, flow := range resp.Categories {
		rows = append(rows, []string{
			flow.Category,
			formatCost(flow.Outflow),
			formatCost(flow.Inflow),
			formatCost(flow.Net),
			fmt.Sprintf("%d", flow.Transactions),
		})
		outflow = outflow.Add(flow.Outflow)
		inflow = inflow.Add(flow.Inflow)
		net = net.Add(flow.Net)
	}
	rows = append(rows, []string{"TOTAL", formatCost(outflow), formatCost(inflow), formatCost(net), ""})

	return printTable(w, []string{"Category", "Spent", "Returned", "Net", "Transactions"}, rows)
}
