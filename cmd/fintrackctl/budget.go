package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"fintrack/internal/analytics"
	"fintrack/internal/cli"
)

var (
	flagUserID int64
	flagAmount string
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Set or inspect the current month's budget",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the budget of the current month",
	RunE:  runBudgetSet,
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current month's status and the tracked months before it",
	RunE:  runBudgetStatus,
}

func init() {
	for _, c := range []*cobra.Command{budgetSetCmd, budgetStatusCmd, forecastCmd} {
		c.Flags().Int64Var(&flagUserID, "user", 0, "user id")
		_ = c.MarkFlagRequired("user")
	}
	budgetSetCmd.Flags().StringVar(&flagAmount, "amount", "", "budget amount, e.g. 500 or 499.99")
	_ = budgetSetCmd.MarkFlagRequired("amount")

	budgetCmd.AddCommand(budgetSetCmd, budgetStatusCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetSet(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if err := s.requireUser(ctx, flagUserID); err != nil {
		return err
	}
	svc := analytics.NewService(s.res.Store, analytics.WithStoreTimeout(s.cfg.StoreTimeout), analytics.WithLogger(s.logger))
	if err := svc.SetBudget(ctx, flagUserID, flagAmount); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}

	status, err := svc.CurrentStatus(ctx, flagUserID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s set to %s\n", status.Month, status.BudgetAmount.StringFixed(2))
	return nil
}

func runBudgetStatus(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if err := s.requireUser(ctx, flagUserID); err != nil {
		return err
	}
	svc := analytics.NewService(s.res.Store, analytics.WithStoreTimeout(s.cfg.StoreTimeout), analytics.WithLogger(s.logger))
	report, err := svc.GetBudgetStatus(ctx, flagUserID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cur := report.Current
	fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("Budget %s  user %d", cur.Month, flagUserID)))
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Budget", "Spent", "Remaining", "Days left"},
		Rows: [][]string{{
			cur.Month.String(),
			money(cur.BudgetAmount),
			money(cur.Spent),
			money(cur.Remaining),
			strconv.Itoa(cur.RemainingDays),
		}},
	}))
	fmt.Fprintln(out, cli.RenderNote(cur.Band, cur.Note))

	if len(report.Previous) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(report.Previous))
	for _, h := range report.Previous {
		rows = append(rows, []string{h.Month.String(), money(h.BudgetAmount), money(h.Spent)})
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Title:   "Previous months",
		Headers: []string{"Month", "Budget", "Spent"},
		Rows:    rows,
	}))
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
