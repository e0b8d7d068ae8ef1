package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fintrack/internal/analytics"
	"fintrack/internal/cli"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show monthly expenses and the linear forecast for next month",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
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
	series, err := svc.GetForecast(ctx, flagUserID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(series.Labels) == 0 {
		fmt.Fprintln(out, "No expenses recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(series.Labels))
	for i, m := range series.Labels {
		rows = append(rows, []string{
			m.String(),
			strconv.FormatInt(series.Actual[i], 10),
			strconv.FormatInt(series.Predicted[i], 10),
		})
	}
	fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("Expense forecast  user %d", flagUserID)))
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Actual", "Predicted"},
		Rows:    rows,
	}))
	fmt.Fprintf(out, "Next month: %d\n", series.NextPrediction)
	return nil
}
