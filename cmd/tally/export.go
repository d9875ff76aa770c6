package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().String("category", "", "only this category")
}

func filterFlags(cmd *cobra.Command) (transaction.ListFilter, error) {
	owner, err := ownerFlag(cmd)
	if err != nil {
		return transaction.ListFilter{}, err
	}

	filter := transaction.ListFilter{OwnerID: owner}

	for flag, dst := range map[string]**time.Time{
		"start": &filter.StartDate,
		"end":   &filter.EndDate,
	} {
		raw, _ := cmd.Flags().GetString(flag)
		if raw == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return transaction.ListFilter{}, fmt.Errorf("invalid --%s: %w", flag, err)
		}

		*dst = &t
	}

	if c, _ := cmd.Flags().GetString("category"); c != "" {
		filter.Category = &c
	}

	return filter, nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored transactions as CSV",
		RunE:  runExport,
	}

	addFilterFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	cmd.Flags().Bool("report", false, "print a plain text list instead of CSV")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	filter, err := filterFlags(cmd)
	if err != nil {
		return err
	}

	pool, svc, err := app.Open(cmd.Context(), cfg, slog.Default())
	if err != nil {
		return err
	}
	defer pool.Close()

	var out io.Writer = cmd.OutOrStdout()

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()

		out = f
	}

	if report, _ := cmd.Flags().GetBool("report"); report {
		rows, err := svc.Export.Export(cmd.Context(), filter)
		if err != nil {
			return err
		}

		_, err = io.WriteString(out, export.Report(rows))

		return err
	}

	n, err := svc.Export.WriteCSV(cmd.Context(), filter, out)
	if err != nil {
		return err
	}

	slog.Info("exported transactions", "count", n)

	return nil
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and spending per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filterFlags(cmd)
			if err != nil {
				return err
			}

			pool, svc, err := app.Open(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			defer pool.Close()

			sum, err := svc.Transactions.Summary(cmd.Context(), filter)
			if err != nil {
				return err
			}

			return printSummary(cmd.OutOrStdout(), sum)
		},
	}

	addFilterFlags(cmd)

	return cmd
}

func printSummary(out io.Writer, sum *transaction.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "Income\t%s\t\n", sum.TotalIncome.StringFixed(2))
	fmt.Fprintf(w, "Expenses\t%s\t\n", sum.TotalExpenses.StringFixed(2))
	fmt.Fprintf(w, "Net\t%s\t\n", sum.Net.StringFixed(2))
	fmt.Fprintln(w, "\t\t")

	for _, c := range sum.ByCategory {
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.Category, c.Total.StringFixed(2), c.Count)
	}

	return w.Flush()
}
