package main

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/tally/internal/app"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect categories and the keyword table",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, svc, err := app.Open(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			defer pool.Close()

			cats, err := svc.Categories.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing categories: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "NAME\tCREATED")

			for _, c := range cats {
				fmt.Fprintf(w, "%s\t%s\n", c.Name, c.CreatedAt.Format("2006-01-02"))
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "Print the keyword table used for categorization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := cfg.Categories()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "CATEGORY\tKEYWORDS")

			for _, r := range rules.Rules {
				fmt.Fprintf(w, "%s\t%s\n", r.Name, strings.Join(r.Keywords, ", "))
			}

			fmt.Fprintf(w, "%s\t(default)\n", rules.Default)

			return nil
		},
	})

	return cmd
}
