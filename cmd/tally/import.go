package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/columns"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/source"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from files",
	}

	cmd.AddCommand(importTableCmd())
	cmd.AddCommand(importDocumentCmd())

	return cmd
}

func importTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table [files...]",
		Short: "Import delimited files or spreadsheets with a header row",
		Long: `Import one table per file. Columns are found by header keywords unless
all of --date-column, --description-column and --amount-column are given.

Examples:
  tally import table --owner $OWNER ~/Downloads/checking_jan.csv
  tally import table --owner $OWNER --date-column Fecha --description-column Concepto \
    --amount-column Importe movimientos.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportTable,
	}

	cmd.Flags().String("date-column", "", "header of the date column")
	cmd.Flags().String("description-column", "", "header of the description column")
	cmd.Flags().String("amount-column", "", "header of the amount column")
	cmd.Flags().String("category-column", "", "header of an optional category column")

	return cmd
}

func importDocumentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "document [files...]",
		Short: "Import PDF statements, text dumps or loosely laid out tables",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImportDocument,
	}
}

func mappingFlags(cmd *cobra.Command) (*columns.Mapping, error) {
	var m columns.Mapping

	m.Date, _ = cmd.Flags().GetString("date-column")
	m.Description, _ = cmd.Flags().GetString("description-column")
	m.Amount, _ = cmd.Flags().GetString("amount-column")
	m.Category, _ = cmd.Flags().GetString("category-column")

	if m == (columns.Mapping{}) {
		return nil, nil
	}

	if m.Date == "" || m.Description == "" || m.Amount == "" {
		return nil, errors.New("--date-column, --description-column and --amount-column go together")
	}

	return &m, nil
}

func runImportTable(cmd *cobra.Command, args []string) error {
	mapping, err := mappingFlags(cmd)
	if err != nil {
		return err
	}

	return runImport(cmd, args, func(svc *app.Services, owner uuid.UUID, f *os.File, format source.Format) (*importer.BatchResult, error) {
		table, err := svc.Loader.Table(format, f)
		if err != nil {
			return nil, err
		}

		return svc.Importer.ImportTable(cmd.Context(), owner, table, mapping)
	})
}

func runImportDocument(cmd *cobra.Command, args []string) error {
	return runImport(cmd, args, func(svc *app.Services, owner uuid.UUID, f *os.File, format source.Format) (*importer.BatchResult, error) {
		doc, err := svc.Loader.Document(cmd.Context(), format, f)
		if err != nil {
			return nil, err
		}

		return svc.Importer.ImportDocument(cmd.Context(), owner, doc)
	})
}

type importFunc func(svc *app.Services, owner uuid.UUID, f *os.File, format source.Format) (*importer.BatchResult, error)

func runImport(cmd *cobra.Command, files []string, fn importFunc) error {
	owner, err := ownerFlag(cmd)
	if err != nil {
		return err
	}

	pool, svc, err := app.Open(cmd.Context(), cfg, slog.Default())
	if err != nil {
		return err
	}
	defer pool.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "FILE\tIMPORTED\tDUPLICATES\tINVALID\tNEW CATEGORIES")

	var failed int

	for _, path := range files {
		result, err := importFile(svc, owner, path, fn)
		if err != nil {
			failed++

			slog.Error("import failed", "file", path, "error", err)
			fmt.Fprintf(w, "%s\t0\t-\t-\t-\n", filepath.Base(path))

			continue
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", filepath.Base(path),
			result.Imported, result.SkippedDuplicates, result.SkippedInvalid, len(result.Categories))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}

	return nil
}

func importFile(svc *app.Services, owner uuid.UUID, path string, fn importFunc) (*importer.BatchResult, error) {
	format, err := source.FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return fn(svc, owner, f, format)
}
