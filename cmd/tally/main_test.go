package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/columns"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func withOwner(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().String("owner", "", "")
	return cmd
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"import", "export", "summary", "categories", "migrate"})

	var imp *cobra.Command
	for _, c := range rootCmd.Commands() {
		if c.Name() == "import" {
			imp = c
		}
	}

	require.NotNil(t, imp)
	assert.Len(t, imp.Commands(), 2)
}

func TestMappingFlags(t *testing.T) {
	type testCase struct {
		name    string
		args    []string
		want    *columns.Mapping
		wantErr bool
	}

	tests := []testCase{
		{
			name: "NoneGiven",
			args: nil,
			want: nil,
		},
		{
			name: "Complete",
			args: []string{"--date-column", "Fecha", "--description-column", "Concepto", "--amount-column", "Importe"},
			want: &columns.Mapping{Date: "Fecha", Description: "Concepto", Amount: "Importe"},
		},
		{
			name:    "Partial",
			args:    []string{"--date-column", "Fecha"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := importTableCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))

			got, err := mappingFlags(cmd)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterFlags(t *testing.T) {
	id := uuid.New()

	cmd := withOwner(exportCmd())
	require.NoError(t, cmd.ParseFlags([]string{"--owner", id.String(), "--start", "2024-01-01", "--category", "Food"}))

	got, err := filterFlags(cmd)
	require.NoError(t, err)

	assert.Equal(t, id, got.OwnerID)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *got.StartDate)
	assert.Nil(t, got.EndDate)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Food", *got.Category)
}

func TestFilterFlags_Invalid(t *testing.T) {
	tests := map[string][]string{
		"MissingOwner": {"--start", "2024-01-01"},
		"BadOwner":     {"--owner", "me"},
		"BadDate":      {"--owner", uuid.NewString(), "--end", "01/31/2024"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := withOwner(summaryCmd())
			require.NoError(t, cmd.ParseFlags(args))

			_, err := filterFlags(cmd)
			assert.Error(t, err)
		})
	}
}

func TestPrintSummary(t *testing.T) {
	sum := transaction.Summarize([]*transaction.Transaction{
		{Amount: decimal.RequireFromString("25.5"), CategoryName: "Food"},
		{Amount: decimal.RequireFromString("-100")},
	})

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, sum))

	out := buf.String()
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "25.50")
	assert.Contains(t, out, "74.50")
	assert.Contains(t, out, "Food")
}
