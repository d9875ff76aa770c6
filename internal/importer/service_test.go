package importer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/columns"
	"github.com/MrJamesThe3rd/tally/internal/dedup"
	"github.com/MrJamesThe3rd/tally/internal/extract"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/normalize"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type mocks struct {
	repo       *transaction.MockRepository
	itx        *transaction.MockImportTx
	categories *category.MockRepository
}

func newService(t *testing.T) (*importer.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:       transaction.NewMockRepository(ctrl),
		itx:        transaction.NewMockImportTx(ctrl),
		categories: category.NewMockRepository(ctrl),
	}

	svc := importer.NewService(
		m.repo,
		m.categories,
		category.NewCategorizer(category.DefaultConfig()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		importer.Options{Sign: extract.DefaultSignPolicy()},
	)

	return svc, m
}

func upsertEcho(created bool) func(context.Context, string) (*category.Category, bool, error) {
	return func(_ context.Context, name string) (*category.Category, bool, error) {
		return &category.Category{ID: uuid.New(), Name: name}, created, nil
	}
}

var scenarioTable = extract.Table{
	Header: []string{"date", "description", "amount"},
	Rows: [][]string{
		{"2023-01-01", "Lunch", "25.50"},
		{"2023-01-02", "Dinner", "30.00"},
	},
}

func TestService_ImportTable_FreshBatch(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()

	var stored []*transaction.Transaction

	m.repo.EXPECT().BeginImport(gomock.Any(), owner).Return(m.itx, nil)
	m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
	m.categories.EXPECT().Upsert(gomock.Any(), "Food").DoAndReturn(upsertEcho(true)).Times(1)
	m.itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			stored = txs
			return nil
		})
	m.itx.EXPECT().Commit().Return(nil)
	m.itx.EXPECT().Rollback().Return(nil)

	got, err := svc.ImportTable(context.Background(), owner, scenarioTable, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Imported)
	assert.Zero(t, got.SkippedDuplicates)
	assert.Zero(t, got.SkippedInvalid)

	require.Len(t, stored, 2)
	assert.Equal(t, "Food", stored[0].CategoryName)
	assert.Equal(t, "Food", stored[1].CategoryName)
	assert.Equal(t, stored[0].CategoryID, stored[1].CategoryID)
	assert.NotNil(t, stored[1].CategoryID)
	assert.Equal(t, owner, stored[0].OwnerID)
	assert.True(t, decimal.RequireFromString("25.50").Equal(stored[0].Amount))

	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Food", got.Categories[0].Name)
}

func TestService_ImportTable_ReimportSkipsEverything(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()

	existing := dedup.NewKeySet(
		dedup.KeyOf(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "Lunch", decimal.RequireFromString("25.5")),
		dedup.KeyOf(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), "Dinner", decimal.RequireFromString("30")),
	)

	m.repo.EXPECT().BeginImport(gomock.Any(), owner).Return(m.itx, nil)
	m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(existing, nil)
	m.itx.EXPECT().Rollback().Return(nil)

	got, err := svc.ImportTable(context.Background(), owner, scenarioTable, nil)
	require.NoError(t, err)

	assert.Equal(t, importer.BatchResult{SkippedDuplicates: 2}, *got)
}

func TestService_ImportTable_InvalidRows(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()

	table := extract.Table{
		Header: []string{"Fecha", "Concepto", "Importe", "Categoria"},
		Rows: [][]string{
			{"2023-01-01", "Taxi", "0.00", ""},
			{"yesterday", "Bus", "2.00", ""},
			{"2023-01-03", "", "2.00", ""},
			{"2023-01-04", "Bus", "two", ""},
			{"2023-01-05", "Salary", "-1,000.00", "Income"},
		},
	}

	m.repo.EXPECT().BeginImport(gomock.Any(), owner).Return(m.itx, nil)
	m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
	m.categories.EXPECT().Upsert(gomock.Any(), "Income").DoAndReturn(upsertEcho(true))
	m.itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	m.itx.EXPECT().Commit().Return(nil)
	m.itx.EXPECT().Rollback().Return(nil)

	got, err := svc.ImportTable(context.Background(), owner, table, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Imported)
	assert.Equal(t, 4, got.SkippedInvalid)
	require.Len(t, got.Transactions, 1)
	assert.True(t, got.Transactions[0].IsIncome())
	assert.Equal(t, "Income", got.Transactions[0].CategoryName)
}

func TestService_ImportTable_ExplicitMapping(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()

	table := extract.Table{
		Header: []string{"When", "What", "How much"},
		Rows:   [][]string{{"15/01/2023", "Parking garage", "$12.00"}},
	}

	m.repo.EXPECT().BeginImport(gomock.Any(), owner).Return(m.itx, nil)
	m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
	m.categories.EXPECT().Upsert(gomock.Any(), "Transport").DoAndReturn(upsertEcho(false))
	m.itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	m.itx.EXPECT().Commit().Return(nil)
	m.itx.EXPECT().Rollback().Return(nil)

	got, err := svc.ImportTable(context.Background(), owner, table, &columns.Mapping{
		Date:        "When",
		Description: "What",
		Amount:      "How much",
		Category:    "Group",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Imported)
	assert.Empty(t, got.Categories)
	assert.Equal(t, time.January, got.Transactions[0].Date.Month())
}

func TestService_ImportTable_ResolutionFailure(t *testing.T) {
	svc, _ := newService(t)

	got, err := svc.ImportTable(context.Background(), uuid.New(), scenarioTable, &columns.Mapping{
		Date:        "date",
		Description: "description",
		Amount:      "value",
	})

	var resErr *columns.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, columns.Amount, resErr.Field)
	assert.Nil(t, got)
}

func TestService_ImportTable_PersistenceFailure(t *testing.T) {
	type testCase struct {
		name  string
		setup func(m mocks)
	}

	storageErr := errors.New("connection lost")

	tests := []testCase{
		{
			name: "Begin fails",
			setup: func(m mocks) {
				m.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(nil, storageErr)
			},
		},
		{
			name: "Snapshot fails",
			setup: func(m mocks) {
				m.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(m.itx, nil)
				m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(nil, storageErr)
				m.itx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "Category upsert fails",
			setup: func(m mocks) {
				m.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(m.itx, nil)
				m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
				m.categories.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil, false, storageErr)
				m.itx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "Bulk write fails",
			setup: func(m mocks) {
				m.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(m.itx, nil)
				m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
				m.categories.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(upsertEcho(false)).AnyTimes()
				m.itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(storageErr)
				m.itx.EXPECT().Rollback().Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setup(m)

			got, err := svc.ImportTable(context.Background(), uuid.New(), scenarioTable, nil)

			var persistErr *importer.PersistenceError
			require.ErrorAs(t, err, &persistErr)
			assert.ErrorIs(t, err, importer.ErrPersistence)
			assert.ErrorIs(t, err, storageErr)
			assert.Nil(t, got)
		})
	}
}

func TestService_ImportDocument_Lines(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()

	m.repo.EXPECT().BeginImport(gomock.Any(), owner).Return(m.itx, nil)
	m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
	m.categories.EXPECT().Upsert(gomock.Any(), "Food").DoAndReturn(upsertEcho(true))
	m.itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	m.itx.EXPECT().Commit().Return(nil)
	m.itx.EXPECT().Rollback().Return(nil)

	got, err := svc.ImportDocument(context.Background(), owner, importer.Document{
		Pages: [][]string{{
			"ACME BANK STATEMENT",
			"2023-01-15 Grocery Store $45.67",
			"2023-01-16 Refund adjustment $0.00",
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Imported)
	assert.Equal(t, 1, got.SkippedInvalid)

	tx := got.Transactions[0]
	assert.Equal(t, "Grocery Store", tx.Description)
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.True(t, decimal.RequireFromString("45.67").Equal(tx.Amount))
}

func TestService_ImportDocument_PositionalTable(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()

	m.repo.EXPECT().BeginImport(gomock.Any(), owner).Return(m.itx, nil)
	m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
	m.categories.EXPECT().Upsert(gomock.Any(), "Other").DoAndReturn(upsertEcho(false))
	m.itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	m.itx.EXPECT().Commit().Return(nil)
	m.itx.EXPECT().Rollback().Return(nil)

	got, err := svc.ImportDocument(context.Background(), owner, importer.Document{
		Pages: [][]string{{"ignored when tables exist 2023-01-01 x 1.00"}},
		Tables: []extract.Table{{
			Rows: [][]string{
				{"15-03-2024", "PAGO ABONO NOMINA", "1,200,000.00"},
				{"16-03-2024", "SIN IMPORTE"},
			},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Imported)
	assert.Equal(t, 1, got.SkippedInvalid)
	assert.True(t, decimal.RequireFromString("-1200000").Equal(got.Transactions[0].Amount))
	assert.True(t, got.Transactions[0].IsIncome())
}

func TestService_ImportDocument_NothingFound(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(m.itx, nil)
	m.itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
	m.itx.EXPECT().Rollback().Return(nil)

	got, err := svc.ImportDocument(context.Background(), uuid.New(), importer.Document{
		Pages: [][]string{{"no transactions here"}},
	})
	require.NoError(t, err)
	assert.Zero(t, got.Imported)
}

func TestService_DayFirstLocale(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	cats := category.NewMockRepository(ctrl)

	svc := importer.NewService(repo, cats, category.NewCategorizer(category.DefaultConfig()), nil,
		importer.Options{Locale: normalize.LocaleDayFirst})

	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().ExistingKeys(gomock.Any()).Return(dedup.NewKeySet(), nil)
	cats.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(upsertEcho(false))
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	got, err := svc.ImportTable(context.Background(), uuid.New(), extract.Table{
		Header: []string{"date", "description", "amount"},
		Rows:   [][]string{{"03/04/2024", "Cinema", "9.00"}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, time.April, got.Transactions[0].Date.Month())
}
