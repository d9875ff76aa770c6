package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestService_WriteCSV(t *testing.T) {
	owner := uuid.New()
	filter := transaction.ListFilter{OwnerID: owner}

	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		want      string
		wantCount int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), filter).Return([]*transaction.Transaction{
					{
						Date:         date("2024-01-15"),
						Description:  "Lunch, downtown",
						Amount:       decimal.RequireFromString("25.50"),
						CategoryName: "Food",
					},
					{
						Date:        date("2024-01-10"),
						Description: "Salary",
						Amount:      decimal.RequireFromString("-1500"),
					},
				}, nil)
			},
			want: "date,description,amount,category,type\n" +
				"2024-01-15,\"Lunch, downtown\",25.5,Food,expense\n" +
				"2024-01-10,Salary,-1500,Uncategorized,income\n",
			wantCount: 2,
		},
		{
			name: "ListError",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), filter).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := export.NewService(transaction.NewService(repo))

			var buf bytes.Buffer
			n, err := svc.WriteCSV(context.Background(), filter, &buf)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, n)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReport(t *testing.T) {
	rows := []export.Row{
		{Date: "2024-01-15", Description: "Lunch", Amount: "25.5", Category: "Food", Type: export.TypeExpense},
		{Date: "2024-01-10", Description: "Salary", Amount: "-1500", Category: "Uncategorized", Type: export.TypeIncome},
	}

	want := "* 2024-01-15 | Lunch | -25.5 | Food\n" +
		"* 2024-01-10 | Salary | +1500 | Uncategorized\n"

	assert.Equal(t, want, export.Report(rows))
}
