package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/category/store"
)

func TestStore_Upsert(t *testing.T) {
	type testCase struct {
		name        string
		inserted    bool
		wantCreated bool
	}

	tests := []testCase{
		{name: "New name", inserted: true, wantCreated: true},
		{name: "Existing name", inserted: false, wantCreated: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			id := uuid.New()
			now := time.Now()

			mock.ExpectQuery(`INSERT INTO categories`).
				WithArgs("Food").
				WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at", "updated_at", "inserted"}).
					AddRow(id, "Food", now, now, tt.inserted))

			got, created, err := store.New(mock).Upsert(context.Background(), "Food")
			require.NoError(t, err)

			assert.Equal(t, id, got.ID)
			assert.Equal(t, "Food", got.Name)
			assert.Equal(t, tt.wantCreated, created)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_UpsertError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs("Food").
		WillReturnError(errors.New("connection refused"))

	got, created, err := store.New(mock).Upsert(context.Background(), "Food")
	assert.ErrorContains(t, err, "upserting category")
	assert.Nil(t, got)
	assert.False(t, created)
}

func TestStore_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, created_at, updated_at\s+FROM categories`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(uuid.New(), "Food", now, now).
			AddRow(uuid.New(), "Other", now, now))

	got, err := store.New(mock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Other", got[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
