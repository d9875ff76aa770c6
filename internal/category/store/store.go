package store

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/database"
)

type Store struct {
	db database.DB
}

func New(db database.DB) *Store {
	return &Store{db: db}
}

// Upsert relies on the unique name constraint: concurrent callers racing on a
// new name all get the same row and only one of them sees created == true.
func (s *Store) Upsert(ctx context.Context, name string) (*category.Category, bool, error) {
	query := `
		INSERT INTO categories (name, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at, updated_at, (xmax = 0) AS inserted
	`

	var (
		cat     category.Category
		created bool
	)

	if err := s.db.QueryRow(ctx, query, name).Scan(
		&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt, &created,
	); err != nil {
		return nil, false, fmt.Errorf("upserting category: %w", err)
	}

	return &cat, created, nil
}

func (s *Store) List(ctx context.Context) ([]*category.Category, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM categories
		ORDER BY name ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return cats, nil
}
