package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyName = errors.New("empty category name")

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

//go:generate mockgen -source=category.go -destination=repository_mock.go -package=category
type Repository interface {
	// Upsert returns the category named name, creating it when absent.
	// created reports whether this call inserted the row.
	Upsert(ctx context.Context, name string) (cat *Category, created bool, err error)
	List(ctx context.Context) ([]*Category, error)
}

// Resolver turns category names into stored categories for one batch,
// hitting the repository at most once per distinct name.
type Resolver struct {
	repo    Repository
	cache   map[string]*Category
	created []*Category
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{
		repo:  repo,
		cache: make(map[string]*Category),
	}
}

func (r *Resolver) Resolve(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if cat, ok := r.cache[name]; ok {
		return cat, nil
	}

	cat, created, err := r.repo.Upsert(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving category %q: %w", name, err)
	}

	r.cache[name] = cat

	if created {
		r.created = append(r.created, cat)
	}

	return cat, nil
}

// Created lists the categories this resolver inserted, in first-use order.
func (r *Resolver) Created() []*Category {
	return r.created
}
