package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/dedup"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	BeginImport(ctx context.Context, owner uuid.UUID) (ImportTx, error)
}

// ImportTx is one import unit for a single owner. The snapshot returned by
// ExistingKeys stays valid until Commit or Rollback.
type ImportTx interface {
	ExistingKeys(ctx context.Context) (dedup.KeySet, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	OwnerID   uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Summary(ctx context.Context, filter ListFilter) (*Summary, error) {
	txs, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return Summarize(txs), nil
}
