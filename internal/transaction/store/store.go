package store

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/dedup"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// insertChunk bounds the rows per INSERT statement so a batch stays under
// the protocol limit of 65535 bind parameters.
const insertChunk = 1000

const insertColumnCount = 7

type Store struct {
	db database.DB
}

func New(db database.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx           transaction.Transaction
		amount       string
		categoryName *string
	)

	if err := s.Scan(
		&tx.ID, &tx.OwnerID, &tx.Date, &tx.Description, &amount,
		&tx.CategoryID, &categoryName, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parsing stored amount %q: %w", amount, err)
	}

	tx.Amount = d

	if categoryName != nil {
		tx.CategoryName = *categoryName
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.owner_id, t.date, t.description, t.amount::text,
	t.category_id, c.name AS category_name, t.created_at, t.updated_at
`

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.owner_id = $1`

	args := []any{filter.OwnerID}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND t.date >= $%d", len(args))
	}

	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND t.date <= $%d", len(args))
	}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND c.name = $%d", len(args))
	}

	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func importLockKey(owner uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("import"))
	h.Write([]byte{0})
	h.Write(owner[:])

	return int64(h.Sum64())
}

type importTx struct {
	tx    pgx.Tx
	owner uuid.UUID
	done  bool
}

// BeginImport opens a transaction holding the owner's advisory lock, so two
// imports for the same owner never read the same snapshot.
func (s *Store) BeginImport(ctx context.Context, owner uuid.UUID) (transaction.ImportTx, error) {
	dbTx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(owner)); err != nil {
		_ = dbTx.Rollback(ctx)
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, owner: owner}, nil
}

func (itx *importTx) Commit() error {
	if itx.done {
		return nil
	}

	itx.done = true

	return itx.tx.Commit(context.Background())
}

func (itx *importTx) Rollback() error {
	if itx.done {
		return nil
	}

	itx.done = true

	err := itx.tx.Rollback(context.Background())
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}

	return err
}

func (itx *importTx) ExistingKeys(ctx context.Context) (dedup.KeySet, error) {
	query := `
		SELECT date, description, amount::text
		FROM transactions
		WHERE owner_id = $1
	`

	rows, err := itx.tx.Query(ctx, query, itx.owner)
	if err != nil {
		return nil, fmt.Errorf("loading existing keys: %w", err)
	}
	defer rows.Close()

	keys := dedup.NewKeySet()

	for rows.Next() {
		var (
			date        time.Time
			description string
			amount      string
		)

		if err := rows.Scan(&date, &description, &amount); err != nil {
			return nil, fmt.Errorf("scanning existing key: %w", err)
		}

		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing stored amount %q: %w", amount, err)
		}

		keys.Add(dedup.KeyOf(date, description, d))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating existing keys: %w", err)
	}

	return keys, nil
}

// CreateTransactions writes txs with multi-row INSERTs inside the import transaction.
// IDs and timestamps are assigned before the write.
func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	now := time.Now().UTC()

	for _, tx := range txs {
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}

		tx.OwnerID = itx.owner
		tx.CreatedAt = now
	}

	for start := 0; start < len(txs); start += insertChunk {
		end := min(start+insertChunk, len(txs))

		query, args := buildInsert(txs[start:end])
		if _, err := itx.tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("creating transactions: %w", err)
		}
	}

	return nil
}

func buildInsert(txs []*transaction.Transaction) (string, []any) {
	var b strings.Builder

	b.WriteString("INSERT INTO transactions (id, owner_id, date, description, amount, category_id, created_at) VALUES ")

	args := make([]any, 0, len(txs)*insertColumnCount)

	for i, tx := range txs {
		if i > 0 {
			b.WriteString(", ")
		}

		n := i * insertColumnCount
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d::numeric, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7)

		args = append(args, tx.ID, tx.OwnerID, tx.Date, tx.Description, tx.Amount.String(), tx.CategoryID, tx.CreatedAt)
	}

	return b.String(), args
}
