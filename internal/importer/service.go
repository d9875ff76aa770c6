package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/columns"
	"github.com/MrJamesThe3rd/tally/internal/dedup"
	"github.com/MrJamesThe3rd/tally/internal/extract"
	"github.com/MrJamesThe3rd/tally/internal/normalize"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Options struct {
	Locale normalize.Locale
	Sign   extract.SignPolicy
}

type Service struct {
	transactions transaction.Repository
	categories   category.Repository
	categorizer  *category.Categorizer
	lines        *extract.LineExtractor
	tables       *extract.TableExtractor
	dates        normalize.DateChain
	amounts      normalize.AmountParser
	logger       *slog.Logger
}

func NewService(
	transactions transaction.Repository,
	categories category.Repository,
	categorizer *category.Categorizer,
	logger *slog.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		transactions: transactions,
		categories:   categories,
		categorizer:  categorizer,
		lines:        extract.NewLineExtractor(),
		tables:       extract.NewTableExtractor(opts.Sign),
		dates:        normalize.ChainFor(opts.Locale),
		amounts:      normalize.AmountParser{SkipZero: true},
		logger:       logger.With("component", "importer"),
	}
}

// ImportTable imports a delimited table. With a nil mapping the columns are
// found by keyword; an explicit mapping must name existing columns.
func (s *Service) ImportTable(ctx context.Context, owner uuid.UUID, table extract.Table, mapping *columns.Mapping) (*BatchResult, error) {
	var res columns.Resolution

	if mapping != nil {
		var err error
		if res, err = columns.ResolveExplicit(*mapping, table.Header); err != nil {
			return nil, err
		}
	} else {
		res = columns.ResolveByKeyword(table.Header)
		if err := res.Complete(); err != nil {
			return nil, err
		}
	}

	if len(res.Positional) > 0 {
		s.logger.Warn("columns guessed by position", "fields", res.Positional, "header", table.Header)
	}

	var (
		candidates []transaction.Candidate
		invalid    int
	)

	for i, row := range table.Rows {
		c, err := s.readRow(res, row)
		if err != nil {
			invalid++

			s.logger.Debug("skipping row", "row", i+1, "error", err)

			continue
		}

		candidates = append(candidates, c)
	}

	return s.commit(ctx, owner, candidates, invalid)
}

func (s *Service) readRow(res columns.Resolution, row []string) (transaction.Candidate, error) {
	date, err := s.dates.Parse(res.Value(row, columns.Date))
	if err != nil {
		return transaction.Candidate{}, err
	}

	description := res.Value(row, columns.Description)
	if description == "" {
		return transaction.Candidate{}, &normalize.FieldParseError{
			Field: normalize.FieldDescription,
			Err:   normalize.ErrEmptyField,
		}
	}

	amount, err := s.amounts.Parse(res.Value(row, columns.Amount))
	if err != nil {
		return transaction.Candidate{}, err
	}

	return transaction.Candidate{
		Date:         date,
		Description:  description,
		Amount:       amount,
		CategoryName: res.Value(row, columns.Category),
	}, nil
}

// ImportDocument imports content pulled out of a document. Tables take
// precedence over text lines when the source produced both.
func (s *Service) ImportDocument(ctx context.Context, owner uuid.UUID, doc Document) (*BatchResult, error) {
	var (
		candidates []transaction.Candidate
		invalid    int
	)

	if len(doc.Tables) > 0 {
		for i, t := range doc.Tables {
			if t.Empty() {
				continue
			}

			out := s.tables.Extract(t)
			if out.Positional {
				s.logger.Debug("table read by position", "table", i)
			}

			candidates = append(candidates, out.Candidates...)
			invalid += out.Failed
		}
	} else {
		candidates = s.lines.ExtractPages(doc.Pages)
	}

	kept := candidates[:0]

	for _, c := range candidates {
		if c.Amount.IsZero() {
			invalid++
			continue
		}

		kept = append(kept, c)
	}

	return s.commit(ctx, owner, kept, invalid)
}

// commit categorizes, drops rows already on record and stores the rest in one write.
func (s *Service) commit(ctx context.Context, owner uuid.UUID, candidates []transaction.Candidate, invalid int) (*BatchResult, error) {
	result := &BatchResult{SkippedInvalid: invalid}

	for i := range candidates {
		if strings.TrimSpace(candidates[i].CategoryName) == "" {
			candidates[i].CategoryName = s.categorizer.Categorize(candidates[i].Description)
		}
	}

	itx, err := s.transactions.BeginImport(ctx, owner)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	defer itx.Rollback()

	existing, err := itx.ExistingKeys(ctx)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	accepted, duplicates := dedup.FilterNew(candidates, existing)
	result.SkippedDuplicates = duplicates

	if len(accepted) == 0 {
		s.logResult(owner, result)
		return result, nil
	}

	resolver := category.NewResolver(s.categories)
	txs := make([]*transaction.Transaction, 0, len(accepted))

	for _, c := range accepted {
		cat, err := resolver.Resolve(ctx, c.CategoryName)
		if err != nil {
			return nil, &PersistenceError{Err: err}
		}

		c.CategoryName = cat.Name
		txs = append(txs, transaction.FromCandidate(owner, c, &cat.ID))
	}

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	if err := itx.Commit(); err != nil {
		return nil, &PersistenceError{Err: fmt.Errorf("commit import: %w", err)}
	}

	result.Imported = len(txs)
	result.Transactions = txs
	result.Categories = resolver.Created()

	s.logResult(owner, result)

	return result, nil
}

func (s *Service) logResult(owner uuid.UUID, r *BatchResult) {
	s.logger.Info("batch imported",
		"owner", owner,
		"imported", r.Imported,
		"skipped_duplicates", r.SkippedDuplicates,
		"skipped_invalid", r.SkippedInvalid,
		"new_categories", len(r.Categories),
	)
}
