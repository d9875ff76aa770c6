// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrJamesThe3rd/tally/internal/category"
	categoryStore "github.com/MrJamesThe3rd/tally/internal/category/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/source"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

type Services struct {
	Transactions *transaction.Service
	Categories   category.Repository
	Importer     *importer.Service
	Export       *export.Service
	Loader       *source.Loader
}

// Wire builds the services on top of db. It does not touch the database.
func Wire(cfg *config.Config, db database.DB, logger *slog.Logger) (*Services, error) {
	rules, err := cfg.Categories()
	if err != nil {
		return nil, fmt.Errorf("loading category rules: %w", err)
	}

	var (
		transactions = txStore.New(db)
		categories   = categoryStore.New(db)
		txService    = transaction.NewService(transactions)
	)

	return &Services{
		Transactions: txService,
		Categories:   categories,
		Importer: importer.NewService(
			transactions,
			categories,
			category.NewCategorizer(rules),
			logger,
			importer.Options{Locale: cfg.Locale(), Sign: cfg.SignPolicy()},
		),
		Export: export.NewService(txService),
		Loader: source.NewLoader(source.NewPDFText(cfg.Import.PDFToText), cfg.Import.MaxUploadBytes),
	}, nil
}

// Open connects to the database, applies pending migrations and wires the services.
// The caller closes the returned pool.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, *Services, error) {
	pool, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	svc, err := Wire(cfg, pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	return pool, svc, nil
}
