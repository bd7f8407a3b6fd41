package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Atomixxxx/cuisine-app/models"
)

// PageRepository serves the paginated local reads used by the two large
// collections (invoices and product traces). Pagination is purely local:
// the sync layer keeps the full table reconciled via its resync pass.
type PageRepository struct {
	db *DB
}

// NewPageRepository constructs a pagination query repository.
func NewPageRepository(db *DB) *PageRepository {
	return &PageRepository{db: db}
}

// InvoicesPage returns one slice of invoices, newest invoice date first.
func (r *PageRepository) InvoicesPage(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	query, args, err := sq.Select(InvoiceTable.Columns...).
		From(InvoiceTable.Name).
		OrderBy("invoice_date DESC, created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices page: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, InvoiceTable)
}

// ProductTracesPage returns one slice of product traces, newest first.
func (r *PageRepository) ProductTracesPage(ctx context.Context, limit, offset int) ([]models.ProductTrace, error) {
	query, args, err := sq.Select(ProductTraceTable.Columns...).
		From(ProductTraceTable.Name).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query product traces page: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, ProductTraceTable)
}

// PriceHistoryByLookupKey returns the price history row for a normalized
// (item, supplier) key, or [ErrNotFound].
func (r *PageRepository) PriceHistoryByLookupKey(ctx context.Context, lookupKey string) (models.PriceHistory, error) {
	var zero models.PriceHistory

	query, args, err := sq.Select(PriceHistoryTable.Columns...).
		From(PriceHistoryTable.Name).
		Where(sq.Eq{"lookup_key": lookupKey}).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	item, err := PriceHistoryTable.Scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("failed to scan price history row (lookup_key=%s): %w", lookupKey, err)
	}

	return item, nil
}
