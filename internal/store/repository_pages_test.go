package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRepository_InvoicesPage(t *testing.T) {
	db, mock, conn := newTestDB(t)
	defer conn.Close()

	rows := sqlmock.NewRows([]string{
		"id", "supplier", "invoice_date", "number", "total_amount",
		"items", "images", "image_urls", "notes", "created_at",
	}).AddRow(
		"inv-1", "Metro", "2024-03-08", "F-101", 80.0,
		"[]", "[]", "[]", "", "2024-03-08T10:00:00Z",
	)
	mock.ExpectQuery("FROM invoices .*LIMIT 20 OFFSET 40").WillReturnRows(rows)

	repo := NewPageRepository(db)
	got, err := repo.InvoicesPage(context.Background(), 20, 40)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "inv-1", got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPageRepository_ProductTracesPage(t *testing.T) {
	db, mock, conn := newTestDB(t)
	defer conn.Close()

	mock.ExpectQuery("FROM product_traces .*LIMIT 50 OFFSET 0").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewPageRepository(db)
	got, err := repo.ProductTracesPage(context.Background(), 50, 0)

	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPageRepository_PriceHistoryByLookupKey_NotFound(t *testing.T) {
	db, mock, conn := newTestDB(t)
	defer conn.Close()

	mock.ExpectQuery("FROM price_history").
		WithArgs("tomates|pomona").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewPageRepository(db)
	_, err := repo.PriceHistoryByLookupKey(context.Background(), "tomates|pomona")

	require.ErrorIs(t, err, ErrNotFound)
}
