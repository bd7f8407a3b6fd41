// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// PricingService maintains the derived price-history table: one row per
// normalized (item, supplier) pair, aggregating every observed invoice line
// price. The table is never a source of truth; RebuildPriceHistory can
// regenerate it from the invoice collection at any time.
// PriceLookup resolves a price-history row by its normalized key.
// Satisfied by [store.PageRepository].
type PriceLookup interface {
	PriceHistoryByLookupKey(ctx context.Context, key string) (models.PriceHistory, error)
}

type PricingService struct {
	*Collection[models.PriceHistory]

	invoices LocalTable[models.Invoice]
	pages    PriceLookup
	logger   *logger.Logger
}

// NewPricingService wires the price-history collection.
func NewPricingService(storages *store.Storages, remote RemoteTable, log *logger.Logger) *PricingService {
	collection := NewCollection("price_history", storages.PriceHistory, remote, log,
		func(v models.PriceHistory) string { return v.ID }).
		WithOrder("updated_at.desc").
		WithConflictKeys("lookup_key")

	return &PricingService{
		Collection: collection,
		invoices:   storages.Invoices,
		pages:      storages.Pages,
		logger:     log,
	}
}

// UpdatePriceHistory folds one invoice into the price history: every line
// item with a positive unit price appends an observation to the row keyed by
// the normalized (item, supplier) pair, creating the row when absent.
func (s *PricingService) UpdatePriceHistory(ctx context.Context, invoice models.Invoice) error {
	now := time.Now().UTC().Format(time.RFC3339)

	for _, item := range invoice.Items {
		if item.UnitPrice <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}

		key := lookupKey(item.Name, invoice.Supplier)

		row, err := s.pages.PriceHistoryByLookupKey(ctx, key)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("load price history %s: %w", key, err)
			}
			row = models.PriceHistory{
				ID:        uuid.NewString(),
				LookupKey: key,
				ItemName:  item.Name,
				Supplier:  invoice.Supplier,
			}
		}

		row.Observations = append(row.Observations, models.PriceObservation{
			Date:  invoice.InvoiceDate,
			Price: item.UnitPrice,
		})
		row = recomputeStats(row)
		row.UpdatedAt = now

		if _, err = s.Update(ctx, row); err != nil {
			return err
		}
	}

	return nil
}

// RebuildPriceHistory regenerates the whole table from the local invoice
// collection, replacing the local rows in one transaction. The remote table
// is replaced best-effort: its rows are cleared before the rebuilt rows are
// pushed, so stale keys never linger server-side.
func (s *PricingService) RebuildPriceHistory(ctx context.Context) error {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return fmt.Errorf("list invoices for rebuild: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	byKey := make(map[string]*models.PriceHistory)
	var order []string

	for _, invoice := range invoices {
		for _, item := range invoice.Items {
			if item.UnitPrice <= 0 || strings.TrimSpace(item.Name) == "" {
				continue
			}

			key := lookupKey(item.Name, invoice.Supplier)
			row, ok := byKey[key]
			if !ok {
				row = &models.PriceHistory{
					ID:        uuid.NewString(),
					LookupKey: key,
					ItemName:  item.Name,
					Supplier:  invoice.Supplier,
					UpdatedAt: now,
				}
				byKey[key] = row
				order = append(order, key)
			}

			row.Observations = append(row.Observations, models.PriceObservation{
				Date:  invoice.InvoiceDate,
				Price: item.UnitPrice,
			})
		}
	}

	rows := make([]models.PriceHistory, 0, len(byKey))
	for _, key := range order {
		rows = append(rows, recomputeStats(*byKey[key]))
	}

	if err = s.local.ReplaceAll(ctx, rows); err != nil {
		return fmt.Errorf("replace price history: %w", err)
	}

	s.bestEffort(ctx, "replace remote price history", func() error {
		if err := s.remote.DeleteRows(ctx, s.table, map[string]string{"id": "not.is.null"}); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := s.remote.UpsertRows(ctx, s.table, rows, s.conflict)
		return err
	})

	s.logger.Info().
		Str("func", "PricingService.RebuildPriceHistory").
		Int("rows", len(rows)).
		Msg("rebuilt price history from invoices")

	return nil
}

// ByLookupKey returns the price history row for a raw (item, supplier) pair.
func (s *PricingService) ByLookupKey(ctx context.Context, itemName, supplier string) (models.PriceHistory, error) {
	return s.pages.PriceHistoryByLookupKey(ctx, lookupKey(itemName, supplier))
}

func recomputeStats(row models.PriceHistory) models.PriceHistory {
	if len(row.Observations) == 0 {
		row.AveragePrice, row.MinPrice, row.MaxPrice = 0, 0, 0
		return row
	}

	min, max, sum := row.Observations[0].Price, row.Observations[0].Price, 0.0
	for _, obs := range row.Observations {
		if obs.Price < min {
			min = obs.Price
		}
		if obs.Price > max {
			max = obs.Price
		}
		sum += obs.Price
	}

	row.MinPrice = min
	row.MaxPrice = max
	row.AveragePrice = sum / float64(len(row.Observations))
	return row
}

func lookupKey(itemName, supplier string) string {
	return NormalizeKey(itemName) + "|" + NormalizeKey(supplier)
}

// diacriticStripper removes combining marks after NFD decomposition, so
// "Crème fraîche" and "Creme fraiche" normalize to the same key.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeKey lowercases s, strips diacritics and collapses runs of
// whitespace to single spaces.
func NormalizeKey(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}

	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
