package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Atomixxxx/cuisine-app/models"
)

// HACCPRepository serves the compliance views: temperature and oil-change
// readings filtered by equipment and date window. These queries ride the
// (equipment_id, timestamp) compound indexes.
type HACCPRepository struct {
	db *DB
}

// NewHACCPRepository constructs a HACCP query repository.
func NewHACCPRepository(db *DB) *HACCPRepository {
	return &HACCPRepository{db: db}
}

// TemperaturesInRange returns the readings of one equipment unit within
// [from, to], oldest first. Empty from/to bounds are skipped.
func (r *HACCPRepository) TemperaturesInRange(ctx context.Context, equipmentID, from, to string) ([]models.TemperatureRecord, error) {
	b := sq.Select(TemperatureRecordTable.Columns...).
		From(TemperatureRecordTable.Name).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("timestamp ASC")
	if from != "" {
		b = b.Where(sq.GtOrEq{"timestamp": from})
	}
	if to != "" {
		b = b.Where(sq.LtOrEq{"timestamp": to})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query temperature range (equipment_id=%s): %w", equipmentID, err)
	}
	defer rows.Close()

	return scanRows(rows, TemperatureRecordTable)
}

// OilChangesInRange returns the oil changes of one equipment unit within
// [from, to], oldest first.
func (r *HACCPRepository) OilChangesInRange(ctx context.Context, equipmentID, from, to string) ([]models.OilChangeRecord, error) {
	b := sq.Select(OilChangeRecordTable.Columns...).
		From(OilChangeRecordTable.Name).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("timestamp ASC")
	if from != "" {
		b = b.Where(sq.GtOrEq{"timestamp": from})
	}
	if to != "" {
		b = b.Where(sq.LtOrEq{"timestamp": to})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query oil change range (equipment_id=%s): %w", equipmentID, err)
	}
	defer rows.Close()

	return scanRows(rows, OilChangeRecordTable)
}
