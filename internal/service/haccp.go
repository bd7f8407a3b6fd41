// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// HACCPService covers the food-safety collections: equipment, temperature
// readings and fryer oil changes. Range reads are local-only; the row
// collections follow the uniform sync protocol.
type HACCPService struct {
	Equipment    *Collection[models.Equipment]
	Temperatures *Collection[models.TemperatureRecord]
	OilChanges   *Collection[models.OilChangeRecord]

	ranges *store.HACCPRepository
}

// NewHACCPService wires the three HACCP collections.
func NewHACCPService(storages *store.Storages, remote RemoteTable, log *logger.Logger) *HACCPService {
	equipment := NewCollection("equipment", storages.Equipment, remote, log,
		func(v models.Equipment) string { return v.ID }).
		WithSanitize(sanitizeEquipment).
		WithOrder("created_at.asc")

	temperatures := NewCollection("temperature_records", storages.TemperatureRecords, remote, log,
		func(v models.TemperatureRecord) string { return v.ID }).
		WithSanitize(sanitizeTemperatureRecord).
		WithOrder("timestamp.asc")

	oilChanges := NewCollection("oil_change_records", storages.OilChangeRecords, remote, log,
		func(v models.OilChangeRecord) string { return v.ID }).
		WithSanitize(sanitizeOilChangeRecord).
		WithOrder("timestamp.asc")

	return &HACCPService{
		Equipment:    equipment,
		Temperatures: temperatures,
		OilChanges:   oilChanges,
		ranges:       storages.HACCP,
	}
}

// TemperaturesInRange returns readings for one piece of equipment between
// the optional from and to bounds (RFC3339). Reads the local cache only.
func (s *HACCPService) TemperaturesInRange(ctx context.Context, equipmentID, from, to string) ([]models.TemperatureRecord, error) {
	return s.ranges.TemperaturesInRange(ctx, equipmentID, from, to)
}

// OilChangesInRange returns oil changes for one piece of equipment between
// the optional from and to bounds (RFC3339). Reads the local cache only.
func (s *HACCPService) OilChangesInRange(ctx context.Context, equipmentID, from, to string) ([]models.OilChangeRecord, error) {
	return s.ranges.OilChangesInRange(ctx, equipmentID, from, to)
}

func sanitizeEquipment(v models.Equipment) models.Equipment {
	v.Name = sanitize.Text(v.Name)
	v.Type = sanitize.Text(v.Type)
	v.Location = sanitize.Text(v.Location)
	return v
}

func sanitizeTemperatureRecord(v models.TemperatureRecord) models.TemperatureRecord {
	v.Notes = sanitize.Text(v.Notes)
	v.RecordedBy = sanitize.Text(v.RecordedBy)
	return v
}

func sanitizeOilChangeRecord(v models.OilChangeRecord) models.OilChangeRecord {
	v.OilType = sanitize.Text(v.OilType)
	v.Notes = sanitize.Text(v.Notes)
	v.ChangedBy = sanitize.Text(v.ChangedBy)
	return v
}
