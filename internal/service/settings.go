// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"time"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// SettingsService manages the application settings singleton. Whatever id a
// caller passes in, the stored row is always [models.SettingsID].
type SettingsService struct {
	*Collection[models.AppSettings]
}

// NewSettingsService wires the settings collection.
func NewSettingsService(storages *store.Storages, remote RemoteTable, log *logger.Logger) *SettingsService {
	collection := NewCollection("app_settings", storages.Settings, remote, log,
		func(v models.AppSettings) string { return v.ID }).
		WithSanitize(sanitizeSettings)

	return &SettingsService{Collection: collection}
}

// Get returns the settings singleton, or an empty default when none has
// been saved yet.
func (s *SettingsService) Get(ctx context.Context) (models.AppSettings, error) {
	settings, err := s.local.Get(ctx, models.SettingsID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.AppSettings{ID: models.SettingsID}, nil
		}
		return models.AppSettings{}, err
	}
	return settings, nil
}

// Save writes the settings singleton through the uniform write path.
func (s *SettingsService) Save(ctx context.Context, settings models.AppSettings) (models.AppSettings, error) {
	settings.ID = models.SettingsID
	settings.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.Update(ctx, settings)
}

func sanitizeSettings(v models.AppSettings) models.AppSettings {
	v.EstablishmentName = sanitize.Text(v.EstablishmentName)
	v.Language = sanitize.Text(v.Language)
	v.TemperatureUnit = sanitize.Text(v.TemperatureUnit)
	return v
}
