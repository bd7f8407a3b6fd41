// SPDX-License-Identifier: Apache-2.0

// Package client assembles the application runtime: local storage, the
// remote gateway, the service layer, the pin lock, the backup engine and
// the background maintenance workers, wired into one process lifecycle.
package client

import (
	"context"
	"fmt"

	"github.com/Atomixxxx/cuisine-app/internal/backup"
	"github.com/Atomixxxx/cuisine-app/internal/config"
	"github.com/Atomixxxx/cuisine-app/internal/gateway"
	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/pinlock"
	"github.com/Atomixxxx/cuisine-app/internal/service"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/internal/workers"
)

// App owns every long-lived component of the application.
type App struct {
	Storages *store.Storages
	Gateway  *gateway.Gateway
	Services *service.Services
	PinLock  *pinlock.Service
	Backups  *backup.Engine

	workers *workers.Workers
	logger  *logger.Logger
}

// NewApp wires the full component graph from the loaded configuration.
// With no remote configured every component still works: the sync layer
// serves the local cache and never attempts a network call.
func NewApp(cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	gw := gateway.NewGateway(cfg.Remote, log)
	services := service.NewServices(storages, gw, log)
	backups := backup.NewEngine(storages, log)

	maintenance := workers.NewMaintenance(
		services.Tasks,
		backups,
		cfg.Workers.BackupCheckInterval,
		log,
	)

	return &App{
		Storages: storages,
		Gateway:  gw,
		Services: services,
		PinLock:  pinlock.NewService(storages.KV, log),
		Backups:  backups,
		workers:  workers.NewWorkers(maintenance),
		logger:   log,
	}, nil
}

// Run restores any persisted session, starts the background workers and
// blocks until ctx is cancelled. Workers are stopped before Run returns.
func (a *App) Run(ctx context.Context) error {
	a.Services.Auth.RestoreSession(ctx)

	a.workers.Start(ctx)
	defer a.workers.Stop()

	a.logger.Info().
		Str("func", "App.Run").
		Bool("cloud", a.Gateway.IsConfigured()).
		Msg("application started")

	<-ctx.Done()

	a.logger.Info().Str("func", "App.Run").Msg("shutting down")

	return a.Close()
}

// Close releases held resources. Safe to call once after Run returns.
func (a *App) Close() error {
	if err := a.Storages.DB.Close(); err != nil {
		return fmt.Errorf("close local database: %w", err)
	}
	return nil
}
