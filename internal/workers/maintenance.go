// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
)

// defaultInterval is how often the maintenance pass runs when no interval
// is configured.
const defaultInterval = time.Hour

// TaskRecycler materialises fresh copies of archived recurring tasks.
// Implemented by [service.TaskService].
type TaskRecycler interface {
	ProcessRecurringTasks(ctx context.Context, now time.Time) (int, error)
}

// WeeklyBackup writes the once-per-ISO-week snapshot. Implemented by
// [backup.Engine].
type WeeklyBackup interface {
	RunWeekly(ctx context.Context, now time.Time) (string, error)
}

// Maintenance runs the recurring-task pass and the weekly backup: once
// immediately on Start, then on a ticker. Both steps are attempted on
// every pass; a failure in one never blocks the other.
type Maintenance struct {
	tasks    TaskRecycler
	backups  WeeklyBackup
	interval time.Duration
	logger   *logger.Logger

	// now is replaceable for tests.
	now func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMaintenance creates a maintenance worker. A zero or negative interval
// falls back to the default. The worker is idle until Start is called.
func NewMaintenance(tasks TaskRecycler, backups WeeklyBackup, interval time.Duration, log *logger.Logger) *Maintenance {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Maintenance{
		tasks:    tasks,
		backups:  backups,
		interval: interval,
		logger:   log,
		now:      time.Now,
	}
}

// RunOnce performs one maintenance pass. Step failures are logged and
// collected; the other step still runs.
func (m *Maintenance) RunOnce(ctx context.Context) error {
	now := m.now()

	var errs []error

	created, err := m.tasks.ProcessRecurringTasks(ctx, now)
	if err != nil {
		m.logger.Error().Err(err).
			Str("func", "Maintenance.RunOnce").
			Msg("recurring task pass failed")
		errs = append(errs, err)
	} else if created > 0 {
		m.logger.Info().
			Str("func", "Maintenance.RunOnce").
			Int("created", created).
			Msg("recurring tasks materialised")
	}

	result, err := m.backups.RunWeekly(ctx, now)
	if err != nil {
		m.logger.Error().Err(err).
			Str("func", "Maintenance.RunOnce").
			Msg("weekly backup failed")
		errs = append(errs, err)
	} else {
		m.logger.Debug().
			Str("func", "Maintenance.RunOnce").
			Str("result", result).
			Msg("weekly backup pass finished")
	}

	return errors.Join(errs...)
}

// Start stops any previously running job, runs one pass immediately, then
// launches a goroutine repeating the pass every interval. The goroutine
// exits when ctx is cancelled or Stop is called.
func (m *Maintenance) Start(ctx context.Context) {
	m.Stop()

	m.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()

		_ = m.RunOnce(jobCtx)

		t := time.NewTicker(m.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = m.RunOnce(jobCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has exited.
// Safe to call when the job is not running.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}
