// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// TaskService manages kitchen duties and regenerates recurring ones.
type TaskService struct {
	*Collection[models.Task]

	logger *logger.Logger
}

// NewTaskService wires the task collection.
func NewTaskService(storages *store.Storages, remote RemoteTable, log *logger.Logger) *TaskService {
	collection := NewCollection("tasks", storages.Tasks, remote, log,
		func(v models.Task) string { return v.ID }).
		WithSanitize(sanitizeTask).
		WithOrder("created_at.desc")

	return &TaskService{Collection: collection, logger: log}
}

// ProcessRecurringTasks regenerates archived completed tasks whose cadence
// boundary has passed: one day for daily tasks, seven for weekly. A fresh
// task (new id, created now) goes through the normal add path. Nothing is
// created while an active task with the same title and category exists, so
// the pass is idempotent within a boundary. Returns the number of tasks
// created.
func (s *TaskService) ProcessRecurringTasks(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.local.List(ctx)
	if err != nil {
		return 0, err
	}

	active := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if !t.Completed && !t.Archived {
			active[t.Title+"\x00"+t.Category] = true
		}
	}

	created := 0
	for _, t := range tasks {
		if !t.Archived || !t.Completed || t.Recurring == "" {
			continue
		}
		if !cadencePassed(t, now) {
			continue
		}
		if active[t.Title+"\x00"+t.Category] {
			continue
		}

		fresh := models.Task{
			ID:          uuid.NewString(),
			Title:       t.Title,
			Category:    t.Category,
			Description: t.Description,
			AssignedTo:  t.AssignedTo,
			Recurring:   t.Recurring,
			CreatedAt:   now.UTC().Format(time.RFC3339),
		}

		if _, err = s.Add(ctx, fresh); err != nil {
			return created, err
		}
		active[fresh.Title+"\x00"+fresh.Category] = true
		created++

		s.logger.Info().
			Str("func", "TaskService.ProcessRecurringTasks").
			Str("title", fresh.Title).
			Str("cadence", fresh.Recurring).
			Msg("regenerated recurring task")
	}

	return created, nil
}

// cadencePassed reports whether the task's cadence boundary lies behind
// now: at least one calendar day since completion for daily tasks, seven
// for weekly. Calendar days, not elapsed hours, so a task completed late
// yesterday regenerates this morning. A task without a parseable
// completion time falls back to its creation time; neither parseable means
// no regeneration.
func cadencePassed(t models.Task, now time.Time) bool {
	ref, err := time.Parse(time.RFC3339, t.CompletedAt)
	if err != nil {
		if ref, err = time.Parse(time.RFC3339, t.CreatedAt); err != nil {
			return false
		}
	}

	days := calendarDaysBetween(ref, now)
	switch t.Recurring {
	case models.RecurringDaily:
		return days >= 1
	case models.RecurringWeekly:
		return days >= 7
	default:
		return false
	}
}

// calendarDaysBetween counts the UTC day boundaries crossed from a to b.
func calendarDaysBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	start := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / (24 * time.Hour))
}

func sanitizeTask(v models.Task) models.Task {
	v.Title = sanitize.Text(v.Title)
	v.Category = sanitize.Text(v.Category)
	v.Description = sanitize.Text(v.Description)
	v.AssignedTo = sanitize.Text(v.AssignedTo)
	return v
}
