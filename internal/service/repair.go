package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"task-manager/internal/model"
	"task-manager/internal/timeutil"
)

// RepairStore is the storage surface of the data repair sweep.
type RepairStore interface {
	ListAllWithOwner(ctx context.Context) ([]model.Task, error)
}

// RepairUserStore mutates users during the repair sweep.
type RepairUserStore interface {
	SetTimezone(ctx context.Context, userID, zone string) error
}

// RepairReport summarizes one repair sweep.
type RepairReport struct {
	TasksScanned       int `json:"tasksScanned"`
	OrphanedTasks      int `json:"orphanedTasks"`
	TimezonesDefaulted int `json:"timezonesDefaulted"`
	MissingAddresses   int `json:"missingAddresses"`
}

// RepairService walks the task table and patches up records the reminder
// engine would otherwise have to skip: owners without a timezone get UTC,
// orphaned tasks and owners without a delivery address are reported.
type RepairService struct {
	tasks RepairStore
	users RepairUserStore
}

func NewRepairService(tasks RepairStore, users RepairUserStore) *RepairService {
	return &RepairService{tasks: tasks, users: users}
}

func (s *RepairService) Run(ctx context.Context) (RepairReport, error) {
	var report RepairReport

	tasks, err := s.tasks.ListAllWithOwner(ctx)
	if err != nil {
		return report, fmt.Errorf("repair sweep: %w", err)
	}
	report.TasksScanned = len(tasks)

	// A user may own several tasks; patch each one once.
	patched := make(map[string]bool)

	for _, task := range tasks {
		owner := task.Owner
		if owner == nil {
			log.Printf("task %q has no owner, skipping", task.Title)
			report.OrphanedTasks++
			continue
		}

		if owner.Timezone == "" && !patched[owner.ID] {
			if err := s.users.SetTimezone(ctx, owner.ID, "UTC"); err != nil {
				log.Printf("default timezone for user %s: %v", owner.ID, err)
			} else {
				patched[owner.ID] = true
				report.TimezonesDefaulted++
			}
		} else if owner.Timezone != "" {
			if _, err := timeutil.Location(owner.Timezone); errors.Is(err, timeutil.ErrInvalidTimezone) {
				log.Printf("user %s has invalid timezone %q", owner.ID, owner.Timezone)
			}
		}

		if owner.Email == "" && owner.TelegramChatID == 0 {
			log.Printf("user %s has no delivery address, task %q cannot be reminded", owner.ID, task.Title)
			report.MissingAddresses++
		}
	}

	log.Printf("[info] repair sweep done: %d tasks, %d orphaned, %d timezones defaulted",
		report.TasksScanned, report.OrphanedTasks, report.TimezonesDefaulted)
	return report, nil
}
