package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/model"
	"task-manager/internal/repository"
	"task-manager/internal/timeutil"
)

// SeedTestReminder creates a test user and a pending task due today with a
// reminder time a couple of minutes from now, so the next pass fires it.
// Development tooling only.
func SeedTestReminder(ctx context.Context, users *repository.UserRepository, tasks *repository.TaskRepository, email, zone string) (*model.Task, error) {
	user, err := users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			Name:     "Test User",
			Email:    email,
			Timezone: zone,
		}
		if err := users.Create(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("[info] created test user %s", user.Email)
	} else if err != nil {
		return nil, err
	}

	loc, err := timeutil.Location(user.Timezone)
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)

	task := &model.Task{
		OwnerID:      user.ID,
		Title:        "Test Reminder Task",
		Description:  "Task to test reminders",
		Status:       model.StatusPending,
		DueDate:      timeutil.StartOfDay(now.UTC()),
		ReminderTime: now.Add(2 * time.Minute).Format("15:04"),
	}
	if err := tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("seed task: %w", err)
	}

	log.Printf("[info] created test task %q with reminder at %s", task.Title, task.ReminderTime)
	return task, nil
}
