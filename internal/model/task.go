package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses. Pending tasks are the only ones the reminder engine acts on.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusArchived   = "archived"
)

// Task priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Task represents a single item in the planner.
type Task struct {
	ID          string `gorm:"primaryKey;size:36"`
	OwnerID     string `gorm:"index;size:36"`
	Owner       *User  `gorm:"foreignKey:OwnerID"`
	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"index;default:pending"`
	Priority    string `gorm:"default:Medium"`
	DueDate     time.Time
	// ReminderSent gates one-shot reminders; it only moves false -> true.
	ReminderSent bool `gorm:"default:false"`
	// Completed mirrors Status == completed, maintained by BeforeSave.
	Completed     bool `gorm:"default:false"`
	AutoCompleted bool `gorm:"default:false"`
	// ReminderTime is an optional local "HH:MM"; empty means the default hour.
	ReminderTime  string
	DailyReminder bool `gorm:"index;default:false"`
	// LastReminderOn holds the local "YYYY-MM-DD" a daily-reminder task last
	// fired, so recurring reminders fire once per day.
	LastReminderOn string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps the Completed flag consistent with Status.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	t.Completed = t.Status == StatusCompleted
	return nil
}
