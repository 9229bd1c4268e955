package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns tasks and carries the reminder preferences the engine reads.
type User struct {
	ID    string `gorm:"primaryKey;size:36"`
	Name  string
	Email string `gorm:"uniqueIndex"`
	// Timezone is an IANA zone name; empty means UTC.
	Timezone string
	// TelegramChatID is the delivery address when notifications go out over
	// Telegram instead of email. Zero means the user has no chat linked.
	TelegramChatID int64
	// DailyReminder opts the user into a standalone daily reminder at
	// ReminderTime (local "HH:MM", required when opted in).
	DailyReminder bool `gorm:"index;default:false"`
	ReminderTime  string
	// LastDailyReminderOn holds the local "YYYY-MM-DD" the daily reminder
	// last fired, so it fires at most once per day.
	LastDailyReminderOn string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
