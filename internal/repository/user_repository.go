package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// UserRepository handles user storage.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// ListDailyReminderUsers returns users opted into the standalone daily
// reminder who have a reminder time configured.
func (r *UserRepository) ListDailyReminderUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("daily_reminder = ? AND reminder_time <> ''", true).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list daily-reminder users: %w", err)
	}
	return users, nil
}

// SetLastDailyReminderOn records the local date the user's daily reminder
// last fired.
func (r *UserRepository) SetLastDailyReminderOn(ctx context.Context, userID, day string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_daily_reminder_on", day).Error; err != nil {
		return fmt.Errorf("set last daily reminder date: %w", err)
	}
	return nil
}

// SetTimezone backfills a user's timezone, used by the data repair sweep.
func (r *UserRepository) SetTimezone(ctx context.Context, userID, zone string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("timezone", zone).Error; err != nil {
		return fmt.Errorf("set user timezone: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
