package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-manager/internal/model"
	"task-manager/internal/repository"
)

func TestRepairSweep(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	ctx := context.Background()

	noZone := &model.User{Name: "Ada", Email: "ada@example.com"}
	noAddress := &model.User{Name: "Bob", Timezone: "UTC"}
	require.NoError(t, users.Create(ctx, noZone))
	require.NoError(t, users.Create(ctx, noAddress))

	due := time.Now()
	for _, task := range []*model.Task{
		{OwnerID: noZone.ID, Title: "A", Status: model.StatusPending, DueDate: due},
		{OwnerID: noAddress.ID, Title: "B", Status: model.StatusPending, DueDate: due},
		{OwnerID: "gone", Title: "C", Status: model.StatusPending, DueDate: due},
	} {
		require.NoError(t, tasks.Create(ctx, task))
	}

	report, err := NewRepairService(tasks, users).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TasksScanned)
	assert.Equal(t, 1, report.OrphanedTasks)
	assert.Equal(t, 1, report.TimezonesDefaulted)
	assert.Equal(t, 1, report.MissingAddresses)

	reloaded, err := users.FindByID(ctx, noZone.ID)
	require.NoError(t, err)
	assert.Equal(t, "UTC", reloaded.Timezone)
}
