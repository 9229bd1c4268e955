package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-manager/internal/model"
	"task-manager/internal/repository"
	"task-manager/internal/service"
)

type dropNotifier struct{}

func (dropNotifier) Send(ctx context.Context, to, subject, body string) error { return nil }

func newTestServer(t *testing.T, devMode bool) *Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	engine := service.NewEngine(tasks, users, dropNotifier{}, service.EngineOptions{})
	repair := service.NewRepairService(tasks, users)
	return New(engine, repair, users, tasks, devMode)
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(t, false)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestTriggerRunsOnePass(t *testing.T) {
	s := newTestServer(t, false)

	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/reminders/trigger", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var report service.PassReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.False(t, report.SkippedAlreadyRunning)
	assert.Zero(t, report.NotificationsSent)
}

func TestDevRoutesAreGated(t *testing.T) {
	prod := newTestServer(t, false)
	resp, err := prod.app.Test(httptest.NewRequest("POST", "/api/dev/fix-tasks", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	dev := newTestServer(t, true)
	resp, err = dev.app.Test(httptest.NewRequest("POST", "/api/dev/fix-tasks", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
