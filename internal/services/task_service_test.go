package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studysync/studysync-api/internal/models"
	"github.com/studysync/studysync-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskService(t *testing.T) (*TaskService, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	user := &models.User{
		Username:     "worker",
		Email:        "worker@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)

	return NewTaskService(repository.NewTaskRepository(db)), user
}

func TestTaskService_CreateAndComplete(t *testing.T) {
	service, user := setupTaskService(t)

	task, err := service.CreateTask(CreateTaskInput{
		UserID: user.ID,
		Title:  "Submit assignment",
	})
	require.NoError(t, err)
	assert.False(t, task.Completed)

	task, err = service.SetCompleted(task.ID, user.ID, true)
	require.NoError(t, err)
	assert.True(t, task.Completed)

	task, err = service.SetCompleted(task.ID, user.ID, false)
	require.NoError(t, err)
	assert.False(t, task.Completed)
}

func TestTaskService_CreateTask_TitleRequired(t *testing.T) {
	service, user := setupTaskService(t)

	_, err := service.CreateTask(CreateTaskInput{UserID: user.ID, Title: " "})

	require.ErrorIs(t, err, ErrTaskTitleRequired)
}

func TestTaskService_ListTasks_Pagination(t *testing.T) {
	service, user := setupTaskService(t)

	for _, title := range []string{"one", "two", "three"} {
		_, err := service.CreateTask(CreateTaskInput{UserID: user.ID, Title: title})
		require.NoError(t, err)
	}

	tasks, total, err := service.ListTasks(user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, tasks, 2)

	tasks, total, err = service.ListTasks(user.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, tasks, 1)
}

func TestTaskService_OwnershipScoping(t *testing.T) {
	service, user := setupTaskService(t)

	task, err := service.CreateTask(CreateTaskInput{UserID: user.ID, Title: "Private"})
	require.NoError(t, err)

	otherUserID := user.ID + 1

	_, err = service.SetCompleted(task.ID, otherUserID, true)
	require.ErrorIs(t, err, ErrTaskNotFound)

	err = service.DeleteTask(task.ID, otherUserID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_DeleteTask(t *testing.T) {
	service, user := setupTaskService(t)

	task, err := service.CreateTask(CreateTaskInput{UserID: user.ID, Title: "Gone soon"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteTask(task.ID, user.ID))
	require.ErrorIs(t, service.DeleteTask(task.ID, user.ID), ErrTaskNotFound)
}
