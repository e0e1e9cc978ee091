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

// fixedClock pins the calendar date so day-boundary behavior is testable.
type fixedClock struct {
	today string
}

func (c *fixedClock) Today() string { return c.today }

type goalServiceTestEnv struct {
	db      *gorm.DB
	clock   *fixedClock
	service *GoalService
	user    *models.User
}

func setupGoalServiceTestEnv(t *testing.T) goalServiceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Goal{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	user := &models.User{
		Username:     "streaker",
		Email:        "streaker@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)

	clock := &fixedClock{today: "2026-03-10"}
	service := NewGoalService(repository.NewGoalRepository(db), clock)

	return goalServiceTestEnv{
		db:      db,
		clock:   clock,
		service: service,
		user:    user,
	}
}

func (env goalServiceTestEnv) createGoal(t *testing.T, title string) *models.Goal {
	t.Helper()
	goal, err := env.service.CreateGoal(CreateGoalInput{
		UserID: env.user.ID,
		Title:  title,
	})
	require.NoError(t, err)
	return goal
}

func (env goalServiceTestEnv) reload(t *testing.T, id uint64) models.Goal {
	t.Helper()
	var goal models.Goal
	require.NoError(t, env.db.First(&goal, id).Error)
	return goal
}

func TestGoalService_CreateGoal(t *testing.T) {
	env := setupGoalServiceTestEnv(t)

	goal := env.createGoal(t, "Read 20 pages")

	assert.Equal(t, 0, goal.Streak)
	assert.Nil(t, goal.LastCompletedDate)
	assert.False(t, goal.CompletedToday)
}

func TestGoalService_CreateGoal_TitleRequired(t *testing.T) {
	env := setupGoalServiceTestEnv(t)

	_, err := env.service.CreateGoal(CreateGoalInput{UserID: env.user.ID, Title: "   "})

	require.ErrorIs(t, err, ErrGoalTitleRequired)
}

func TestGoalService_Tick_CompletePersistsNewStreak(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	result, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	require.Equal(t, TickUpdated, result.Outcome)
	assert.Equal(t, 1, result.NewStreak)

	stored := env.reload(t, goal.ID)
	assert.Equal(t, 1, stored.Streak)
	require.NotNil(t, stored.LastCompletedDate)
	assert.Equal(t, "2026-03-10", *stored.LastCompletedDate)
	assert.True(t, stored.CompletedToday)
}

func TestGoalService_Tick_SecondCompleteSameDayIsNoOp(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	_, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	result, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	assert.Equal(t, TickAlreadyCompleted, result.Outcome)
	assert.Equal(t, 1, env.reload(t, goal.ID).Streak)
}

func TestGoalService_Tick_ConsecutiveDays(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	_, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	env.clock.today = "2026-03-11"
	result, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	require.Equal(t, TickUpdated, result.Outcome)
	assert.Equal(t, 2, result.NewStreak)
}

func TestGoalService_Tick_GapRestartsStreak(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	_, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	env.clock.today = "2026-03-13"
	result, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	require.Equal(t, TickUpdated, result.Outcome)
	assert.Equal(t, 1, result.NewStreak)
}

func TestGoalService_Tick_UndoSameDay(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	_, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	result, err := env.service.Tick(goal.ID, env.user.ID, false)
	require.NoError(t, err)

	require.Equal(t, TickUpdated, result.Outcome)
	assert.Equal(t, 0, result.NewStreak)

	stored := env.reload(t, goal.ID)
	assert.Equal(t, 0, stored.Streak)
	assert.Nil(t, stored.LastCompletedDate)
	assert.False(t, stored.CompletedToday)
}

func TestGoalService_Tick_UndoWithoutCompletionIsNoOp(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	result, err := env.service.Tick(goal.ID, env.user.ID, false)
	require.NoError(t, err)

	assert.Equal(t, TickNothingToUndo, result.Outcome)
}

func TestGoalService_Tick_UndoNextDayIsNoOp(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	_, err := env.service.Tick(goal.ID, env.user.ID, true)
	require.NoError(t, err)

	env.clock.today = "2026-03-11"
	result, err := env.service.Tick(goal.ID, env.user.ID, false)
	require.NoError(t, err)

	assert.Equal(t, TickNothingToUndo, result.Outcome)
	assert.Equal(t, 1, env.reload(t, goal.ID).Streak)
}

func TestGoalService_Tick_OtherUsersGoalNotFound(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	other := &models.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, env.db.Create(other).Error)

	_, err := env.service.Tick(goal.ID, other.ID, true)

	require.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalService_ListGoals_AppliesAndPersistsDecay(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	fresh := env.createGoal(t, "Completed yesterday")
	stale := env.createGoal(t, "Missed a day")

	_, err := env.service.Tick(fresh.ID, env.user.ID, true)
	require.NoError(t, err)
	_, err = env.service.Tick(stale.ID, env.user.ID, true)
	require.NoError(t, err)

	// Age the stale goal's completion by two days.
	twoDaysAgo := "2026-03-08"
	require.NoError(t, env.db.Model(&models.Goal{}).
		Where("id = ?", stale.ID).
		Update("last_completed_date", twoDaysAgo).Error)

	env.clock.today = "2026-03-11"
	goals, err := env.service.ListGoals(env.user.ID)
	require.NoError(t, err)
	require.Len(t, goals, 2)

	byID := make(map[uint64]models.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}

	// Completed yesterday: flag cleared, streak intact.
	assert.False(t, byID[fresh.ID].CompletedToday)
	assert.Equal(t, 1, byID[fresh.ID].Streak)

	// Older than yesterday: flag cleared and streak reset.
	assert.False(t, byID[stale.ID].CompletedToday)
	assert.Equal(t, 0, byID[stale.ID].Streak)

	// Corrections were persisted, not just reflected in the response.
	assert.Equal(t, 1, env.reload(t, fresh.ID).Streak)
	assert.Equal(t, 0, env.reload(t, stale.ID).Streak)
	assert.False(t, env.reload(t, stale.ID).CompletedToday)
}

func TestGoalService_ToggleStar(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	updated, err := env.service.ToggleStar(goal.ID, env.user.ID)
	require.NoError(t, err)
	assert.True(t, updated.Starred)

	updated, err = env.service.ToggleStar(goal.ID, env.user.ID)
	require.NoError(t, err)
	assert.False(t, updated.Starred)
}

func TestGoalService_DeleteGoal(t *testing.T) {
	env := setupGoalServiceTestEnv(t)
	goal := env.createGoal(t, "Read 20 pages")

	require.NoError(t, env.service.DeleteGoal(goal.ID, env.user.ID))

	err := env.service.DeleteGoal(goal.ID, env.user.ID)
	require.ErrorIs(t, err, ErrGoalNotFound)
}
