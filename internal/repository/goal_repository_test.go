package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studysync/studysync-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockRepo(t *testing.T) (GoalRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGoalRepository(db), mock
}

// The tick read-modify-write must run in one transaction with the goal row
// locked, so concurrent ticks cannot interleave between read and write.
func TestGoalRepository_Mutate_LocksRowInTransaction(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `goals` WHERE user_id = (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "title", "streak", "completed_today"}).
			AddRow(1, 10, "Read 20 pages", 3, false))
	mock.ExpectExec("UPDATE `goals` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	goal, err := repo.Mutate(1, 10, func(g *models.Goal) (bool, error) {
		g.Streak = 4
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, goal.Streak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A no-op tick still takes the lock but must not write anything.
func TestGoalRepository_Mutate_SkipsSaveWhenUnchanged(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `goals` WHERE user_id = (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "title", "streak", "completed_today"}).
			AddRow(1, 10, "Read 20 pages", 3, false))
	mock.ExpectCommit()

	goal, err := repo.Mutate(1, 10, func(g *models.Goal) (bool, error) {
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, goal.Streak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_Mutate_RollsBackOnMutatorError(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `goals` WHERE user_id = (.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "title", "streak", "completed_today"}).
			AddRow(1, 10, "Read 20 pages", 3, false))
	mock.ExpectRollback()

	_, err := repo.Mutate(1, 10, func(g *models.Goal) (bool, error) {
		return false, gorm.ErrInvalidData
	})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_ApplyDecay_BatchesUpdatesInTransaction(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `goals` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `goals` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ApplyDecay([]GoalDecayUpdate{
		{GoalID: 1, ClearCompletedToday: true},
		{GoalID: 2, ClearCompletedToday: true, ResetStreak: true},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_ApplyDecay_EmptyBatchDoesNothing(t *testing.T) {
	repo, mock := setupMockRepo(t)

	require.NoError(t, repo.ApplyDecay(nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
