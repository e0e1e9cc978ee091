package repository

import (
	"github.com/studysync/studysync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGoalRepository is a GORM implementation of GoalRepository
type GormGoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &GormGoalRepository{db: db}
}

// Create creates a new goal
func (r *GormGoalRepository) Create(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

// FindByOwner finds a goal by ID scoped to its owner
func (r *GormGoalRepository) FindByOwner(id, userID uint64) (*models.Goal, error) {
	var goal models.Goal
	if err := r.db.Where("user_id = ?", userID).First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListByOwner retrieves all goals of a user
func (r *GormGoalRepository) ListByOwner(userID uint64) ([]models.Goal, error) {
	var goals []models.Goal
	if err := r.db.Where("user_id = ?", userID).
		Order("starred DESC, created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// Mutate loads the goal under a row lock, applies fn, and persists the result
// when fn reports a change. The lock serializes concurrent ticks on the same
// goal.
func (r *GormGoalRepository) Mutate(id, userID uint64, fn GoalMutator) (*models.Goal, error) {
	var out *models.Goal
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var goal models.Goal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&goal, id).Error; err != nil {
			return err
		}

		changed, err := fn(&goal)
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Save(&goal).Error; err != nil {
				return err
			}
		}

		out = &goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyDecay persists a batch of day-rollover corrections
func (r *GormGoalRepository) ApplyDecay(updates []GoalDecayUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			fields := map[string]interface{}{}
			if u.ClearCompletedToday {
				fields["completed_today"] = false
			}
			if u.ResetStreak {
				fields["streak"] = 0
			}
			if len(fields) == 0 {
				continue
			}
			if err := tx.Model(&models.Goal{}).
				Where("id = ?", u.GoalID).
				Updates(fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates a goal
func (r *GormGoalRepository) Update(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

// Delete soft deletes a goal scoped to its owner
func (r *GormGoalRepository) Delete(id, userID uint64) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Goal{}, id)
	return result.RowsAffected, result.Error
}
