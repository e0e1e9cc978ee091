package repository

import (
	"time"

	"github.com/studysync/studysync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoomRepository is a GORM implementation of RoomRepository
type GormRoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &GormRoomRepository{db: db}
}

// Create creates a room and its member rows in one transaction
func (r *GormRoomRepository) Create(room *models.Room, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		members := make([]models.RoomMember, len(memberIDs))
		for i, userID := range memberIDs {
			members[i] = models.RoomMember{
				RoomID:   room.ID,
				UserID:   userID,
				JoinedAt: time.Now(),
			}
		}

		return tx.Create(&members).Error
	})
}

// FindByID finds a room by ID with optional preloading
func (r *GormRoomRepository) FindByID(id uint64, preload ...string) (*models.Room, error) {
	var room models.Room
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// ListByMember lists rooms the user belongs to
func (r *GormRoomRepository) ListByMember(userID uint64) ([]models.Room, error) {
	var rooms []models.Room
	memberSubQuery := r.db.Model(&models.RoomMember{}).
		Select("room_id").
		Where("user_id = ?", userID)

	if err := r.db.Preload("Creator").
		Preload("Members").
		Preload("Members.User").
		Where("id IN (?)", memberSubQuery).
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// IsMember reports whether the user is a member of the room
func (r *GormRoomRepository) IsMember(roomID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// Delete deletes a room and all related data in a transaction
func (r *GormRoomRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		goalSubQuery := tx.Model(&models.RoomGoal{}).
			Select("id").
			Where("room_id = ?", id)

		if err := tx.Where("room_goal_id IN (?)", goalSubQuery).
			Delete(&models.RoomGoalCompletion{}).Error; err != nil {
			return err
		}

		if err := tx.Where("room_id = ?", id).Delete(&models.RoomGoal{}).Error; err != nil {
			return err
		}

		if err := tx.Where("room_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}

		if err := tx.Where("room_id = ?", id).Delete(&models.RoomMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Room{}, id).Error
	})
}

// AddGoal appends a goal to a room
func (r *GormRoomRepository) AddGoal(goal *models.RoomGoal) error {
	return r.db.Create(goal).Error
}

// ListGoals lists a room's goals with completions
func (r *GormRoomRepository) ListGoals(roomID uint64) ([]models.RoomGoal, error) {
	var goals []models.RoomGoal
	if err := r.db.Preload("Completions").
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// MutateGoal loads the goal under a row lock together with the member and
// completion sets, applies fn, persists the change, and returns the reloaded
// goal. The lock serializes concurrent toggles on the same goal.
func (r *GormRoomRepository) MutateGoal(roomID, goalID uint64, fn RoomGoalMutator) (*models.RoomGoal, error) {
	var out *models.RoomGoal
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var goal models.RoomGoal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ?", roomID).
			First(&goal, goalID).Error; err != nil {
			return err
		}

		var memberIDs []uint64
		if err := tx.Model(&models.RoomMember{}).
			Where("room_id = ?", roomID).
			Pluck("user_id", &memberIDs).Error; err != nil {
			return err
		}

		var completedBy []uint64
		if err := tx.Model(&models.RoomGoalCompletion{}).
			Where("room_goal_id = ?", goal.ID).
			Pluck("user_id", &completedBy).Error; err != nil {
			return err
		}

		change, err := fn(&goal, memberIDs, completedBy)
		if err != nil {
			return err
		}

		if change.AddCompletion != nil {
			completion := models.RoomGoalCompletion{
				RoomGoalID: goal.ID,
				UserID:     *change.AddCompletion,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&completion).Error; err != nil {
				return err
			}
		}
		if change.RemoveCompletion != nil {
			if err := tx.Where("room_goal_id = ? AND user_id = ?", goal.ID, *change.RemoveCompletion).
				Delete(&models.RoomGoalCompletion{}).Error; err != nil {
				return err
			}
		}

		if change.GroupStreak != nil || change.Completed != nil {
			if change.GroupStreak != nil {
				goal.GroupStreak = *change.GroupStreak
			}
			if change.Completed != nil {
				goal.Completed = *change.Completed
			}
			if err := tx.Save(&goal).Error; err != nil {
				return err
			}
		}

		if err := tx.Preload("Completions").First(&goal, goal.ID).Error; err != nil {
			return err
		}

		out = &goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteGoal deletes a room goal and its completions. The goal row goes
// first, scoped to the room, so a goal ID from another room never touches
// that room's completion rows.
func (r *GormRoomRepository) DeleteGoal(roomID, goalID uint64) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("room_id = ?", roomID).Delete(&models.RoomGoal{}, goalID)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}

		return tx.Where("room_goal_id = ?", goalID).
			Delete(&models.RoomGoalCompletion{}).Error
	})
	return affected, err
}

// AddMessage appends a chat message
func (r *GormRoomRepository) AddMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListMessages lists a room's messages, optionally only those after since
func (r *GormRoomRepository) ListMessages(roomID uint64, since *time.Time) ([]models.Message, error) {
	var messages []models.Message
	query := r.db.Preload("Sender").Where("room_id = ?", roomID)
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}
	if err := query.Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
