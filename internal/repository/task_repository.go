package repository

import (
	"github.com/studysync/studysync-api/internal/database"
	"github.com/studysync/studysync-api/internal/models"
	"github.com/studysync/studysync-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByOwner finds a task by ID scoped to its owner
func (r *GormTaskRepository) FindByOwner(id, userID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("user_id = ?", userID).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner retrieves a user's tasks with pagination
func (r *GormTaskRepository) ListByOwner(userID uint64, page, pageSize int) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("starred DESC, created_at DESC")
	if page > 0 && pageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   page,
			Limit:  pageSize,
			Offset: (page - 1) * pageSize,
		}))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task scoped to its owner
func (r *GormTaskRepository) Delete(id, userID uint64) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Task{}, id)
	return result.RowsAffected, result.Error
}
