package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studysync/studysync-api/internal/models"
	"github.com/studysync/studysync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskTitleRequired = errors.New("title is required")
)

// TaskService handles personal task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	DueDate     *time.Time
}

// CreateTask creates a new task for a user
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	task := &models.Task{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns a page of the user's tasks
func (s *TaskService) ListTasks(userID uint64, page, pageSize int) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.ListByOwner(userID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// SetCompleted marks a task complete or incomplete
func (s *TaskService) SetCompleted(taskID, userID uint64, completed bool) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Completed = completed
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// ToggleStar flips the starred flag on a task
func (s *TaskService) ToggleStar(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Starred = !task.Starred
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task owned by the user
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	affected, err := s.taskRepo.Delete(taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
