package dto

import (
	"time"

	"github.com/studysync/studysync-api/internal/models"
)

// GoalDTO represents a personal goal in API responses
type GoalDTO struct {
	ID                uint64    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Streak            int       `json:"streak"`
	LastCompletedDate *string   `json:"last_completed_date"`
	CompletedToday    bool      `json:"completed_today"`
	Starred           bool      `json:"starred"`
	CreatedAt         time.Time `json:"created_at"`
}

// GoalUpdateDTO is the changed-fields payload returned by a tick
type GoalUpdateDTO struct {
	Streak            int     `json:"streak"`
	LastCompletedDate *string `json:"last_completed_date"`
	CompletedToday    bool    `json:"completed_today"`
}

// TaskDTO represents a personal task in API responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Starred     bool       `json:"starred"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToGoalDTO converts a Goal model to GoalDTO
func ToGoalDTO(goal models.Goal) GoalDTO {
	return GoalDTO{
		ID:                goal.ID,
		Title:             goal.Title,
		Description:       goal.Description,
		Streak:            goal.Streak,
		LastCompletedDate: goal.LastCompletedDate,
		CompletedToday:    goal.CompletedToday,
		Starred:           goal.Starred,
		CreatedAt:         goal.CreatedAt,
	}
}

// ToGoalDTOs converts a slice of Goal models
func ToGoalDTOs(goals []models.Goal) []GoalDTO {
	dtos := make([]GoalDTO, len(goals))
	for i, goal := range goals {
		dtos[i] = ToGoalDTO(goal)
	}
	return dtos
}

// ToGoalUpdateDTO extracts the tick-changed fields from a goal
func ToGoalUpdateDTO(goal models.Goal) GoalUpdateDTO {
	return GoalUpdateDTO{
		Streak:            goal.Streak,
		LastCompletedDate: goal.LastCompletedDate,
		CompletedToday:    goal.CompletedToday,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Starred:     task.Starred,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
	}
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
