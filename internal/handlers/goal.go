package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studysync/studysync-api/internal/dto"
	"github.com/studysync/studysync-api/internal/middleware"
	"github.com/studysync/studysync-api/internal/services"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// CreateGoal creates a new goal for the caller
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateGoalRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	goal, err := h.goalService.CreateGoal(services.CreateGoalInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrGoalTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Goal added",
		"goal":    dto.ToGoalDTO(*goal),
	})
}

// ListGoals returns the caller's goals with day-rollover corrections applied
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	goals, err := h.goalService.ListGoals(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch goals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goals fetched",
		"goals":   dto.ToGoalDTOs(goals),
	})
}

// TickGoal marks a goal complete for today or undoes a same-day completion.
// The no-op outcomes are successful responses with an explanatory message and
// no state change.
func (h *GoalHandler) TickGoal(c *gin.Context) {
	userID, goalID, ok := h.callerAndGoalID(c)
	if !ok {
		return
	}

	type TickRequest struct {
		MarkComplete *bool `json:"mark_complete" binding:"required"`
	}

	var req TickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.goalService.Tick(goalID, userID, *req.MarkComplete)
	if err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	switch result.Outcome {
	case services.TickAlreadyCompleted:
		c.JSON(http.StatusOK, gin.H{"message": "Already marked complete today"})
	case services.TickNothingToUndo:
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to untick today"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":    "Goal updated",
			"update":     dto.ToGoalUpdateDTO(*result.Goal),
			"new_streak": result.NewStreak,
		})
	}
}

// StarGoal toggles the starred flag on a goal
func (h *GoalHandler) StarGoal(c *gin.Context) {
	userID, goalID, ok := h.callerAndGoalID(c)
	if !ok {
		return
	}

	goal, err := h.goalService.ToggleStar(goalID, userID)
	if err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goal star toggled",
		"starred": goal.Starred,
	})
}

// DeleteGoal deletes a goal owned by the caller
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, goalID, ok := h.callerAndGoalID(c)
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(goalID, userID); err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found or unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

func (h *GoalHandler) callerAndGoalID(c *gin.Context) (userID, goalID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return 0, 0, false
	}

	goalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return 0, 0, false
	}

	return userID, goalID, true
}
