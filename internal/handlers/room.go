package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studysync/studysync-api/internal/dto"
	"github.com/studysync/studysync-api/internal/middleware"
	"github.com/studysync/studysync-api/internal/services"
)

type RoomHandler struct {
	roomService *services.RoomService
}

func NewRoomHandler(roomService *services.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

// CreateRoom creates a room with the caller and the invited friends as its
// fixed member set
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateRoomRequest struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		MemberIDs   []uint64 `json:"member_ids"`
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	room, err := h.roomService.CreateRoom(services.CreateRoomInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Room name is required"})
		case errors.Is(err, services.ErrInvalidRoomMember):
			c.JSON(http.StatusBadRequest, gin.H{"error": "One or more invited users do not exist"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Room created successfully!",
		"room":    dto.ToRoomDTO(*room),
	})
}

// ListRooms returns the rooms the caller belongs to
func (h *RoomHandler) ListRooms(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	rooms, err := h.roomService.ListRooms(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rooms fetched",
		"rooms":   dto.ToRoomDTOs(rooms),
	})
}

// GetRoom returns full room details including goals
func (h *RoomHandler) GetRoom(c *gin.Context) {
	userID, roomID, ok := h.callerAndRoomID(c)
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(roomID, userID)
	if err != nil {
		h.respondRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomDetailDTO(*room))
}

// DeleteRoom removes a room; creator only
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	userID, roomID, ok := h.callerAndRoomID(c)
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(roomID, userID); err != nil {
		if errors.Is(err, services.ErrNotRoomCreator) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the room creator can delete this room"})
			return
		}
		h.respondRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// AddGoal appends a shared goal to the room
func (h *RoomHandler) AddGoal(c *gin.Context) {
	userID, roomID, ok := h.callerAndRoomID(c)
	if !ok {
		return
	}

	type AddGoalRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Deadline    *time.Time `json:"deadline"`
	}

	var req AddGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	goal, err := h.roomService.AddGoal(services.AddGoalInput{
		RoomID:      roomID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		if errors.Is(err, services.ErrGoalTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		h.respondRoomError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Goal added to room",
		"goal":    dto.ToRoomGoalDTO(*goal),
	})
}

// ListGoals returns the room's goals
func (h *RoomHandler) ListGoals(c *gin.Context) {
	userID, roomID, ok := h.callerAndRoomID(c)
	if !ok {
		return
	}

	goals, err := h.roomService.ListGoals(roomID, userID)
	if err != nil {
		h.respondRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goals fetched",
		"goals":   dto.ToRoomGoalDTOs(goals),
	})
}

// ToggleGoalCompletion flips the caller's completion mark on a room goal
func (h *RoomHandler) ToggleGoalCompletion(c *gin.Context) {
	userID, roomID, ok := h.callerAndRoomID(c)
	if !ok {
		return
	}

	goalID, err := strconv.ParseUint(c.Param("goal_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	result, err := h.roomService.ToggleGoalCompletion(roomID, goalID, userID)
	if err != nil {
		h.respondRoomError(c, err)
		return
	}

	message := "Goal completion undone"
	if result.UserCompleted {
		message = "Goal completion updated"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        message,
		"goal":           dto.ToRoomGoalDTO(*result.Goal),
		"user_completed": result.UserCompleted,
	})
}

// DeleteGoal removes a goal from the room
func (h *RoomHandler) DeleteGoal(c *gin.Context) {
	userID, roomID, ok := h.callerAndRoomID(c)
	if !ok {
		return
	}

	goalID, err := strconv.ParseUint(c.Param("goal_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	if err := h.roomService.DeleteGoal(roomID, goalID, userID); err != nil {
		h.respondRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// PostMessage appends a chat message to the room
func (h *RoomHandler) PostMessage(c *gin.Context) {
	userID, roomID, ok := h.callerAndRoomID(c)
	if !ok {
		return
	}

	type PostMessageRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	message, err := h.roomService.PostMessage(roomID, userID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrMessageTextRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message text is required"})
			return
		}
		h.respondRoomError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"chat":    dto.ToMessageDTO(*message),
	})
}

// ListMessages returns the room's messages, optionally only those after the
// RFC3339 `since` query parameter
func (h *RoomHandler) ListMessages(c *gin.Context) {
	userID, roomID, ok := h.callerAndRoomID(c)
	if !ok {
		return
	}

	var since *time.Time
	if sinceStr := c.Query("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since parameter"})
			return
		}
		since = &parsed
	}

	messages, err := h.roomService.ListMessages(roomID, userID, since)
	if err != nil {
		h.respondRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": dto.ToMessageDTOs(messages),
	})
}

// respondRoomError maps room service errors to responses. Room not-found and
// non-membership get one merged 403 so membership cannot be probed.
func (h *RoomHandler) respondRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoomNotFound), errors.Is(err, services.ErrNotRoomMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized or room not found"})
	case errors.Is(err, services.ErrRoomGoalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found in room"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *RoomHandler) callerAndRoomID(c *gin.Context) (userID, roomID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return 0, 0, false
	}

	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return 0, 0, false
	}

	return userID, roomID, true
}
