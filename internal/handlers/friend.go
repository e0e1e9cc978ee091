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

type FriendHandler struct {
	friendService *services.FriendService
}

func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
	}
}

// SendRequest sends a friend request addressed by email
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type SendRequestRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req SendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	if err := h.friendService.SendRequest(userID, req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No user with that email"})
		case errors.Is(err, services.ErrCannotFriendSelf):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot add yourself"})
		case errors.Is(err, services.ErrAlreadyFriends):
			c.JSON(http.StatusConflict, gin.H{"error": "You are already friends"})
		case errors.Is(err, services.ErrFriendRequestAlreadySent):
			c.JSON(http.StatusConflict, gin.H{"error": "Request already sent"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send friend request"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Friend request sent"})
}

// ListPending returns pending friend requests addressed to the caller
func (h *FriendHandler) ListPending(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	requests, err := h.friendService.ListPending(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Friend requests fetched",
		"requests": dto.ToFriendRequestDTOs(requests),
	})
}

// Respond accepts or rejects a pending friend request
func (h *FriendHandler) Respond(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	type RespondRequest struct {
		Action string `json:"action" binding:"required"`
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action is required"})
		return
	}

	if err := h.friendService.Respond(requestID, userID, req.Action); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFriendAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be accept or reject"})
		case errors.Is(err, services.ErrFriendRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to respond to friend request"})
		}
		return
	}

	message := "Friend request rejected"
	if req.Action == "accept" {
		message = "Friend request accepted"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// ListFriends returns the caller's friends
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	friends, err := h.friendService.ListFriends(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Friends fetched",
		"friends": dto.ToUserDTOs(friends),
	})
}
