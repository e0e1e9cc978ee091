package repository

import (
	"github.com/studysync/studysync-api/internal/models"
	"gorm.io/gorm"
)

// GormFriendRepository is a GORM implementation of FriendRepository
type GormFriendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new FriendRepository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &GormFriendRepository{db: db}
}

// CreateRequest creates a friend request
func (r *GormFriendRepository) CreateRequest(request *models.FriendRequest) error {
	return r.db.Create(request).Error
}

// FindRequest finds a pending request between two users
func (r *GormFriendRepository) FindRequest(fromUserID, toUserID uint64) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.Where("from_user_id = ? AND to_user_id = ? AND status = ?",
		fromUserID, toUserID, models.FriendRequestPending).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindRequestByID finds a request by ID
func (r *GormFriendRepository) FindRequestByID(id uint64) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListPending lists pending requests addressed to a user
func (r *GormFriendRepository) ListPending(toUserID uint64) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.Preload("From").
		Where("to_user_id = ? AND status = ?", toUserID, models.FriendRequestPending).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Accept inserts both friendship directions and removes the request in one
// transaction
func (r *GormFriendRepository) Accept(request *models.FriendRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		friendships := []models.Friendship{
			{UserID: request.FromUserID, FriendID: request.ToUserID},
			{UserID: request.ToUserID, FriendID: request.FromUserID},
		}
		if err := tx.Create(&friendships).Error; err != nil {
			return err
		}

		return tx.Delete(&models.FriendRequest{}, request.ID).Error
	})
}

// DeleteRequest removes a request
func (r *GormFriendRepository) DeleteRequest(id uint64) error {
	return r.db.Delete(&models.FriendRequest{}, id).Error
}

// ListFriends lists a user's friends
func (r *GormFriendRepository) ListFriends(userID uint64) ([]models.User, error) {
	var friends []models.User
	if err := r.db.
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// AreFriends reports whether two users are friends
func (r *GormFriendRepository) AreFriends(userID, otherID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, otherID).
		Count(&count).Error
	return count > 0, err
}
