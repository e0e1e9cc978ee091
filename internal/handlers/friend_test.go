package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/studysync/studysync-api/internal/constants"
	"github.com/studysync/studysync-api/internal/models"
	"github.com/studysync/studysync-api/internal/repository"
	"github.com/studysync/studysync-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type friendTestEnv struct {
	db            *gorm.DB
	handler       *FriendHandler
	friendService *services.FriendService
}

func setupFriendTestEnv(t *testing.T) friendTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
	)
	require.NoError(t, err)

	friendService := services.NewFriendService(
		repository.NewFriendRepository(db),
		repository.NewUserRepository(db),
	)
	handler := NewFriendHandler(friendService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)

	return friendTestEnv{
		db:            db,
		handler:       handler,
		friendService: friendService,
	}
}

func friendTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createTestFriendUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestFriendHandler_SendRequest(t *testing.T) {
	env := setupFriendTestEnv(t)

	sender := createTestFriendUser(t, env.db, "sender")
	createTestFriendUser(t, env.db, "receiver")

	payload := map[string]string{"email": "receiver@example.com"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := friendTestContext(http.MethodPost, "/api/friends/requests", body, sender.ID)

	env.handler.SendRequest(c)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestFriendHandler_SendRequest_UnknownEmail(t *testing.T) {
	env := setupFriendTestEnv(t)

	sender := createTestFriendUser(t, env.db, "sender")

	payload := map[string]string{"email": "nobody@example.com"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := friendTestContext(http.MethodPost, "/api/friends/requests", body, sender.ID)

	env.handler.SendRequest(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFriendHandler_SendRequest_Self(t *testing.T) {
	env := setupFriendTestEnv(t)

	sender := createTestFriendUser(t, env.db, "sender")

	payload := map[string]string{"email": "sender@example.com"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := friendTestContext(http.MethodPost, "/api/friends/requests", body, sender.ID)

	env.handler.SendRequest(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFriendHandler_SendRequest_Duplicate(t *testing.T) {
	env := setupFriendTestEnv(t)

	sender := createTestFriendUser(t, env.db, "sender")
	createTestFriendUser(t, env.db, "receiver")

	require.NoError(t, env.friendService.SendRequest(sender.ID, "receiver@example.com"))

	payload := map[string]string{"email": "receiver@example.com"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := friendTestContext(http.MethodPost, "/api/friends/requests", body, sender.ID)

	env.handler.SendRequest(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestFriendHandler_ListPending(t *testing.T) {
	env := setupFriendTestEnv(t)

	sender := createTestFriendUser(t, env.db, "sender")
	receiver := createTestFriendUser(t, env.db, "receiver")

	require.NoError(t, env.friendService.SendRequest(sender.ID, "receiver@example.com"))

	c, w := friendTestContext(http.MethodGet, "/api/friends/requests", nil, receiver.ID)

	env.handler.ListPending(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	requests := response["requests"].([]interface{})
	require.Len(t, requests, 1)
	first := requests[0].(map[string]interface{})
	require.Equal(t, "sender", first["from"])
	require.Equal(t, "sender@example.com", first["email"])
}

func TestFriendHandler_Respond_Accept(t *testing.T) {
	env := setupFriendTestEnv(t)

	sender := createTestFriendUser(t, env.db, "sender")
	receiver := createTestFriendUser(t, env.db, "receiver")

	require.NoError(t, env.friendService.SendRequest(sender.ID, "receiver@example.com"))

	var request models.FriendRequest
	require.NoError(t, env.db.First(&request).Error)

	payload := map[string]string{"action": "accept"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := friendTestContext(http.MethodPost, "/api/friends/requests/1/respond", body, receiver.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(request.ID, 10)}}

	env.handler.Respond(c)

	require.Equal(t, http.StatusOK, w.Code)

	// Both see each other as friends now.
	senderFriends, err := env.friendService.ListFriends(sender.ID)
	require.NoError(t, err)
	require.Len(t, senderFriends, 1)
	require.Equal(t, "receiver", senderFriends[0].Username)

	receiverFriends, err := env.friendService.ListFriends(receiver.ID)
	require.NoError(t, err)
	require.Len(t, receiverFriends, 1)
	require.Equal(t, "sender", receiverFriends[0].Username)
}

// Only the addressee can act on a request; anyone else gets a 404 so requests
// cannot be probed.
func TestFriendHandler_Respond_NotAddressee(t *testing.T) {
	env := setupFriendTestEnv(t)

	sender := createTestFriendUser(t, env.db, "sender")
	createTestFriendUser(t, env.db, "receiver")
	stranger := createTestFriendUser(t, env.db, "stranger")

	require.NoError(t, env.friendService.SendRequest(sender.ID, "receiver@example.com"))

	var request models.FriendRequest
	require.NoError(t, env.db.First(&request).Error)

	payload := map[string]string{"action": "accept"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := friendTestContext(http.MethodPost, "/api/friends/requests/1/respond", body, stranger.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(request.ID, 10)}}

	env.handler.Respond(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFriendHandler_Respond_InvalidAction(t *testing.T) {
	env := setupFriendTestEnv(t)

	sender := createTestFriendUser(t, env.db, "sender")
	receiver := createTestFriendUser(t, env.db, "receiver")

	require.NoError(t, env.friendService.SendRequest(sender.ID, "receiver@example.com"))

	payload := map[string]string{"action": "maybe"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := friendTestContext(http.MethodPost, "/api/friends/requests/1/respond", body, receiver.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	env.handler.Respond(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
