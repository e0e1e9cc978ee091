package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowAll(roomID, userID uint64) bool { return true }

// newTestClient builds a client without a websocket connection. handleEvent
// and the hub never touch the connection, so the routing logic is testable
// with the send channel alone.
func newTestClient(hub *Hub, userID uint64) *Client {
	return &Client{
		userID: userID,
		hub:    hub,
		send:   make(chan []byte, 8),
	}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func joinRoom(hub *Hub, c *Client, roomID uint64) {
	hub.register <- c
	c.handleEvent(Event{Event: EventJoinRoom, RoomID: roomID})
}

func TestHub_CodeChangeRelayedToOthersOnly(t *testing.T) {
	hub := NewHub(allowAll)
	go hub.Run()

	sender := newTestClient(hub, 1)
	peer := newTestClient(hub, 2)
	joinRoom(hub, sender, 7)
	joinRoom(hub, peer, 7)

	payload := json.RawMessage(`{"code":"print(42)"}`)
	sender.handleEvent(Event{Event: EventCodeChange, RoomID: 7, Payload: payload})

	received := receiveEvent(t, peer)
	assert.Equal(t, EventCodeUpdate, received.Event)
	assert.Equal(t, uint64(7), received.RoomID)
	assert.JSONEq(t, string(payload), string(received.Payload))

	// The sender must not hear its own edit back.
	assertNoEvent(t, sender)
}

func TestHub_LanguageChangeRelayedToOthersOnly(t *testing.T) {
	hub := NewHub(allowAll)
	go hub.Run()

	sender := newTestClient(hub, 1)
	peer := newTestClient(hub, 2)
	joinRoom(hub, sender, 7)
	joinRoom(hub, peer, 7)

	sender.handleEvent(Event{
		Event:   EventLanguageChange,
		RoomID:  7,
		Payload: json.RawMessage(`{"language":"go"}`),
	})

	received := receiveEvent(t, peer)
	assert.Equal(t, EventLanguageUpdate, received.Event)
	assertNoEvent(t, sender)
}

func TestHub_SendMessageEchoesToSender(t *testing.T) {
	hub := NewHub(allowAll)
	go hub.Run()

	sender := newTestClient(hub, 1)
	peer := newTestClient(hub, 2)
	joinRoom(hub, sender, 7)
	joinRoom(hub, peer, 7)

	sender.handleEvent(Event{
		Event:   EventSendMessage,
		RoomID:  7,
		Payload: json.RawMessage(`{"text":"hello"}`),
	})

	assert.Equal(t, EventReceiveMessage, receiveEvent(t, peer).Event)
	assert.Equal(t, EventReceiveMessage, receiveEvent(t, sender).Event)
}

func TestHub_JoinGatedByMembership(t *testing.T) {
	hub := NewHub(func(roomID, userID uint64) bool {
		return userID != 3
	})
	go hub.Run()

	member := newTestClient(hub, 1)
	outsider := newTestClient(hub, 3)
	joinRoom(hub, member, 7)
	joinRoom(hub, outsider, 7)

	// The outsider's join was rejected, so a member broadcast must not reach
	// it.
	member.handleEvent(Event{Event: EventSendMessage, RoomID: 7})
	assert.Equal(t, EventReceiveMessage, receiveEvent(t, member).Event)
	assertNoEvent(t, outsider)

	// Nor can the outsider publish into the room.
	outsider.handleEvent(Event{Event: EventCodeChange, RoomID: 7})
	assertNoEvent(t, member)
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	hub := NewHub(allowAll)
	go hub.Run()

	roomSeven := newTestClient(hub, 1)
	roomEight := newTestClient(hub, 2)
	joinRoom(hub, roomSeven, 7)
	joinRoom(hub, roomEight, 8)

	roomSeven.handleEvent(Event{Event: EventSendMessage, RoomID: 7})

	assert.Equal(t, EventReceiveMessage, receiveEvent(t, roomSeven).Event)
	assertNoEvent(t, roomEight)
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub(allowAll)
	go hub.Run()

	sender := newTestClient(hub, 1)
	peer := newTestClient(hub, 2)
	joinRoom(hub, sender, 7)
	joinRoom(hub, peer, 7)

	peer.handleEvent(Event{Event: EventLeaveRoom, RoomID: 7})

	sender.handleEvent(Event{Event: EventSendMessage, RoomID: 7})
	assert.Equal(t, EventReceiveMessage, receiveEvent(t, sender).Event)
	assertNoEvent(t, peer)
}

func TestHub_UnregisterRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(allowAll)
	go hub.Run()

	sender := newTestClient(hub, 1)
	peer := newTestClient(hub, 2)
	joinRoom(hub, sender, 7)
	joinRoom(hub, peer, 7)

	hub.unregister <- peer

	sender.handleEvent(Event{Event: EventSendMessage, RoomID: 7})
	assert.Equal(t, EventReceiveMessage, receiveEvent(t, sender).Event)
	assertNoEvent(t, peer)
}
