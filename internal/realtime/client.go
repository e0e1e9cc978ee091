package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection bound to an authenticated user.
type Client struct {
	id     uuid.UUID
	userID uint64
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, userID uint64) *Client {
	return &Client{
		id:     uuid.New(),
		userID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
}

// readPump reads events from the connection and routes them through the hub.
// It runs in its own goroutine; there is at most one reader per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}
		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Event {
	case EventJoinRoom:
		if !c.hub.canJoin(event.RoomID, c.userID) {
			return
		}
		c.hub.join <- subscription{client: c, roomID: event.RoomID}

	case EventLeaveRoom:
		c.hub.leave <- subscription{client: c, roomID: event.RoomID}

	case EventCodeChange:
		c.relay(event, EventCodeUpdate, false)

	case EventLanguageChange:
		c.relay(event, EventLanguageUpdate, false)

	case EventSendMessage:
		c.relay(event, EventReceiveMessage, true)
	}
}

// relay rebroadcasts an inbound event to the room under its outbound name.
func (c *Client) relay(event Event, outName string, echo bool) {
	out := Event{
		Event:   outName,
		RoomID:  event.RoomID,
		Payload: event.Payload,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return
	}

	c.hub.broadcast <- roomMessage{
		roomID: event.RoomID,
		data:   data,
		sender: c,
		echo:   echo,
	}
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings. It runs in its own goroutine; there is at most
// one writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
