package realtime

import "encoding/json"

// Event names carried on the wire. Inbound "*-change" events from one client
// are relayed to the rest of the room as the matching "*-update" event.
const (
	EventJoinRoom       = "join-room"
	EventLeaveRoom      = "leave-room"
	EventCodeChange     = "code-change"
	EventCodeUpdate     = "code-update"
	EventLanguageChange = "language-change"
	EventLanguageUpdate = "language-update"
	EventSendMessage    = "send-message"
	EventReceiveMessage = "receive-message"
)

// Event is the wire format for realtime messages. Payload is relayed opaquely;
// the hub never inspects or stores it.
type Event struct {
	Event   string          `json:"event"`
	RoomID  uint64          `json:"room_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MembershipFunc reports whether a user may join a room's realtime channel.
type MembershipFunc func(roomID, userID uint64) bool

type subscription struct {
	client *Client
	roomID uint64
}

type roomMessage struct {
	roomID uint64
	data   []byte
	sender *Client
	// echo controls whether the sender receives its own relay
	echo bool
}

// Hub routes realtime events between connected clients grouped by room. All
// membership maps are owned by the Run goroutine; other goroutines communicate
// through the channels only.
type Hub struct {
	canJoin MembershipFunc

	clients map[*Client]struct{}
	rooms   map[uint64]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	join       chan subscription
	leave      chan subscription
	broadcast  chan roomMessage
}

// NewHub creates a hub whose room joins are gated by canJoin.
func NewHub(canJoin MembershipFunc) *Hub {
	return &Hub{
		canJoin:    canJoin,
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[uint64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan subscription),
		leave:      make(chan subscription),
		broadcast:  make(chan roomMessage),
	}
}

// Run processes hub events until the process exits. It must run in its own
// goroutine before any client connects.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.join:
			if _, ok := h.clients[sub.client]; !ok {
				continue
			}
			room, ok := h.rooms[sub.roomID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[sub.roomID] = room
			}
			room[sub.client] = struct{}{}

		case sub := <-h.leave:
			h.removeFromRoom(sub.roomID, sub.client)

		case msg := <-h.broadcast:
			room, ok := h.rooms[msg.roomID]
			if !ok {
				continue
			}
			// Only clients that joined the room may publish into it.
			if _, member := room[msg.sender]; !member {
				continue
			}
			for client := range room {
				if client == msg.sender && !msg.echo {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop it rather than stall the hub.
					h.removeClient(client)
					close(client.send)
				}
			}
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for roomID := range h.rooms {
		h.removeFromRoom(roomID, client)
	}
}

func (h *Hub) removeFromRoom(roomID uint64, client *Client) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
}
