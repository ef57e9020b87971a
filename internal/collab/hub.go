package collab

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/tablewick/tablewick/backend-go/internal/scene"
	"github.com/tablewick/tablewick/backend-go/internal/vision"
)

// MapLoader resolves a map ID to its current document when the first client
// joins a room.
type MapLoader func(mapID string) (*scene.MapDocument, error)

type Room struct {
	mapID    string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *MapState
}

func NewRoom(mapID string, doc *scene.MapDocument) *Room {
	return &Room{
		mapID:    mapID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    NewMapState(doc),
	}
}

// visibilityJSON recomputes the room's visibility snapshot from the current
// map state. Stateless: every applied operation triggers a full recompute.
// The input is flattened under the state lock; the compute itself runs
// unlocked on the flattened copy.
func (r *Room) visibilityJSON() json.RawMessage {
	res := vision.ComputeSceneVisibility(r.state.Input())
	data, err := json.Marshal(res)
	if err != nil {
		slog.Error("marshal visibility", "error", err, "map", r.mapID)
		return json.RawMessage(`{}`)
	}
	return data
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // mapID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	loadMap    MapLoader
}

func NewHub(loadMap MapLoader) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		loadMap:    loadMap,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop shuts down the hub loop.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.MapID]
	if !ok {
		doc, err := h.loadMap(client.MapID)
		if err != nil {
			h.mu.Unlock()
			slog.Warn("load map for room", "error", err, "map", client.MapID)
			nack := &Message{Type: TypeError, Payload: json.RawMessage(`{"error":"map not found"}`)}
			client.Send(nack)
			return
		}
		room = NewRoom(client.MapID, doc)
		h.rooms[client.MapID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Send full map state and current visibility to the new client
	mapJSON, err := room.state.DocumentJSON()
	if err == nil {
		syncPayload, _ := json.Marshal(MapSyncPayload{
			Map:        mapJSON,
			Visibility: room.visibilityJSON(),
			ServerSeq:  room.state.ServerSeq(),
		})
		client.Send(&Message{Type: TypeMapSync, Payload: syncPayload})
	}

	// Send current presence state to new client
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(client.MapID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "map", client.MapID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.MapID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.MapID)
	}
	h.mu.Unlock()

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	leaveMsg := &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}
	h.broadcastToRoom(client.MapID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "map", client.MapID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.MapID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	// Broadcast to other clients in room
	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}
	h.broadcastToRoom(sender.MapID, outMsg, sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var payload OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		return
	}
	op := payload.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.MapID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	serverSeq, err := room.state.ApplyOperation(op)
	if err != nil {
		nackPayload, _ := json.Marshal(OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
		})
		sender.Send(&Message{Type: TypeOpNack, Payload: nackPayload})
		return
	}

	ackPayload, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       serverSeq,
		ServerTimestamp: GetServerTimestamp(),
	})
	sender.Send(&Message{Type: TypeOpAck, Payload: ackPayload})

	broadcastPayload, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: serverSeq,
	})
	h.broadcastToRoom(sender.MapID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Payload: broadcastPayload,
	}, sender.ClientID)

	// Every operation dirties the scene; recompute visibility and push the
	// fresh snapshot to everyone, sender included.
	visPayload, _ := json.Marshal(VisibilitySyncPayload{
		ServerSeq:  serverSeq,
		Visibility: room.visibilityJSON(),
	})
	h.broadcastToRoom(sender.MapID, &Message{
		Type:    TypeVisibilitySync,
		Payload: visPayload,
	}, "")
}

func (h *Hub) broadcastToRoom(mapID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[mapID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
