package collab

import "encoding/json"

type Message struct {
	Type     string          `json:"type"`
	MapID    string          `json:"mapId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor *CursorPos `json:"cursor,omitempty"`
	// Ping is a transient map marker ("look here") other clients animate.
	Ping           *CursorPos `json:"ping,omitempty"`
	SelectedTokens []string   `json:"selectedTokens,omitempty"`
	DisplayName    string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Full map state sync (sent on join)
	TypeMapSync = "map.sync"

	// Recomputed visibility snapshot (sent after every applied operation)
	TypeVisibilitySync = "visibility.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// --- Operation Types ---

// Operation represents a map mutation submitted by a client. Every operation
// type is a visibility recomputation trigger.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	// Target entity, for token/portal/light/wall operations
	TargetID string `json:"targetId,omitempty"`

	// For token.move and light.move
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	// For token.vision
	Modality    string   `json:"modality,omitempty"`
	VisionRange *float64 `json:"visionRange,omitempty"`

	// For light.create and light.update (scene.Light JSON)
	Light json.RawMessage `json:"light,omitempty"`

	// For portal.toggle and light.toggle
	State *bool `json:"state,omitempty"`

	// For ambient.set
	Ambient string `json:"ambient,omitempty"`
	Magical *bool  `json:"magical,omitempty"`

	// For map.rename
	Name string `json:"name,omitempty"`
}

// Operation type identifiers.
const (
	OpTokenMove    = "token.move"
	OpTokenVision  = "token.vision"
	OpPortalToggle = "portal.toggle"
	OpLightCreate  = "light.create"
	OpLightUpdate  = "light.update"
	OpLightDelete  = "light.delete"
	OpLightToggle  = "light.toggle"
	OpLightMove    = "light.move"
	OpAmbientSet   = "ambient.set"
	OpMapRename    = "map.rename"
)

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}

// VisibilitySyncPayload carries the recomputed visibility snapshot after an
// applied operation.
type VisibilitySyncPayload struct {
	ServerSeq  int64           `json:"serverSeq"`
	Visibility json.RawMessage `json:"visibility"`
}

// MapSyncPayload carries the full map document, sent to newly joined clients.
type MapSyncPayload struct {
	Map        json.RawMessage `json:"map"`
	Visibility json.RawMessage `json:"visibility"`
	ServerSeq  int64           `json:"serverSeq"`
}
