package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tablewick/tablewick/backend-go/internal/scene"
	"github.com/tablewick/tablewick/backend-go/internal/vision"
)

// MapState holds the authoritative map document for a room.
type MapState struct {
	mu        sync.RWMutex
	doc       *scene.MapDocument
	serverSeq int64
	opLog     []Operation
}

// NewMapState creates a new map state from an initial document.
func NewMapState(doc *scene.MapDocument) *MapState {
	return &MapState{
		doc:   doc,
		opLog: make([]Operation, 0),
	}
}

// Document returns the live document. It must not be mutated, and callers
// that may race concurrent operations must use Input or DocumentJSON, which
// read under the lock, instead of iterating the returned maps.
func (ms *MapState) Document() *scene.MapDocument {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.doc
}

// Input flattens the current document into a visibility computation input
// under the read lock, so a concurrent operation never mutates the entity
// maps while they are being iterated.
func (ms *MapState) Input() vision.Input {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return vision.InputFromDocument(ms.doc)
}

// DocumentJSON marshals the current document under the read lock.
func (ms *MapState) DocumentJSON() (json.RawMessage, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return json.Marshal(ms.doc)
}

// ServerSeq returns the current server sequence number.
func (ms *MapState) ServerSeq() int64 {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.serverSeq
}

// ApplyOperation applies an operation to the map and returns the server
// sequence it was committed at.
func (ms *MapState) ApplyOperation(op Operation) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if err := ms.applyOperationLocked(op); err != nil {
		return 0, err
	}

	ms.serverSeq++
	ms.opLog = append(ms.opLog, op)
	ms.doc.Map.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	return ms.serverSeq, nil
}

func (ms *MapState) applyOperationLocked(op Operation) error {
	switch op.Type {
	case OpTokenMove:
		return ms.applyTokenMove(op)
	case OpTokenVision:
		return ms.applyTokenVision(op)
	case OpPortalToggle:
		return ms.applyPortalToggle(op)
	case OpLightCreate:
		return ms.applyLightCreate(op)
	case OpLightUpdate:
		return ms.applyLightUpdate(op)
	case OpLightDelete:
		return ms.applyLightDelete(op)
	case OpLightToggle:
		return ms.applyLightToggle(op)
	case OpLightMove:
		return ms.applyLightMove(op)
	case OpAmbientSet:
		return ms.applyAmbientSet(op)
	case OpMapRename:
		return ms.applyMapRename(op)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (ms *MapState) applyTokenMove(op Operation) error {
	t, ok := ms.doc.Tokens[op.TargetID]
	if !ok {
		return fmt.Errorf("token not found: %s", op.TargetID)
	}
	if op.X == nil || op.Y == nil {
		return fmt.Errorf("token.move requires x and y")
	}
	t.X, t.Y = *op.X, *op.Y
	ms.doc.Tokens[op.TargetID] = t
	return nil
}

func (ms *MapState) applyTokenVision(op Operation) error {
	t, ok := ms.doc.Tokens[op.TargetID]
	if !ok {
		return fmt.Errorf("token not found: %s", op.TargetID)
	}
	t.Vision.Modality = scene.ParseVisionModality(op.Modality)
	if op.VisionRange != nil {
		t.Vision.Range = *op.VisionRange
	}
	ms.doc.Tokens[op.TargetID] = t
	return nil
}

func (ms *MapState) applyPortalToggle(op Operation) error {
	p, ok := ms.doc.Portals[op.TargetID]
	if !ok {
		return fmt.Errorf("portal not found: %s", op.TargetID)
	}
	if op.State != nil {
		p.Closed = *op.State
	} else {
		p.Closed = !p.Closed
	}
	ms.doc.Portals[op.TargetID] = p
	return nil
}

func (ms *MapState) applyLightCreate(op Operation) error {
	var light scene.Light
	if err := json.Unmarshal(op.Light, &light); err != nil {
		return fmt.Errorf("invalid light: %w", err)
	}
	if light.ID == "" {
		return fmt.Errorf("light.create requires an id")
	}
	ms.doc.Lights[light.ID] = light
	return nil
}

func (ms *MapState) applyLightUpdate(op Operation) error {
	l, ok := ms.doc.Lights[op.TargetID]
	if !ok {
		return fmt.Errorf("light not found: %s", op.TargetID)
	}
	// Patch semantics: unmarshal over the existing value.
	if err := json.Unmarshal(op.Light, &l); err != nil {
		return fmt.Errorf("invalid light: %w", err)
	}
	l.ID = op.TargetID
	ms.doc.Lights[op.TargetID] = l
	return nil
}

func (ms *MapState) applyLightDelete(op Operation) error {
	if _, ok := ms.doc.Lights[op.TargetID]; !ok {
		return fmt.Errorf("light not found: %s", op.TargetID)
	}
	delete(ms.doc.Lights, op.TargetID)
	return nil
}

func (ms *MapState) applyLightToggle(op Operation) error {
	l, ok := ms.doc.Lights[op.TargetID]
	if !ok {
		return fmt.Errorf("light not found: %s", op.TargetID)
	}
	if op.State != nil {
		l.Active = *op.State
	} else {
		l.Active = !l.Active
	}
	ms.doc.Lights[op.TargetID] = l
	return nil
}

func (ms *MapState) applyLightMove(op Operation) error {
	l, ok := ms.doc.Lights[op.TargetID]
	if !ok {
		return fmt.Errorf("light not found: %s", op.TargetID)
	}
	if op.X == nil || op.Y == nil {
		return fmt.Errorf("light.move requires x and y")
	}
	l.X, l.Y = *op.X, *op.Y
	ms.doc.Lights[op.TargetID] = l
	return nil
}

func (ms *MapState) applyAmbientSet(op Operation) error {
	ms.doc.Map.Ambient = scene.ParseAmbientLight(op.Ambient)
	if op.Magical != nil {
		ms.doc.Map.MagicalDarkness = *op.Magical
	}
	return nil
}

func (ms *MapState) applyMapRename(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("map.rename requires a name")
	}
	ms.doc.Map.Name = op.Name
	return nil
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
