package vision

import (
	"encoding/json"
	"fmt"

	"github.com/tablewick/tablewick/backend-go/internal/geom"
	"github.com/tablewick/tablewick/backend-go/internal/scene"
)

// Engine owns a loaded map document and serves visibility state to a
// frontend. It processes commands (token moves, portal toggles, light edits)
// and recomputes the visibility snapshot lazily on the next query.
type Engine struct {
	doc   *scene.MapDocument
	cache *polygonCache

	// Dirty flag - the snapshot needs recomputation
	dirty bool
	last  *Result
}

// NewEngine creates a new engine instance with no map loaded.
func NewEngine() *Engine {
	return &Engine{
		cache: newPolygonCache(),
		dirty: true,
	}
}

// --- Commands (frontend → backend) ---

// LoadMap loads a map document from JSON.
func (e *Engine) LoadMap(jsonData string) error {
	var doc scene.MapDocument
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return err
	}
	e.doc = &doc
	e.cache = newPolygonCache()
	e.dirty = true
	return nil
}

// LoadSampleMap loads the built-in sample dungeon.
func (e *Engine) LoadSampleMap() {
	e.doc = scene.NewSampleMap()
	e.cache = newPolygonCache()
	e.dirty = true
}

// MoveToken moves a token to new coordinates.
func (e *Engine) MoveToken(tokenID string, x, y float64) error {
	if e.doc == nil {
		return errNoMap
	}
	t, ok := e.doc.Tokens[tokenID]
	if !ok {
		return fmt.Errorf("token not found: %s", tokenID)
	}
	t.X, t.Y = x, y
	e.doc.Tokens[tokenID] = t
	e.dirty = true
	return nil
}

// TogglePortal flips a portal's open/closed state.
func (e *Engine) TogglePortal(portalID string) error {
	if e.doc == nil {
		return errNoMap
	}
	p, ok := e.doc.Portals[portalID]
	if !ok {
		return fmt.Errorf("portal not found: %s", portalID)
	}
	p.Closed = !p.Closed
	e.doc.Portals[portalID] = p
	e.dirty = true
	return nil
}

// ToggleLight flips a light's active state.
func (e *Engine) ToggleLight(lightID string) error {
	if e.doc == nil {
		return errNoMap
	}
	l, ok := e.doc.Lights[lightID]
	if !ok {
		return fmt.Errorf("light not found: %s", lightID)
	}
	l.Active = !l.Active
	e.doc.Lights[lightID] = l
	e.dirty = true
	return nil
}

// MoveLight moves an unattached light to new coordinates.
func (e *Engine) MoveLight(lightID string, x, y float64) error {
	if e.doc == nil {
		return errNoMap
	}
	l, ok := e.doc.Lights[lightID]
	if !ok {
		return fmt.Errorf("light not found: %s", lightID)
	}
	l.X, l.Y = x, y
	e.doc.Lights[lightID] = l
	e.dirty = true
	return nil
}

// SetAmbient sets the map's baseline light level.
func (e *Engine) SetAmbient(ambient string, magical bool) error {
	if e.doc == nil {
		return errNoMap
	}
	e.doc.Map.Ambient = scene.ParseAmbientLight(ambient)
	e.doc.Map.MagicalDarkness = magical
	e.dirty = true
	return nil
}

// SetVisionProfile updates a token's vision modality and range.
func (e *Engine) SetVisionProfile(tokenID, modality string, visionRange float64) error {
	if e.doc == nil {
		return errNoMap
	}
	t, ok := e.doc.Tokens[tokenID]
	if !ok {
		return fmt.Errorf("token not found: %s", tokenID)
	}
	t.Vision = scene.VisionProfile{
		Modality: scene.ParseVisionModality(modality),
		Range:    visionRange,
	}
	e.doc.Tokens[tokenID] = t
	e.dirty = true
	return nil
}

// --- Queries (frontend ← backend) ---

// Result recomputes the visibility snapshot if anything changed since the
// last query and returns it.
func (e *Engine) Result() *Result {
	if e.doc == nil {
		return nil
	}
	if e.dirty || e.last == nil {
		e.last = computeSceneVisibility(InputFromDocument(e.doc), e.cache)
		e.dirty = false
	}
	return e.last
}

// Snapshot returns the current visibility snapshot as JSON.
func (e *Engine) Snapshot() string {
	res := e.Result()
	if res == nil {
		return "{}"
	}
	data, _ := json.Marshal(res)
	return string(data)
}

// GetMap returns the full map document as JSON.
func (e *Engine) GetMap() string {
	if e.doc == nil {
		return "{}"
	}
	data, _ := json.Marshal(e.doc)
	return string(data)
}

// Perceives reports whether a token perceives the given point.
func (e *Engine) Perceives(tokenID string, x, y float64) bool {
	res := e.Result()
	if res == nil {
		return false
	}
	return res.Perceives(tokenID, geom.Point{X: x, Y: y})
}

// LightLevelAt returns the light level name at the given point, suffixed
// with " (magical)" when the point lies in magical darkness.
func (e *Engine) LightLevelAt(x, y float64) string {
	res := e.Result()
	if res == nil {
		return LevelUnlit.String()
	}
	level, magical := res.LevelAt(geom.Point{X: x, Y: y})
	if magical {
		return level.String() + " (magical)"
	}
	return level.String()
}

var errNoMap = fmt.Errorf("no map loaded")
