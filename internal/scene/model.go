package scene

import (
	"github.com/tablewick/tablewick/backend-go/internal/geom"
)

// MapDocument is the full authored state of one tactical map: static walls,
// togglable portals, light sources, and token placements. It is the unit of
// sync between the server, the collab hub, and the wasm engine.
type MapDocument struct {
	Map     MapInfo           `json:"map"`
	Walls   map[string]Wall   `json:"walls"`
	Portals map[string]Portal `json:"portals"`
	Lights  map[string]Light  `json:"lights"`
	Tokens  map[string]Token  `json:"tokens"`
}

// AmbientLight is the per-map baseline light level absent any active source.
type AmbientLight string

const (
	AmbientBright   AmbientLight = "bright"
	AmbientDim      AmbientLight = "dim"
	AmbientDarkness AmbientLight = "darkness"
)

// ParseAmbientLight maps a stored string to an AmbientLight, defaulting to
// bright for unknown values.
func ParseAmbientLight(s string) AmbientLight {
	switch AmbientLight(s) {
	case AmbientDim:
		return AmbientDim
	case AmbientDarkness:
		return AmbientDarkness
	default:
		return AmbientBright
	}
}

type MapInfo struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Width         float64      `json:"width"`
	Height        float64      `json:"height"`
	PixelsPerGrid int          `json:"pixelsPerGrid"`
	Ambient       AmbientLight `json:"ambient"`
	// MagicalDarkness marks ambient darkness as magical: darkvision cannot
	// lift it, truesight sees through it, devil's sight treats it as plain
	// darkness. Meaningless unless Ambient is darkness.
	MagicalDarkness bool   `json:"magicalDarkness,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// Bounds returns the map extents as a rect anchored at the origin.
func (m MapInfo) Bounds() geom.Rect {
	return geom.Rect{X: 0, Y: 0, Width: m.Width, Height: m.Height}
}

// Wall is an opaque line segment authored on the map.
type Wall struct {
	ID string  `json:"id"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Segment returns the wall as a geometry segment.
func (w Wall) Segment() geom.Segment {
	return geom.Segment{A: geom.Point{X: w.X1, Y: w.Y1}, B: geom.Point{X: w.X2, Y: w.Y2}}
}

// Portal is a wall that blocks vision only while closed (a door). Toggling
// Closed is the only runtime mutation to the occluder set.
type Portal struct {
	ID     string  `json:"id"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Closed bool    `json:"closed"`
}

// Segment returns the portal's wall as a geometry segment.
func (p Portal) Segment() geom.Segment {
	return geom.Segment{A: geom.Point{X: p.X1, Y: p.Y1}, B: geom.Point{X: p.X2, Y: p.Y2}}
}

// Light is a point light source. BrightRadius <= DimRadius is an authoring
// invariant; readers clamp rather than error. When AttachedTokenID is set the
// position is resolved from that token at computation time.
type Light struct {
	ID              string  `json:"id"`
	Name            string  `json:"name,omitempty"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	BrightRadius    float64 `json:"brightRadius"`
	DimRadius       float64 `json:"dimRadius"`
	Color           string  `json:"color,omitempty"`
	Intensity       float64 `json:"intensity,omitempty"`
	Active          bool    `json:"active"`
	Shadows         bool    `json:"shadows"`
	AttachedTokenID string  `json:"attachedTokenId,omitempty"`
	// Darkness inverts the source: it emits darkness instead of light,
	// suppressing other illumination within its radii.
	Darkness bool `json:"darkness,omitempty"`
	// Magical marks a darkness source as magical (see MapInfo.MagicalDarkness).
	Magical bool `json:"magical,omitempty"`
}

// Position returns the light's own coordinates. Attached lights are resolved
// by the caller against the current token placement instead.
func (l Light) Position() geom.Point {
	return geom.Point{X: l.X, Y: l.Y}
}

// VisionModality is the categorical rule set governing how a token's
// effective sight is derived from light level and line of sight.
type VisionModality string

const (
	VisionNormal      VisionModality = "normal"
	VisionDarkvision  VisionModality = "darkvision"
	VisionBlindsight  VisionModality = "blindsight"
	VisionTremorsense VisionModality = "tremorsense"
	VisionTruesight   VisionModality = "truesight"
	VisionDevilsSight VisionModality = "devils_sight"
)

// ParseVisionModality maps a stored string to a modality, defaulting to
// normal vision for unknown values.
func ParseVisionModality(s string) VisionModality {
	switch VisionModality(s) {
	case VisionDarkvision, VisionBlindsight, VisionTremorsense, VisionTruesight, VisionDevilsSight:
		return VisionModality(s)
	case "devilssight":
		return VisionDevilsSight
	default:
		return VisionNormal
	}
}

// IgnoresOcclusion reports whether the modality perceives through walls.
func (m VisionModality) IgnoresOcclusion() bool {
	return m == VisionBlindsight || m == VisionTremorsense
}

// SeesInDarkness reports whether the modality can perceive unlit points
// within its range.
func (m VisionModality) SeesInDarkness() bool {
	return m != VisionNormal
}

// VisionProfile is a token's vision modality plus its range in map units.
// Range is ignored for normal vision (unlimited, bounds-gated).
type VisionProfile struct {
	Modality VisionModality `json:"modality"`
	Range    float64        `json:"range,omitempty"`
}

// Token is a creature or object placed on the map. VisibleToPlayers gates
// whether the token's sight contributes to the shared party display.
type Token struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	X                float64       `json:"x"`
	Y                float64       `json:"y"`
	Color            string        `json:"color,omitempty"`
	VisibleToPlayers bool          `json:"visibleToPlayers"`
	Vision           VisionProfile `json:"vision"`
}

// Position returns the token's coordinates.
func (t Token) Position() geom.Point {
	return geom.Point{X: t.X, Y: t.Y}
}

// NewEmptyMap creates a blank map document.
func NewEmptyMap(mapID, name string, width, height float64) *MapDocument {
	return &MapDocument{
		Map: MapInfo{
			ID:            mapID,
			Name:          name,
			Width:         width,
			Height:        height,
			PixelsPerGrid: 50,
			Ambient:       AmbientBright,
		},
		Walls:   map[string]Wall{},
		Portals: map[string]Portal{},
		Lights:  map[string]Light{},
		Tokens:  map[string]Token{},
	}
}
