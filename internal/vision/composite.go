package vision

import (
	"sort"

	"github.com/tablewick/tablewick/backend-go/internal/geom"
	"github.com/tablewick/tablewick/backend-go/internal/scene"
)

// Shape is one renderable piece of a region: an occlusion polygon, a disk,
// or the whole map rect. Exactly one field is set.
type Shape struct {
	Polygon *Polygon   `json:"polygon,omitempty"`
	Disk    *geom.Disk `json:"disk,omitempty"`
	Rect    *geom.Rect `json:"rect,omitempty"`
}

// Region is an observer's renderable visible area: additive shapes clipped by
// an optional line-of-sight boundary. A nil LOS means the modality ignores
// occlusion entirely.
type Region struct {
	LOS    *Polygon `json:"los,omitempty"`
	Shapes []Shape  `json:"shapes"`
}

// ObserverRegion pairs a token with its effective visible region.
type ObserverRegion struct {
	TokenID  string               `json:"tokenId"`
	Modality scene.VisionModality `json:"modality"`
	Region   Region               `json:"region"`
}

// Composite is the union of every party-visible observer's region, consumed
// by the shared display. The union stays a flat list: the renderer composites
// overlapping regions additively, no polygon booleans required.
type Composite struct {
	Regions []Region `json:"regions"`
}

// Input is the full snapshot handed to one visibility computation. The engine
// never mutates it and retains nothing between calls.
type Input struct {
	Walls          []geom.Segment
	Portals        []PortalState
	Lights         []scene.Light
	Tokens         []scene.Token
	Ambient        scene.AmbientLight
	MagicalAmbient bool
	Bounds         geom.Rect
}

// InputFromDocument flattens a map document into a computation input, with
// deterministic ordering so identical documents yield identical output.
func InputFromDocument(doc *scene.MapDocument) Input {
	in := Input{
		Ambient:        doc.Map.Ambient,
		MagicalAmbient: doc.Map.MagicalDarkness,
		Bounds:         doc.Map.Bounds(),
	}
	for _, id := range sortedKeys(doc.Walls) {
		in.Walls = append(in.Walls, doc.Walls[id].Segment())
	}
	for _, id := range sortedKeys(doc.Portals) {
		p := doc.Portals[id]
		in.Portals = append(in.Portals, PortalState{ID: p.ID, Wall: p.Segment(), Closed: p.Closed})
	}
	for _, id := range sortedKeys(doc.Lights) {
		in.Lights = append(in.Lights, doc.Lights[id])
	}
	for _, id := range sortedKeys(doc.Tokens) {
		in.Tokens = append(in.Tokens, doc.Tokens[id])
	}
	return in
}

func sortedKeys[M map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Result is one visibility snapshot: per-light illumination regions, every
// observer's effective region, and the party composite. It also retains the
// computed polygons and lighting so callers can run exact point queries
// against the same state the regions were built from.
type Result struct {
	Lights    []LightRegion    `json:"lights"`
	Observers []ObserverRegion `json:"observers"`
	Composite Composite        `json:"composite"`

	lighting  *Lighting
	observers map[string]Observer
	losPolys  map[string]*Polygon
}

// Perceives reports whether the given observer token perceives point p,
// applying its full modality rules. Unknown tokens perceive nothing.
func (r *Result) Perceives(tokenID string, p geom.Point) bool {
	obs, ok := r.observers[tokenID]
	if !ok {
		return false
	}
	return perceives(obs, r.losPolys[tokenID], r.lighting, p)
}

// PartyPerceives reports whether any party-visible observer perceives p.
func (r *Result) PartyPerceives(p geom.Point, partyTokens []string) bool {
	for _, id := range partyTokens {
		if r.Perceives(id, p) {
			return true
		}
	}
	return false
}

// LevelAt returns the effective light level at p and whether the point lies
// in magical darkness.
func (r *Result) LevelAt(p geom.Point) (LightLevel, bool) {
	return r.lighting.LevelAt(p)
}

// ComputeSceneVisibility is the engine's single entry point: a pure function
// of its input producing one visibility snapshot. Any relevant state change
// (token move, portal toggle, light edit, ambient change) warrants a fresh
// call; the previous result is simply discarded.
func ComputeSceneVisibility(in Input) *Result {
	return computeSceneVisibility(in, nil)
}

func computeSceneVisibility(in Input, cache *polygonCache) *Result {
	occluders := OccludingSegments(in.Walls, in.Portals)
	wallsHash := hashWalls(occluders)

	tokensByID := make(map[string]scene.Token, len(in.Tokens))
	for _, t := range in.Tokens {
		tokensByID[t.ID] = t
	}

	// Resolve active lights; attached lights follow their token's current
	// position, skipping lights whose token is gone.
	resolved := make([]resolvedLight, 0, len(in.Lights))
	for _, l := range in.Lights {
		if !l.Active {
			continue
		}
		pos := l.Position()
		if l.AttachedTokenID != "" {
			t, ok := tokensByID[l.AttachedTokenID]
			if !ok {
				continue
			}
			pos = t.Position()
		}
		rl := resolvedLight{light: l, pos: pos}
		if l.Shadows {
			rl.poly = cache.computePolygon(pos, occluders, maxRadius(l), in.Bounds, wallsHash)
		}
		resolved = append(resolved, rl)
	}

	lighting := &Lighting{
		ambient:        AmbientLevel(in.Ambient),
		ambientMagical: in.MagicalAmbient && in.Ambient == scene.AmbientDarkness,
		sources:        resolved,
	}

	res := &Result{
		lighting:  lighting,
		observers: make(map[string]Observer, len(in.Tokens)),
		losPolys:  make(map[string]*Polygon, len(in.Tokens)),
	}

	for _, rl := range resolved {
		res.Lights = append(res.Lights, illuminate(rl))
	}

	for _, t := range in.Tokens {
		obs := Observer{TokenID: t.ID, Position: t.Position(), Profile: t.Vision}
		res.observers[t.ID] = obs

		var los *Polygon
		if !t.Vision.Modality.IgnoresOcclusion() {
			// The sweep runs at full map range regardless of the modality's
			// range: darkvision-family senses still see lit areas beyond
			// their range under normal rules, so range only bounds the
			// level-shift zone, not the line of sight.
			los = cache.computePolygon(obs.Position, occluders, in.Bounds.Diagonal(), in.Bounds, wallsHash)
			res.losPolys[t.ID] = los
		}

		region := effectiveRegion(obs, los, lighting, res.Lights, in.Bounds)
		res.Observers = append(res.Observers, ObserverRegion{
			TokenID:  t.ID,
			Modality: t.Vision.Modality,
			Region:   region,
		})

		if t.VisibleToPlayers {
			res.Composite.Regions = append(res.Composite.Regions, region)
		}
	}

	return res
}

func maxRadius(l scene.Light) float64 {
	if l.DimRadius >= l.BrightRadius {
		return l.DimRadius
	}
	return l.BrightRadius
}
