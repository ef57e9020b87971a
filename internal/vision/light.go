package vision

import (
	"math"

	"github.com/tablewick/tablewick/backend-go/internal/geom"
	"github.com/tablewick/tablewick/backend-go/internal/scene"
)

// LightLevel is the effective illumination at a point. Levels are ordered:
// bright > dim > unlit.
type LightLevel int

const (
	LevelUnlit LightLevel = iota
	LevelDim
	LevelBright
)

func (l LightLevel) String() string {
	switch l {
	case LevelBright:
		return "bright"
	case LevelDim:
		return "dim"
	default:
		return "unlit"
	}
}

// AmbientLevel converts a map's ambient light setting into a baseline level.
func AmbientLevel(a scene.AmbientLight) LightLevel {
	switch a {
	case scene.AmbientBright:
		return LevelBright
	case scene.AmbientDim:
		return LevelDim
	default:
		return LevelUnlit
	}
}

// resolvedLight is an active light with its position resolved (attached
// lights follow their token) and its occlusion polygon computed when the
// source casts shadows.
type resolvedLight struct {
	light scene.Light
	pos   geom.Point
	poly  *Polygon // nil when the source ignores occluders
}

// Lighting is the composed illumination state of a scene: ambient baseline
// plus every active source. It answers per-point light-level queries.
type Lighting struct {
	ambient        LightLevel
	ambientMagical bool
	sources        []resolvedLight
}

// LevelAt returns the effective light level at p and whether the point lies
// in magical darkness. The level is the maximum contributed by any single
// source, floored by the ambient level; darkness sources then suppress it.
func (l *Lighting) LevelAt(p geom.Point) (LightLevel, bool) {
	level := l.ambient
	for _, s := range l.sources {
		if s.light.Darkness {
			continue
		}
		c := s.contribution(p)
		if c > level {
			level = c
		}
	}

	magical := l.ambientMagical && level == LevelUnlit
	for _, s := range l.sources {
		if !s.light.Darkness {
			continue
		}
		if s.contribution(p) > LevelUnlit {
			level = LevelUnlit
			if s.light.Magical {
				magical = true
			}
		}
	}
	return level, magical
}

// contribution returns the level this single source provides at p: bright
// inside the bright radius, dim inside the dim radius, unlit outside or when
// a shadow-casting source has no line to the point. For darkness sources the
// returned level only marks coverage.
func (s resolvedLight) contribution(p geom.Point) LightLevel {
	brightR, dimR := s.light.BrightRadius, s.light.DimRadius
	if dimR < brightR {
		dimR = brightR // authoring invariant: clamp, don't error
	}
	d2 := s.pos.DistSq(p)
	if d2 > dimR*dimR {
		return LevelUnlit
	}
	if s.poly != nil && !s.poly.Contains(p) {
		return LevelUnlit
	}
	if d2 <= brightR*brightR {
		return LevelBright
	}
	return LevelDim
}

// LightRegion is one source's renderable illumination: the bright core and
// the dim falloff, either occlusion-shaped polygons or plain disks. Darkness
// sources are flagged so the renderer subtracts them instead of adding.
type LightRegion struct {
	LightID   string  `json:"lightId"`
	Color     string  `json:"color,omitempty"`
	Intensity float64 `json:"intensity,omitempty"`
	Darkness  bool    `json:"darkness,omitempty"`
	Magical   bool    `json:"magical,omitempty"`
	Bright    Shape   `json:"bright"`
	Dim       Shape   `json:"dim"`
}

// illuminate produces the renderable region for one resolved source. Shadowed
// sources reuse the sweep already computed at the dim radius; the bright core
// is the same polygon clamped to the bright radius. Shadowless sources are
// plain disks, ignoring all occluders.
func illuminate(s resolvedLight) LightRegion {
	brightR := math.Min(s.light.BrightRadius, s.light.DimRadius)
	dimR := math.Max(s.light.BrightRadius, s.light.DimRadius)

	region := LightRegion{
		LightID:   s.light.ID,
		Color:     s.light.Color,
		Intensity: s.light.Intensity,
		Darkness:  s.light.Darkness,
		Magical:   s.light.Magical,
	}
	if s.poly != nil {
		region.Dim = Shape{Polygon: s.poly}
		region.Bright = Shape{Polygon: s.poly.ClampToRadius(brightR)}
	} else {
		region.Dim = Shape{Disk: &geom.Disk{Center: s.pos, Radius: dimR}}
		region.Bright = Shape{Disk: &geom.Disk{Center: s.pos, Radius: brightR}}
	}
	return region
}
