package vision

import (
	"github.com/tablewick/tablewick/backend-go/internal/geom"
	"github.com/tablewick/tablewick/backend-go/internal/scene"
)

// Observer is a token's position plus its vision profile.
type Observer struct {
	TokenID  string
	Position geom.Point
	Profile  scene.VisionProfile
}

// perceives is the per-point vision gate: given the observer's line-of-sight
// polygon (nil for occlusion-ignoring modalities) and the scene lighting, it
// decides whether the observer perceives p.
//
// Modality rules:
//   - normal: sees bright and dim at any distance, nothing unlit.
//   - darkvision(r): within r the light level is raised one step (darkness
//     reads as dim, dim as bright) unless the darkness is magical; beyond r
//     normal rules apply.
//   - blindsight(r) / tremorsense(r): full perception within straight-line
//     distance r, ignoring walls and light.
//   - truesight(r): within r perceives regardless of light, magical darkness
//     included; beyond r normal rules apply.
//   - devils_sight(r): within r magical darkness counts as ordinary darkness
//     and darkvision rules apply; beyond r normal rules apply.
//
// Every modality except blindsight/tremorsense is gated by the line-of-sight
// polygon.
func perceives(obs Observer, los *Polygon, lighting *Lighting, p geom.Point) bool {
	m := obs.Profile.Modality
	r := obs.Profile.Range
	inRange := r > 0 && obs.Position.DistSq(p) <= r*r

	if m.IgnoresOcclusion() {
		return inRange
	}

	if !los.Contains(p) {
		return false
	}

	level, magical := lighting.LevelAt(p)

	switch m {
	case scene.VisionTruesight:
		if inRange {
			return true
		}
	case scene.VisionDarkvision:
		if inRange && !magical && level < LevelBright {
			level++
		}
	case scene.VisionDevilsSight:
		if inRange {
			if level < LevelBright {
				level++
			}
			return level >= LevelDim
		}
	}

	return level >= LevelDim
}

// effectiveRegion assembles the renderable region for one observer. For
// occlusion-gated modalities the region is the line-of-sight polygon clipping
// a set of additive shapes: the ambient baseline, every light source's dim
// region, and (for darkness-piercing modalities) the observer's own range
// disk. Blindsight and tremorsense reduce to a bare disk.
//
// Darkness sources are not subtracted here; the renderer composites them from
// Result.Lights. Exact per-point answers come from Result.Perceives.
func effectiveRegion(obs Observer, los *Polygon, lighting *Lighting, lights []LightRegion, bounds geom.Rect) Region {
	m := obs.Profile.Modality
	r := obs.Profile.Range

	if m.IgnoresOcclusion() {
		return Region{Shapes: []Shape{{Disk: &geom.Disk{Center: obs.Position, Radius: r}}}}
	}

	shapes := make([]Shape, 0, len(lights)+2)
	if lighting.ambient >= LevelDim {
		b := bounds
		shapes = append(shapes, Shape{Rect: &b})
	}
	for _, lr := range lights {
		if lr.Darkness {
			continue
		}
		shapes = append(shapes, lr.Dim)
	}
	if darknessDisk(m, lighting) && r > 0 {
		shapes = append(shapes, Shape{Disk: &geom.Disk{Center: obs.Position, Radius: r}})
	}

	return Region{LOS: los, Shapes: shapes}
}

// darknessDisk reports whether the modality earns a self-centered sight disk
// in the current ambient conditions. Darkvision cannot pierce magical ambient
// darkness; truesight and devil's sight can.
func darknessDisk(m scene.VisionModality, lighting *Lighting) bool {
	switch m {
	case scene.VisionTruesight, scene.VisionDevilsSight:
		return true
	case scene.VisionDarkvision:
		return !(lighting.ambientMagical && lighting.ambient == LevelUnlit)
	default:
		return false
	}
}
