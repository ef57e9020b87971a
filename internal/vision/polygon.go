package vision

import (
	"math"
	"sort"

	"github.com/tablewick/tablewick/backend-go/internal/geom"
)

const (
	// angleEpsilon offsets the two extra rays cast on either side of a wall
	// endpoint. A ray passing exactly through an endpoint sits on a depth
	// discontinuity; without the ±epsilon pair the sweep leaks around
	// corners.
	angleEpsilon = 1e-4

	// fillerRays is the number of evenly spaced rays added on top of the
	// endpoint rays so an unobstructed sweep approximates a circle of
	// radius maxRange instead of collapsing to the bounds rectangle.
	fillerRays = 64
)

// Polygon is a visibility polygon: an ordered, star-shaped boundary swept
// around its origin. It always contains its origin.
type Polygon struct {
	Origin geom.Point   `json:"origin"`
	Points []geom.Point `json:"points"`
}

// ComputePolygon runs a radial-sweep shadow cast from origin against the
// given walls, bounded by maxRange and by the map bounds (whose edges act as
// implicit walls). Degenerate walls and walls the origin lies on are ignored.
func ComputePolygon(origin geom.Point, walls []geom.Segment, maxRange float64, bounds geom.Rect) *Polygon {
	if maxRange <= 0 {
		maxRange = bounds.Diagonal()
	}

	segs := make([]geom.Segment, 0, len(walls)+4)
	for _, w := range walls {
		if w.IsDegenerate() {
			continue
		}
		// A wall the origin sits on must not self-occlude.
		if w.DistToPoint(origin) < geom.PosEpsilon {
			continue
		}
		segs = append(segs, w)
	}
	edges := bounds.Edges()
	segs = append(segs, edges[:]...)

	angles := collectAngles(origin, segs)

	pts := make([]geom.Point, 0, len(angles))
	for _, a := range angles {
		dir := geom.Point{X: math.Cos(a), Y: math.Sin(a)}
		t := nearestHit(origin, dir, segs, maxRange)
		pts = append(pts, origin.Add(dir.Scale(t)))
	}

	return &Polygon{Origin: origin, Points: pts}
}

// collectAngles gathers the sweep angles: three rays per distinct wall
// endpoint (exact and ±epsilon) plus evenly spaced filler rays, sorted and
// deduplicated.
func collectAngles(origin geom.Point, segs []geom.Segment) []float64 {
	endpoints := make([]geom.Point, 0, len(segs)*2)
	for _, s := range segs {
		endpoints = appendEndpoint(endpoints, s.A)
		endpoints = appendEndpoint(endpoints, s.B)
	}

	angles := make([]float64, 0, len(endpoints)*3+fillerRays)
	for _, ep := range endpoints {
		a := origin.AngleTo(ep)
		angles = append(angles, a-angleEpsilon, a, a+angleEpsilon)
	}
	for i := 0; i < fillerRays; i++ {
		angles = append(angles, -math.Pi+2*math.Pi*float64(i)/fillerRays)
	}

	sort.Float64s(angles)

	out := angles[:0]
	last := math.Inf(-1)
	for _, a := range angles {
		if a-last < 1e-9 {
			continue
		}
		out = append(out, a)
		last = a
	}
	return out
}

func appendEndpoint(pts []geom.Point, p geom.Point) []geom.Point {
	for _, q := range pts {
		if q.Near(p) {
			return pts
		}
	}
	return append(pts, p)
}

// nearestHit casts a ray and returns the smallest hit distance, clamped to
// maxRange.
func nearestHit(origin, dir geom.Point, segs []geom.Segment, maxRange float64) float64 {
	best := maxRange
	for _, s := range segs {
		if t, ok := geom.RaySegment(origin, dir, s); ok && t < best {
			best = t
		}
	}
	return best
}

// Contains reports whether the polygon covers p. The origin itself is always
// inside.
func (p *Polygon) Contains(pt geom.Point) bool {
	if p == nil {
		return false
	}
	if p.Origin.Near(pt) {
		return true
	}
	return geom.PointInPolygon(p.Points, pt)
}

// ClampToRadius returns a copy of the polygon with every vertex pulled in to
// at most r from the origin. Because the sweep emits filler rays, the clamped
// boundary approximates the intersection of the polygon with a circle of
// radius r.
func (p *Polygon) ClampToRadius(r float64) *Polygon {
	out := &Polygon{Origin: p.Origin, Points: make([]geom.Point, len(p.Points))}
	for i, pt := range p.Points {
		d := p.Origin.Dist(pt)
		if d > r && d > 0 {
			pt = p.Origin.Add(pt.Sub(p.Origin).Scale(r / d))
		}
		out.Points[i] = pt
	}
	return out
}

// OccludingSegments assembles the active occluder set: static walls plus
// closed portals, with degenerate segments filtered out. Open portals do not
// block vision.
func OccludingSegments(walls []geom.Segment, portals []PortalState) []geom.Segment {
	out := make([]geom.Segment, 0, len(walls)+len(portals))
	for _, w := range walls {
		if !w.IsDegenerate() {
			out = append(out, w)
		}
	}
	for _, p := range portals {
		if p.Closed && !p.Wall.IsDegenerate() {
			out = append(out, p.Wall)
		}
	}
	return out
}

// PortalState is a portal's wall plus its current open/closed state.
type PortalState struct {
	ID     string
	Wall   geom.Segment
	Closed bool
}
