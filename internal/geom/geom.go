package geom

import "math"

// PosEpsilon is the positional tolerance used when filtering near-duplicate
// wall endpoints and when deciding whether a point lies on a segment.
const PosEpsilon = 1e-6

// Point is a plane coordinate in the map's pixel or grid-unit space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Cross returns the 2D cross product p × q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// DistSq returns the squared distance between p and q.
func (p Point) DistSq(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// AngleTo returns the angle of the vector from p to q in radians.
func (p Point) AngleTo(q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Near reports whether p and q coincide within PosEpsilon.
func (p Point) Near(q Point) bool {
	return p.DistSq(q) < PosEpsilon*PosEpsilon
}

// Segment is an undirected line segment between two points. Walls and closed
// portals are segments for occlusion purposes.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.A.Dist(s.B)
}

// IsDegenerate reports whether the segment has (near) zero length. Degenerate
// walls are authoring artifacts and are filtered, never processed.
func (s Segment) IsDegenerate() bool {
	return s.A.Near(s.B)
}

// DistToPoint returns the shortest distance from p to the segment.
func (s Segment) DistToPoint(p Point) float64 {
	d := s.B.Sub(s.A)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return s.A.Dist(p)
	}
	t := ((p.X-s.A.X)*d.X + (p.Y-s.A.Y)*d.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(s.A.Add(d.Scale(t)))
}

// RaySegment intersects the ray origin + t*dir (t >= 0) with the segment.
// It returns the ray parameter t of the intersection point and whether the
// ray hits the segment at all.
func RaySegment(origin, dir Point, s Segment) (float64, bool) {
	seg := s.B.Sub(s.A)
	denom := dir.Cross(seg)
	if math.Abs(denom) < 1e-12 {
		return 0, false // parallel
	}
	ao := s.A.Sub(origin)
	t := ao.Cross(seg) / denom
	u := ao.Cross(dir) / denom
	if t < 0 || u < -1e-12 || u > 1+1e-12 {
		return 0, false
	}
	return t, true
}

// SegmentsIntersect reports whether segments s1 and s2 properly intersect,
// and returns the intersection point when they do.
func SegmentsIntersect(s1, s2 Segment) (Point, bool) {
	d1 := s1.B.Sub(s1.A)
	denom := d1.Cross(s2.B.Sub(s2.A))
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	ao := s2.A.Sub(s1.A)
	t := ao.Cross(s2.B.Sub(s2.A)) / denom
	u := ao.Cross(d1) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return s1.A.Add(d1.Scale(t)), true
}

// Disk is a filled circle, used for range-limited occlusion-ignoring senses
// and for shadowless light falloff.
type Disk struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside the disk.
func (d Disk) Contains(p Point) bool {
	return d.Center.DistSq(p) <= d.Radius*d.Radius
}

// Rect is an axis-aligned rectangle, used for map bounds.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// IsEmpty reports whether the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Edges returns the four boundary segments of the rect. These act as implicit
// walls so a visibility sweep always closes even with no occluders.
func (r Rect) Edges() [4]Segment {
	tl := Point{r.X, r.Y}
	tr := Point{r.X + r.Width, r.Y}
	br := Point{r.X + r.Width, r.Y + r.Height}
	bl := Point{r.X, r.Y + r.Height}
	return [4]Segment{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
}

// Diagonal returns the length of the rect's diagonal, the largest useful
// sweep range inside the rect.
func (r Rect) Diagonal() float64 {
	return math.Hypot(r.Width, r.Height)
}

// PointInPolygon reports whether p lies inside the closed polygon described
// by pts, using the even-odd crossing rule. Points on the boundary may land
// on either side; callers needing boundary inclusion should test with a small
// inset.
func PointInPolygon(pts []Point, p Point) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xCross := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
