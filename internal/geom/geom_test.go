package geom

import (
	"math"
	"testing"
)

func TestRaySegment(t *testing.T) {
	tests := []struct {
		name    string
		origin  Point
		dir     Point
		seg     Segment
		wantHit bool
		wantT   float64
	}{
		{
			name:    "straight ahead",
			origin:  Point{0, 0},
			dir:     Point{1, 0},
			seg:     Segment{Point{10, -5}, Point{10, 5}},
			wantHit: true,
			wantT:   10,
		},
		{
			name:    "behind the origin",
			origin:  Point{0, 0},
			dir:     Point{1, 0},
			seg:     Segment{Point{-10, -5}, Point{-10, 5}},
			wantHit: false,
		},
		{
			name:    "parallel",
			origin:  Point{0, 0},
			dir:     Point{1, 0},
			seg:     Segment{Point{0, 5}, Point{10, 5}},
			wantHit: false,
		},
		{
			name:    "misses to the side",
			origin:  Point{0, 0},
			dir:     Point{1, 0},
			seg:     Segment{Point{10, 5}, Point{10, 15}},
			wantHit: false,
		},
		{
			name:    "hits an endpoint",
			origin:  Point{0, 0},
			dir:     Point{1, 0},
			seg:     Segment{Point{10, 0}, Point{10, 10}},
			wantHit: true,
			wantT:   10,
		},
		{
			name:    "diagonal hit",
			origin:  Point{0, 0},
			dir:     Point{math.Sqrt2 / 2, math.Sqrt2 / 2},
			seg:     Segment{Point{0, 10}, Point{10, 0}},
			wantHit: true,
			wantT:   math.Sqrt2 * 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, hit := RaySegment(tt.origin, tt.dir, tt.seg)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && math.Abs(gotT-tt.wantT) > 1e-9 {
				t.Errorf("t = %v, want %v", gotT, tt.wantT)
			}
		})
	}
}

func TestSegmentsIntersect(t *testing.T) {
	s1 := Segment{Point{0, 0}, Point{10, 10}}
	s2 := Segment{Point{0, 10}, Point{10, 0}}
	p, ok := SegmentsIntersect(s1, s2)
	if !ok {
		t.Fatal("expected intersection")
	}
	if math.Abs(p.X-5) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
		t.Errorf("intersection = %v, want (5,5)", p)
	}

	s3 := Segment{Point{20, 20}, Point{30, 30}}
	if _, ok := SegmentsIntersect(s1, s3); ok {
		t.Error("collinear non-overlapping segments should not intersect")
	}
}

func TestSegmentDegenerate(t *testing.T) {
	if !(Segment{Point{1, 1}, Point{1, 1}}).IsDegenerate() {
		t.Error("zero-length segment should be degenerate")
	}
	if (Segment{Point{1, 1}, Point{2, 2}}).IsDegenerate() {
		t.Error("real segment should not be degenerate")
	}
}

func TestSegmentDistToPoint(t *testing.T) {
	s := Segment{Point{0, 0}, Point{10, 0}}
	tests := []struct {
		p    Point
		want float64
	}{
		{Point{5, 3}, 3},
		{Point{-4, 0}, 4},
		{Point{13, 4}, 5},
		{Point{5, 0}, 0},
	}
	for _, tt := range tests {
		if got := s.DistToPoint(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DistToPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{5, 5}, true},
		{Point{15, 5}, false},
		{Point{-1, -1}, false},
		{Point{9.99, 9.99}, true},
	}
	for _, tt := range tests {
		if got := PointInPolygon(square, tt.p); got != tt.want {
			t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 20}
	edges := r.Edges()
	total := 0.0
	for _, e := range edges {
		total += e.Length()
	}
	if math.Abs(total-60) > 1e-9 {
		t.Errorf("perimeter = %v, want 60", total)
	}
	if !r.Contains(Point{5, 5}) || r.Contains(Point{11, 5}) {
		t.Error("Rect.Contains wrong")
	}
}

func TestDiskContains(t *testing.T) {
	d := Disk{Center: Point{0, 0}, Radius: 5}
	if !d.Contains(Point{3, 4}) {
		t.Error("boundary point should be inside")
	}
	if d.Contains(Point{3.1, 4}) {
		t.Error("point beyond radius should be outside")
	}
}
