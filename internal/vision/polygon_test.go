package vision

import (
	"math"
	"testing"

	"github.com/tablewick/tablewick/backend-go/internal/geom"
)

var testBounds = geom.Rect{X: -100, Y: -100, Width: 200, Height: 200}

func TestComputePolygonSingleWall(t *testing.T) {
	// One wall in front of the origin: the polygon must have vertices at the
	// wall endpoints, exclude points shadowed by the wall, and include points
	// outside the wall's angular span.
	origin := geom.Point{X: 0, Y: 0}
	wall := geom.Segment{A: geom.Point{X: 10, Y: -5}, B: geom.Point{X: 10, Y: 5}}

	poly := ComputePolygon(origin, []geom.Segment{wall}, 100, testBounds)

	if !hasVertexNear(poly, geom.Point{X: 10, Y: -5}) || !hasVertexNear(poly, geom.Point{X: 10, Y: 5}) {
		t.Error("polygon should have vertices at the wall endpoints")
	}

	blocked := []geom.Point{{X: 20, Y: 0}, {X: 50, Y: 0}, {X: 30, Y: 10}}
	for _, p := range blocked {
		if poly.Contains(p) {
			t.Errorf("point %v behind the wall should not be visible", p)
		}
	}

	visible := []geom.Point{{X: 50, Y: 50}, {X: 5, Y: 0}, {X: -50, Y: 0}, {X: 0, Y: 50}}
	for _, p := range visible {
		if !poly.Contains(p) {
			t.Errorf("point %v outside the wall's shadow should be visible", p)
		}
	}
}

func TestComputePolygonNoWalls(t *testing.T) {
	// With no occluders the polygon approximates a circle of radius maxRange.
	origin := geom.Point{X: 0, Y: 0}
	poly := ComputePolygon(origin, nil, 50, testBounds)

	if len(poly.Points) < fillerRays {
		t.Fatalf("expected at least %d boundary points, got %d", fillerRays, len(poly.Points))
	}
	for _, p := range poly.Points {
		d := origin.Dist(p)
		if math.Abs(d-50) > 1e-6 {
			t.Fatalf("boundary point %v at distance %v, want 50", p, d)
		}
	}
	if !poly.Contains(geom.Point{X: 30, Y: 30}) {
		t.Error("interior point should be visible")
	}
	if poly.Contains(geom.Point{X: 60, Y: 0}) {
		t.Error("point beyond maxRange should not be visible")
	}
}

func TestComputePolygonBoundsClose(t *testing.T) {
	// A huge range still closes on the bounds rectangle.
	origin := geom.Point{X: 0, Y: 0}
	poly := ComputePolygon(origin, nil, 0, testBounds)

	for _, p := range poly.Points {
		if p.X < -100-1e-6 || p.X > 100+1e-6 || p.Y < -100-1e-6 || p.Y > 100+1e-6 {
			t.Fatalf("boundary point %v escapes the bounds", p)
		}
	}
}

func TestComputePolygonOriginOnWall(t *testing.T) {
	// A wall the origin sits on must not self-occlude.
	origin := geom.Point{X: 10, Y: 0}
	wall := geom.Segment{A: geom.Point{X: 10, Y: -5}, B: geom.Point{X: 10, Y: 5}}

	poly := ComputePolygon(origin, []geom.Segment{wall}, 50, testBounds)

	if !poly.Contains(geom.Point{X: 30, Y: 0}) || !poly.Contains(geom.Point{X: -10, Y: 0}) {
		t.Error("both sides of the origin's own wall should be visible")
	}
}

func TestComputePolygonDegenerateWallsFiltered(t *testing.T) {
	origin := geom.Point{X: 0, Y: 0}
	degenerate := geom.Segment{A: geom.Point{X: 10, Y: 0}, B: geom.Point{X: 10, Y: 0}}

	poly := ComputePolygon(origin, []geom.Segment{degenerate}, 50, testBounds)
	if !poly.Contains(geom.Point{X: 30, Y: 0}) {
		t.Error("degenerate wall must not occlude")
	}
}

func TestOccludingSegments(t *testing.T) {
	walls := []geom.Segment{
		{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 10, Y: 0}},
		{A: geom.Point{X: 5, Y: 5}, B: geom.Point{X: 5, Y: 5}}, // degenerate
	}
	portals := []PortalState{
		{ID: "door-a", Wall: geom.Segment{A: geom.Point{X: 10, Y: 0}, B: geom.Point{X: 10, Y: 5}}, Closed: true},
		{ID: "door-b", Wall: geom.Segment{A: geom.Point{X: 20, Y: 0}, B: geom.Point{X: 20, Y: 5}}, Closed: false},
	}

	segs := OccludingSegments(walls, portals)
	if len(segs) != 2 {
		t.Fatalf("expected 2 occluders (wall + closed portal), got %d", len(segs))
	}
}

func TestPortalToggleIsOnlyVariable(t *testing.T) {
	// With identical inputs, flipping a portal closed→open is the only change
	// that reveals a previously blocked point.
	origin := geom.Point{X: 0, Y: 0}
	walls := []geom.Segment{{A: geom.Point{X: 10, Y: -20}, B: geom.Point{X: 10, Y: -2}}}
	portal := PortalState{ID: "door", Wall: geom.Segment{A: geom.Point{X: 10, Y: -2}, B: geom.Point{X: 10, Y: 2}}, Closed: true}
	target := geom.Point{X: 30, Y: 0}

	closedPoly := ComputePolygon(origin, OccludingSegments(walls, []PortalState{portal}), 100, testBounds)
	if closedPoly.Contains(target) {
		t.Fatal("target should be blocked while the portal is closed")
	}

	portal.Closed = false
	openPoly := ComputePolygon(origin, OccludingSegments(walls, []PortalState{portal}), 100, testBounds)
	if !openPoly.Contains(target) {
		t.Fatal("target should be visible once the portal is open")
	}

	// The static wall's shadow is unchanged by the toggle.
	shadowed := geom.Point{X: 30, Y: -15}
	if closedPoly.Contains(shadowed) || openPoly.Contains(shadowed) {
		t.Error("static wall occlusion must not depend on the portal state")
	}
}

func TestClampToRadius(t *testing.T) {
	origin := geom.Point{X: 0, Y: 0}
	poly := ComputePolygon(origin, nil, 40, testBounds)
	clamped := poly.ClampToRadius(20)

	for _, p := range clamped.Points {
		if origin.Dist(p) > 20+1e-9 {
			t.Fatalf("clamped point %v beyond radius 20", p)
		}
	}
	if !clamped.Contains(geom.Point{X: 10, Y: 0}) {
		t.Error("clamped polygon should keep near points")
	}
	if clamped.Contains(geom.Point{X: 30, Y: 0}) {
		t.Error("clamped polygon should drop far points")
	}
}

func TestPolygonContainsOrigin(t *testing.T) {
	origin := geom.Point{X: 3, Y: 4}
	poly := ComputePolygon(origin, nil, 10, testBounds)
	if !poly.Contains(origin) {
		t.Error("a visibility polygon always contains its origin")
	}
}

func hasVertexNear(p *Polygon, target geom.Point) bool {
	for _, pt := range p.Points {
		if pt.Dist(target) < 1e-3 {
			return true
		}
	}
	return false
}
