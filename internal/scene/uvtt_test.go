package scene

import (
	"testing"
)

const sampleUVTT = `{
	"format": 0.3,
	"resolution": {
		"map_origin": {"x": 0, "y": 0},
		"map_size": {"x": 30, "y": 20},
		"pixels_per_grid": 70
	},
	"line_of_sight": [
		[{"x": 1, "y": 1}, {"x": 10, "y": 1}, {"x": 10, "y": 8}],
		[{"x": 15, "y": 15}, {"x": 20, "y": 15}]
	],
	"portals": [
		{
			"position": {"x": 10, "y": 9},
			"bounds": [{"x": 10, "y": 8}, {"x": 10, "y": 10}],
			"rotation": 0,
			"closed": true,
			"freestanding": false
		}
	],
	"lights": [
		{
			"position": {"x": 5, "y": 5},
			"range": 8,
			"intensity": 0,
			"color": "ffdd88ff",
			"shadows": true
		}
	],
	"environment": {
		"baked_lighting": false,
		"ambient_light": "ffffffff"
	}
}`

func TestImportUVTT(t *testing.T) {
	doc, err := ImportUVTT("Crypt", []byte(sampleUVTT))
	if err != nil {
		t.Fatalf("ImportUVTT: %v", err)
	}

	if doc.Map.Name != "Crypt" {
		t.Errorf("name = %q", doc.Map.Name)
	}
	if doc.Map.Width != 30 || doc.Map.Height != 20 {
		t.Errorf("size = %vx%v, want 30x20", doc.Map.Width, doc.Map.Height)
	}
	if doc.Map.PixelsPerGrid != 70 {
		t.Errorf("pixelsPerGrid = %d, want 70", doc.Map.PixelsPerGrid)
	}
	if doc.Map.Ambient != AmbientDarkness {
		t.Errorf("ambient = %q, want darkness without baked lighting", doc.Map.Ambient)
	}

	// Two polylines with 3 and 2 points: 2+1 wall segments.
	if len(doc.Walls) != 3 {
		t.Errorf("walls = %d, want 3", len(doc.Walls))
	}

	if len(doc.Portals) != 1 {
		t.Fatalf("portals = %d, want 1", len(doc.Portals))
	}
	for _, p := range doc.Portals {
		if !p.Closed {
			t.Error("portal should import closed")
		}
		if p.X1 != 10 || p.Y1 != 8 || p.X2 != 10 || p.Y2 != 10 {
			t.Errorf("portal bounds = (%v,%v)-(%v,%v)", p.X1, p.Y1, p.X2, p.Y2)
		}
	}

	if len(doc.Lights) != 1 {
		t.Fatalf("lights = %d, want 1", len(doc.Lights))
	}
	for _, l := range doc.Lights {
		if l.BrightRadius != 4 || l.DimRadius != 8 {
			t.Errorf("light radii = %v/%v, want 4/8", l.BrightRadius, l.DimRadius)
		}
		if !l.Active || !l.Shadows {
			t.Error("imported light should be active and shadow-casting")
		}
		if l.Intensity != 1 {
			t.Errorf("zero intensity should default to 1, got %v", l.Intensity)
		}
	}
}

func TestImportUVTTBakedLighting(t *testing.T) {
	data := `{"resolution": {"map_size": {"x": 10, "y": 10}}, "environment": {"baked_lighting": true}}`
	doc, err := ImportUVTT("Baked", []byte(data))
	if err != nil {
		t.Fatalf("ImportUVTT: %v", err)
	}
	if doc.Map.Ambient != AmbientBright {
		t.Errorf("baked lighting should import as ambient bright, got %q", doc.Map.Ambient)
	}
}

func TestImportUVTTRejectsBadInput(t *testing.T) {
	if _, err := ImportUVTT("x", []byte("not json")); err == nil {
		t.Error("malformed JSON should fail")
	}
	if _, err := ImportUVTT("x", []byte(`{"resolution": {"map_size": {"x": 0, "y": 10}}}`)); err == nil {
		t.Error("zero-size map should fail")
	}
}
