package vision

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/tablewick/tablewick/backend-go/internal/geom"
	"github.com/tablewick/tablewick/backend-go/internal/scene"
)

func TestComputeSceneVisibilityDeterministic(t *testing.T) {
	// Same document in, byte-identical snapshot out, across repeated runs.
	// Map iteration order must not leak into the result.
	doc := scene.NewSampleMap()

	first, err := json.Marshal(ComputeSceneVisibility(InputFromDocument(doc)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(ComputeSceneVisibility(InputFromDocument(doc)))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d produced a different snapshot", i)
		}
	}
}

func TestCompositeOnlyPartyTokens(t *testing.T) {
	hero := scene.Token{
		ID: "hero", X: 0, Y: 0, VisibleToPlayers: true,
		Vision: scene.VisionProfile{Modality: scene.VisionDarkvision, Range: 12},
	}
	lurker := scene.Token{
		ID: "lurker", X: 50, Y: 50, VisibleToPlayers: false,
		Vision: scene.VisionProfile{Modality: scene.VisionDarkvision, Range: 12},
	}
	in := Input{
		Tokens:  []scene.Token{hero, lurker},
		Ambient: scene.AmbientDarkness,
		Bounds:  testBounds,
	}
	res := ComputeSceneVisibility(in)

	if len(res.Observers) != 2 {
		t.Fatalf("every token gets an observer region, got %d", len(res.Observers))
	}
	if len(res.Composite.Regions) != 1 {
		t.Fatalf("only party-visible tokens join the composite, got %d regions", len(res.Composite.Regions))
	}
}

func TestCompositeUnionIsMonotonic(t *testing.T) {
	// Adding an observer never removes points the party already perceived.
	base := Input{
		Tokens: []scene.Token{{
			ID: "a", X: 0, Y: 0, VisibleToPlayers: true,
			Vision: scene.VisionProfile{Modality: scene.VisionDarkvision, Range: 20},
		}},
		Ambient: scene.AmbientDarkness,
		Bounds:  testBounds,
	}
	before := ComputeSceneVisibility(base)

	extended := base
	extended.Tokens = append([]scene.Token{}, base.Tokens...)
	extended.Tokens = append(extended.Tokens, scene.Token{
		ID: "b", X: 60, Y: 0, VisibleToPlayers: true,
		Vision: scene.VisionProfile{Modality: scene.VisionDarkvision, Range: 20},
	})
	after := ComputeSceneVisibility(extended)

	probes := []geom.Point{{X: 10, Y: 0}, {X: 0, Y: 15}, {X: -10, Y: -10}}
	party := []string{"a", "b"}
	for _, p := range probes {
		if before.PartyPerceives(p, []string{"a"}) && !after.PartyPerceives(p, party) {
			t.Errorf("point %v lost from the party union after adding an observer", p)
		}
	}
	if !after.PartyPerceives(geom.Point{X: 55, Y: 0}, party) {
		t.Error("new observer should extend the party union")
	}
}

func TestEmptyInput(t *testing.T) {
	res := ComputeSceneVisibility(Input{Ambient: scene.AmbientDarkness, Bounds: testBounds})
	if len(res.Lights) != 0 || len(res.Observers) != 0 || len(res.Composite.Regions) != 0 {
		t.Error("empty scene should yield an empty snapshot")
	}
	if level, _ := res.LevelAt(geom.Point{}); level != LevelUnlit {
		t.Errorf("empty dark scene level = %v", level)
	}
}

func TestInputFromDocumentOrdering(t *testing.T) {
	doc := scene.NewEmptyMap("map-1", "ordering", 100, 100)
	doc.Lights["b-light"] = scene.Light{ID: "b-light", X: 1, Y: 1, Active: true, BrightRadius: 1, DimRadius: 2}
	doc.Lights["a-light"] = scene.Light{ID: "a-light", X: 2, Y: 2, Active: true, BrightRadius: 1, DimRadius: 2}

	in := InputFromDocument(doc)
	if len(in.Lights) != 2 {
		t.Fatalf("expected 2 lights, got %d", len(in.Lights))
	}
	if in.Lights[0].ID != "a-light" || in.Lights[1].ID != "b-light" {
		t.Errorf("lights not in key order: %s, %s", in.Lights[0].ID, in.Lights[1].ID)
	}
}
