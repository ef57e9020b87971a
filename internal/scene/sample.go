package scene

import (
	"time"

	"github.com/tablewick/tablewick/backend-go/internal/typeid"
)

// NewSampleMap builds the built-in playground dungeon: two rooms joined by a
// door, a torch in the west room, and a small party with mixed vision
// modalities, all in ambient darkness. Used by the playground room and the
// wasm demo.
func NewSampleMap() *MapDocument {
	now := time.Now().UTC().Format(time.RFC3339)

	mapID := typeid.NewMapID()
	doorID := typeid.NewPortalID()
	torchID := typeid.NewLightID()
	fighterID := typeid.NewTokenID()
	rogueID := typeid.NewTokenID()
	warlockID := typeid.NewTokenID()
	ghoulID := typeid.NewTokenID()

	doc := &MapDocument{
		Map: MapInfo{
			ID:            mapID,
			Name:          "Sample Dungeon",
			Width:         40,
			Height:        30,
			PixelsPerGrid: 50,
			Ambient:       AmbientDarkness,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		Walls:   map[string]Wall{},
		Portals: map[string]Portal{},
		Lights:  map[string]Light{},
		Tokens:  map[string]Token{},
	}

	// Two rooms split by a vertical wall at x=20 with a door gap at y 12–16.
	walls := []Wall{
		{X1: 2, Y1: 2, X2: 38, Y2: 2},
		{X1: 38, Y1: 2, X2: 38, Y2: 28},
		{X1: 38, Y1: 28, X2: 2, Y2: 28},
		{X1: 2, Y1: 28, X2: 2, Y2: 2},
		{X1: 20, Y1: 2, X2: 20, Y2: 12},
		{X1: 20, Y1: 16, X2: 20, Y2: 28},
	}
	for _, w := range walls {
		w.ID = typeid.NewWallID()
		doc.Walls[w.ID] = w
	}

	doc.Portals[doorID] = Portal{ID: doorID, X1: 20, Y1: 12, X2: 20, Y2: 16, Closed: true}
	doc.Lights[torchID] = NewTorch(torchID, 8, 15)

	doc.Tokens[fighterID] = Token{
		ID: fighterID, Name: "Fighter", X: 10, Y: 15, Color: "#e94560",
		VisibleToPlayers: true,
		Vision:           VisionProfile{Modality: VisionNormal},
	}
	doc.Tokens[rogueID] = Token{
		ID: rogueID, Name: "Rogue", X: 14, Y: 10, Color: "#53bf9d",
		VisibleToPlayers: true,
		Vision:           VisionProfile{Modality: VisionDarkvision, Range: 12},
	}
	doc.Tokens[warlockID] = Token{
		ID: warlockID, Name: "Warlock", X: 12, Y: 20, Color: "#bc6ff1",
		VisibleToPlayers: true,
		Vision:           VisionProfile{Modality: VisionDevilsSight, Range: 24},
	}
	doc.Tokens[ghoulID] = Token{
		ID: ghoulID, Name: "Ghoul", X: 30, Y: 15, Color: "#6b7280",
		VisibleToPlayers: false,
		Vision:           VisionProfile{Modality: VisionDarkvision, Range: 12},
	}

	return doc
}
