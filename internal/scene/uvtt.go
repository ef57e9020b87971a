package scene

import (
	"encoding/json"
	"fmt"

	"github.com/tablewick/tablewick/backend-go/internal/typeid"
)

// Universal VTT export format, as produced by Dungeondraft and friends.
// Coordinates are in grid units. Walls arrive as polylines, portals carry a
// pair of bound points, and lights carry a single range that covers both
// falloff zones.

type uvttPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type uvttPortal struct {
	Position     uvttPoint    `json:"position"`
	Bounds       [2]uvttPoint `json:"bounds"`
	Rotation     float64      `json:"rotation"`
	Closed       bool         `json:"closed"`
	Freestanding bool         `json:"freestanding"`
}

type uvttLight struct {
	Position  uvttPoint `json:"position"`
	Range     float64   `json:"range"`
	Intensity float64   `json:"intensity"`
	Color     string    `json:"color"`
	Shadows   bool      `json:"shadows"`
}

type uvttFile struct {
	Format     float64 `json:"format"`
	Resolution struct {
		MapOrigin     uvttPoint `json:"map_origin"`
		MapSize       uvttPoint `json:"map_size"`
		PixelsPerGrid int       `json:"pixels_per_grid"`
	} `json:"resolution"`
	LineOfSight [][]uvttPoint `json:"line_of_sight"`
	Portals     []uvttPortal  `json:"portals"`
	Lights      []uvttLight   `json:"lights"`
	Environment struct {
		BakedLighting bool   `json:"baked_lighting"`
		AmbientLight  string `json:"ambient_light"`
	} `json:"environment"`
}

// ImportUVTT parses a Universal VTT export into a map document. Wall
// polylines are split into individual segments; the light's single range maps
// to the dim radius with the bright radius at half, matching common VTT
// behavior. Maps with baked lighting default to ambient bright, others to
// darkness.
func ImportUVTT(name string, data []byte) (*MapDocument, error) {
	var f uvttFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse uvtt: %w", err)
	}
	if f.Resolution.MapSize.X <= 0 || f.Resolution.MapSize.Y <= 0 {
		return nil, fmt.Errorf("uvtt map has no size")
	}

	doc := NewEmptyMap(typeid.NewMapID(), name, f.Resolution.MapSize.X, f.Resolution.MapSize.Y)
	if f.Resolution.PixelsPerGrid > 0 {
		doc.Map.PixelsPerGrid = f.Resolution.PixelsPerGrid
	}
	if f.Environment.BakedLighting {
		doc.Map.Ambient = AmbientBright
	} else {
		doc.Map.Ambient = AmbientDarkness
	}

	for _, polyline := range f.LineOfSight {
		for i := 0; i+1 < len(polyline); i++ {
			id := typeid.NewWallID()
			doc.Walls[id] = Wall{
				ID: id,
				X1: polyline[i].X, Y1: polyline[i].Y,
				X2: polyline[i+1].X, Y2: polyline[i+1].Y,
			}
		}
	}

	for _, p := range f.Portals {
		id := typeid.NewPortalID()
		doc.Portals[id] = Portal{
			ID: id,
			X1: p.Bounds[0].X, Y1: p.Bounds[0].Y,
			X2: p.Bounds[1].X, Y2: p.Bounds[1].Y,
			Closed: p.Closed,
		}
	}

	for _, l := range f.Lights {
		id := typeid.NewLightID()
		intensity := l.Intensity
		if intensity <= 0 {
			intensity = 1
		}
		doc.Lights[id] = Light{
			ID:           id,
			X:            l.Position.X,
			Y:            l.Position.Y,
			BrightRadius: l.Range / 2,
			DimRadius:    l.Range,
			Color:        l.Color,
			Intensity:    intensity,
			Active:       true,
			Shadows:      l.Shadows,
		}
	}

	return doc, nil
}
