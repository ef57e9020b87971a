package scene

// Common light source presets, in map grid units (1 unit = 5 ft).

// NewTorch creates a torch light: 4 units bright, 8 dim, warm orange.
func NewTorch(id string, x, y float64) Light {
	return Light{ID: id, Name: "Torch", X: x, Y: y, BrightRadius: 4, DimRadius: 8,
		Color: "#FFAA00", Intensity: 1, Active: true, Shadows: true}
}

// NewLantern creates a lantern light: 6 units bright, 12 dim, warm yellow.
func NewLantern(id string, x, y float64) Light {
	return Light{ID: id, Name: "Lantern", X: x, Y: y, BrightRadius: 6, DimRadius: 12,
		Color: "#FFD700", Intensity: 1, Active: true, Shadows: true}
}

// NewCandle creates a candle light: 1 unit bright, 2 dim.
func NewCandle(id string, x, y float64) Light {
	return Light{ID: id, Name: "Candle", X: x, Y: y, BrightRadius: 1, DimRadius: 2,
		Color: "#FFCC66", Intensity: 0.8, Active: true, Shadows: true}
}

// NewLightSpell creates a Light-spell source: 4 units bright, 8 dim, white.
func NewLightSpell(id string, x, y float64) Light {
	return Light{ID: id, Name: "Light", X: x, Y: y, BrightRadius: 4, DimRadius: 8,
		Color: "#FFFFFF", Intensity: 1, Active: true, Shadows: true}
}

// NewDaylight creates a Daylight-spell source: 12 units bright, 24 dim.
func NewDaylight(id string, x, y float64) Light {
	return Light{ID: id, Name: "Daylight", X: x, Y: y, BrightRadius: 12, DimRadius: 24,
		Color: "#FFFFEE", Intensity: 1, Active: true, Shadows: true}
}

// NewDarknessSpell creates a Darkness-spell source: 3 units of magical
// darkness that suppresses other light.
func NewDarknessSpell(id string, x, y float64) Light {
	return Light{ID: id, Name: "Darkness", X: x, Y: y, BrightRadius: 3, DimRadius: 3,
		Intensity: 1, Active: true, Shadows: true, Darkness: true, Magical: true}
}
