package scene

import "testing"

func TestLightPresets(t *testing.T) {
	tests := []struct {
		name   string
		light  Light
		bright float64
		dim    float64
	}{
		{"torch", NewTorch("l", 1, 2), 4, 8},
		{"lantern", NewLantern("l", 1, 2), 6, 12},
		{"candle", NewCandle("l", 1, 2), 1, 2},
		{"light spell", NewLightSpell("l", 1, 2), 4, 8},
		{"daylight", NewDaylight("l", 1, 2), 12, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.light.BrightRadius != tt.bright || tt.light.DimRadius != tt.dim {
				t.Errorf("radii = %v/%v, want %v/%v",
					tt.light.BrightRadius, tt.light.DimRadius, tt.bright, tt.dim)
			}
			if tt.light.X != 1 || tt.light.Y != 2 {
				t.Errorf("position = (%v,%v), want (1,2)", tt.light.X, tt.light.Y)
			}
			if !tt.light.Active || !tt.light.Shadows {
				t.Error("presets start active and shadow-casting")
			}
			if tt.light.Darkness || tt.light.Magical {
				t.Error("light presets must not emit darkness")
			}
		})
	}
}

func TestDarknessSpellPreset(t *testing.T) {
	d := NewDarknessSpell("d", 3, 4)
	if !d.Darkness || !d.Magical {
		t.Error("the Darkness spell emits magical darkness")
	}
	if d.BrightRadius != 3 || d.DimRadius != 3 {
		t.Errorf("radius = %v/%v, want 3/3", d.BrightRadius, d.DimRadius)
	}
	if !d.Active {
		t.Error("the spell starts active")
	}
}
