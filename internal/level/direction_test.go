package level

import "testing"

func TestRailDirectionTables(t *testing.T) {
	tests := []struct {
		d       RailDirection
		tile    int
		row     int
		surface float64 // at t = 0.25, height 10, 8 px tiles
	}{
		{Flat, 133, 10, 86},
		{Climb, 187, 11, 92},
		{Descend, 188, 10, 80},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			if got := int(tt.d.Tile()); got != tt.tile {
				t.Errorf("Tile() = %d, expected %d", got, tt.tile)
			}
			if got := tt.d.TileRow(10); got != tt.row {
				t.Errorf("TileRow(10) = %d, expected %d", got, tt.row)
			}
			if got := tt.d.Surface(10, 0.25, 8); got != tt.surface {
				t.Errorf("Surface(10, 0.25, 8) = %v, expected %v", got, tt.surface)
			}
		})
	}
}

func TestInvalidRailDirectionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Tile() on an invalid direction should panic")
		}
	}()
	bad := RailDirection(7)
	if bad.String() != "RailDirection(7)" {
		t.Errorf("String() = %q", bad.String())
	}
	bad.Tile()
}
