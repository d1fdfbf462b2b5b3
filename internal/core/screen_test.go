package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)
	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, expected 12x4", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Errorf("GetCell(%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetCell(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetCell(2, 3, Cell{Rune: '═', Color: ColorBrown})

	if c := s.GetCell(2, 3); c.Rune != '═' || c.Color != ColorBrown {
		t.Errorf("GetCell(2, 3) = %+v", c)
	}
	if s.Get(2, 3) != '═' {
		t.Errorf("Get(2, 3) = %q, expected '═'", s.Get(2, 3))
	}

	for _, p := range [][2]int{{-1, 0}, {5, 0}, {0, -1}, {0, 5}} {
		s.SetCell(p[0], p[1], Cell{Rune: 'X'})
		if s.Get(p[0], p[1]) != ' ' {
			t.Errorf("out of bounds (%d, %d) should read as space", p[0], p[1])
		}
	}

	s.Clear()
	if s.GetCell(2, 3) != blankCell {
		t.Error("Clear() should blank every cell")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawTextColored(7, 1, "seed", ColorCyan)

	if s.Row(1) != "       see" {
		t.Errorf("Row(1) = %q, expected clipped text", s.Row(1))
	}
	if s.GetCell(8, 1).Color != ColorCyan {
		t.Error("DrawTextColored should colour every rune")
	}

	s.DrawTextCentered(0, "ab", ColorDefault)
	if s.Get(4, 0) != 'a' || s.Get(5, 0) != 'b' {
		t.Errorf("DrawTextCentered: row 0 = %q", s.Row(0))
	}

	// Multi-byte runes advance one cell each.
	s.DrawText(0, 2, "╱╲")
	if s.Get(0, 2) != '╱' || s.Get(1, 2) != '╲' {
		t.Errorf("DrawText multi-byte: row 2 = %q", s.Row(2))
	}
}

func TestScreenDrawBoxAndRect(t *testing.T) {
	s := NewScreen(8, 6)
	s.DrawRect(NewRect(1, 1, 5, 4), Cell{Rune: '.'})
	s.DrawBox(NewRect(1, 1, 5, 4), ColorYellow)

	want := []string{
		"        ",
		" ┌───┐  ",
		" │...│  ",
		" │...│  ",
		" └───┘  ",
		"        ",
	}
	for y, w := range want {
		if got := s.Row(y); got != w {
			t.Errorf("Row(%d) = %q, expected %q", y, got, w)
		}
	}
	if s.GetCell(1, 1).Color != ColorYellow {
		t.Error("box corner should carry the box colour")
	}
}

func TestScreenResizeKeepsContent(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")

	s.Resize(4, 2)
	if s.Width() != 4 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, expected 4x2", s.Width(), s.Height())
	}
	if s.Row(0) != "Hell" {
		t.Errorf("Row(0) = %q after shrink", s.Row(0))
	}

	s.Resize(12, 3)
	if !strings.HasPrefix(s.Row(0), "Hell ") {
		t.Errorf("Row(0) = %q after grow", s.Row(0))
	}
	if s.String() != "Hell        \n            \n            " {
		t.Errorf("String() = %q", s.String())
	}
	if s.Row(-1) != strings.Repeat(" ", 12) {
		t.Error("out of range Row should be blank")
	}
}
