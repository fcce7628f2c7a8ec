package wm

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func testScreen(w, h uint16) *xproto.ScreenInfo {
	return &xproto.ScreenInfo{WidthInPixels: w, HeightInPixels: h}
}

// Boundary scenario #2 from spec.md §8: increment hints incw=80, inch=16,
// base 0,0, min 80,16; a mouse-resize proposal of (837, 409) resizes to
// (800, 400).
func TestApplySizeHintsIncrement(t *testing.T) {
	mon := &Monitor{WX: 0, WY: 0, WW: 1920, WH: 1080, LT: [2]*Layout{{Arrange: Tile}, {Arrange: Tile}}}
	c := &Client{
		X: 0, Y: 0, W: 800, H: 400,
		IncW: 80, IncH: 16,
		MinW: 80, MinH: 16,
		BaseW: 0, BaseH: 0,
		Mon: mon,
	}
	w := &WM{Screen: testScreen(1920, 1080), Cfg: &Config{ResizeHints: true}}

	_, _, gotW, gotH, _ := w.applySizeHints(c, 0, 0, 837, 409, false)
	if gotW != 800 || gotH != 400 {
		t.Fatalf("applySizeHints(837, 409) = (%d, %d), want (800, 400)", gotW, gotH)
	}
}

// Size-hint application must be a fixed point (spec.md §8 Laws): applying
// it twice to the same proposal yields the same result as applying it
// once.
func TestApplySizeHintsFixedPoint(t *testing.T) {
	mon := &Monitor{WX: 0, WY: 0, WW: 1920, WH: 1080, LT: [2]*Layout{{Arrange: Tile}, {Arrange: Tile}}}
	c := &Client{
		X: 0, Y: 0, W: 800, H: 400,
		IncW: 80, IncH: 16,
		MinW: 80, MinH: 16,
		MaxW: 1600, MaxH: 900,
		Mon: mon,
	}
	w := &WM{Screen: testScreen(1920, 1080), Cfg: &Config{ResizeHints: true}}

	x1, y1, w1, h1, _ := w.applySizeHints(c, 10, 10, 843, 411, false)
	c2 := *c
	c2.X, c2.Y, c2.W, c2.H = x1, y1, w1, h1
	x2, y2, w2, h2, changed2 := w.applySizeHints(&c2, x1, y1, w1, h1, false)

	if x1 != x2 || y1 != y2 || w1 != w2 || h1 != h2 || changed2 {
		t.Fatalf("not a fixed point: first=(%d,%d,%d,%d) second=(%d,%d,%d,%d) changed=%v",
			x1, y1, w1, h1, x2, y2, w2, h2, changed2)
	}
}
