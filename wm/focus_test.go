package wm

import "testing"

// Zoom must no-op under a floating (non-arranging) layout even for a
// non-floating client — dwm.c's zoom additionally guards on
// "!selmon->lt[selmon->sellt]->arrange", not just c->isfloating.
func TestZoomNoopUnderFloatingLayout(t *testing.T) {
	mon := &Monitor{LT: [2]*Layout{{Arrange: nil}, {Arrange: nil}}, Tagset: [2]uint32{1, 0}}
	c := newTiledClient(mon, 0)
	mon.Clients = []*Client{c}
	mon.Sel = c
	w := &WM{SelMon: mon}

	Zoom(w, &Arg{})

	if mon.Sel != c {
		t.Fatalf("Zoom mutated selection under a floating layout: got %v, want unchanged %v", mon.Sel, c)
	}
	if len(mon.Clients) != 1 || mon.Clients[0] != c {
		t.Fatalf("Zoom reordered clients under a floating layout: %v", mon.Clients)
	}
}

// Zoom must still no-op for a floating client under a tiling layout.
func TestZoomNoopWhenFloating(t *testing.T) {
	mon := &Monitor{LT: [2]*Layout{{Arrange: Tile}, {Arrange: Tile}}, Tagset: [2]uint32{1, 0}}
	c := newTiledClient(mon, 0)
	c.IsFloating = true
	mon.Clients = []*Client{c}
	mon.Sel = c
	w := &WM{SelMon: mon}

	Zoom(w, &Arg{})

	if mon.Sel != c {
		t.Fatalf("Zoom mutated selection for a floating client: got %v, want unchanged %v", mon.Sel, c)
	}
}
