package wm

import "testing"

// newTiledClient builds a client attached to mon, tagged onto the
// monitor's active tagset so tiledClients/isVisible picks it up.
func newTiledClient(mon *Monitor, bw int) *Client {
	return &Client{Mon: mon, Tags: mon.Tagset[mon.SelTags], BW: bw}
}

// Boundary scenario #1 from spec.md §8: single monitor, four windows,
// tile layout, mfact=0.55, nmaster=1, window area 1600x1000. The first
// tiled window receives (0, 0, 880-2bw, 1000-2bw); the remaining three
// fill the right strip with heights 333, 333, 334 top to bottom.
func TestTileBoundaryScenario1(t *testing.T) {
	mon := &Monitor{WX: 0, WY: 0, WW: 1600, WH: 1000, NMaster: 1, MFact: 0.55, Tagset: [2]uint32{1, 0}}
	clients := make([]*Client, 4)
	for i := range clients {
		clients[i] = newTiledClient(mon, 0)
	}
	mon.Clients = clients

	Tile(mon)

	master := clients[0]
	if master.X != 0 || master.Y != 0 || master.W != 880 || master.H != 1000 {
		t.Fatalf("master geometry = (%d,%d,%d,%d), want (0,0,880,1000)",
			master.X, master.Y, master.W, master.H)
	}
	wantH := []int{333, 333, 334}
	wantY := 0
	for i, c := range clients[1:] {
		if c.X != 880 {
			t.Fatalf("stack client %d X = %d, want 880", i, c.X)
		}
		if c.Y != wantY {
			t.Fatalf("stack client %d Y = %d, want %d", i, c.Y, wantY)
		}
		if c.H != wantH[i] {
			t.Fatalf("stack client %d H = %d, want %d", i, c.H, wantH[i])
		}
		wantY += c.H
	}
}

// Regression for the nmaster=0 bug: Mod+d/IncNMaster can floor nmaster
// to 0 (wm/run.go's max(m.NMaster+arg.I, 0)). dwm.c's tile() then treats
// the master area as zero-width (mw = m->nmaster ? ... : 0) so every
// tiled client falls into the stack strip at the monitor's full usable
// width — it must not silently leave mw at m.WW, which would instead
// collapse the stack strip to zero width.
func TestTileNMasterZero(t *testing.T) {
	mon := &Monitor{WX: 0, WY: 0, WW: 1000, WH: 500, NMaster: 0, MFact: 0.5, Tagset: [2]uint32{1, 0}}
	a := newTiledClient(mon, 0)
	b := newTiledClient(mon, 0)
	mon.Clients = []*Client{a, b}

	Tile(mon)

	for i, c := range []*Client{a, b} {
		if c.W != 1000 {
			t.Fatalf("client %d width = %d, want 1000 (full usable width, no master strip)", i, c.W)
		}
	}
}

// Boundary scenario #3 from spec.md §8: monocle with n=3 on a
// 1920x1080 usable area, border 1: every tiled client is placed at
// (wx, wy, 1918, 1078); the layout symbol becomes "[3]".
func TestMonocleBoundaryScenario3(t *testing.T) {
	mon := &Monitor{WX: 0, WY: 0, WW: 1920, WH: 1080, Tagset: [2]uint32{1, 0}}
	clients := []*Client{
		newTiledClient(mon, 1),
		newTiledClient(mon, 1),
		newTiledClient(mon, 1),
	}
	mon.Clients = clients

	Monocle(mon)

	if mon.LtSymbol != "[3]" {
		t.Fatalf("LtSymbol = %q, want \"[3]\"", mon.LtSymbol)
	}
	for i, c := range clients {
		if c.X != 0 || c.Y != 0 || c.W != 1918 || c.H != 1078 {
			t.Fatalf("client %d geometry = (%d,%d,%d,%d), want (0,0,1918,1078)",
				i, c.X, c.Y, c.W, c.H)
		}
	}
}
