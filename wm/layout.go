package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Tile arranges the master/stack layout: the first min(n, nmaster)
// tiled clients stack vertically in a left strip of width
// ww*mfact (or the whole width if n<=nmaster), the rest fill a right
// strip — spec.md §4.3 and boundary scenario #1.
func Tile(m *Monitor) {
	tiled := tiledClients(m)
	n := len(tiled)
	if n == 0 {
		return
	}

	mw := m.WW
	if n > m.NMaster {
		if m.NMaster > 0 {
			mw = int(float64(m.WW) * m.MFact)
		} else {
			mw = 0
		}
	}

	my, ty := 0, 0
	for i, c := range tiled {
		if i < m.NMaster {
			h := (m.WH - my) / (min(n, m.NMaster) - i)
			c.resize(m.WX, m.WY+my, mw-2*c.BW, h-2*c.BW, false)
			my += c.height()
		} else {
			stackW := m.WW - mw
			h := (m.WH - ty) / (n - i)
			c.resize(m.WX+mw, m.WY+ty, stackW-2*c.BW, h-2*c.BW, false)
			ty += c.height()
		}
	}
}

// Monocle places every tiled client at the full usable geometry and
// overrides the layout symbol to "[N]" — spec.md §4.3, boundary
// scenario #3.
func Monocle(m *Monitor) {
	tiled := tiledClients(m)
	if len(tiled) > 0 {
		m.LtSymbol = fmt.Sprintf("[%d]", len(tiled))
	}
	for _, c := range tiled {
		c.resize(m.WX, m.WY, m.WW-2*c.BW, m.WH-2*c.BW, false)
	}
}

func tiledClients(m *Monitor) []*Client {
	var out []*Client
	for _, c := range m.Clients {
		if c.isVisible() && !c.IsFloating {
			out = append(out, c)
		}
	}
	return out
}

// resize applies a geometry through size-hint enforcement and calls
// resizeClient only if anything actually changed — dwm.c's resize, with
// resizeClient below as its resizeclient. A client with no monitor, or
// whose monitor has no WM back-reference (as in tests), just has the
// geometry stored, with no hints applied and no X request.
func (c *Client) resize(x, y, w, h int, interact bool) {
	if c.Mon == nil || c.Mon.wm == nil {
		c.X, c.Y, c.W, c.H = x, y, w, h
		return
	}
	nx, ny, nw, nh, changed := c.Mon.wm.applySizeHints(c, x, y, w, h, interact)
	if !changed {
		return
	}
	c.resizeClient(nx, ny, nw, nh)
}

// resizeClient unconditionally applies geometry and issues the X
// ConfigureWindow request plus a synthetic ConfigureNotify — dwm.c's
// resizeclient.
func (c *Client) resizeClient(x, y, w, h int) {
	c.OldX, c.OldY, c.OldW, c.OldH = c.X, c.Y, c.W, c.H
	c.X, c.Y, c.W, c.H = x, y, w, h
	wm := c.Mon.wm
	xproto.ConfigureWindow(wm.Conn, c.Win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|
			xproto.ConfigWindowHeight|xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(w), uint32(h), uint32(c.BW)})
	wm.sendConfigureNotify(c)
	wm.Conn.Sync()
}

func (w *WM) sendConfigureNotify(c *Client) {
	ev := xproto.ConfigureNotifyEvent{
		Event:            c.Win,
		Window:           c.Win,
		X:                int16(c.X),
		Y:                int16(c.Y),
		Width:            uint16(c.W),
		Height:           uint16(c.H),
		BorderWidth:      uint16(c.BW),
		OverrideRedirect: false,
	}
	xproto.SendEvent(w.Conn, false, c.Win, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// showhide places one client: visible clients go to their stored (x, y),
// with a hint-respecting resize for floating non-fullscreen clients;
// invisible clients are pushed off-screen to the left — spec.md §4.3.
// dwm.c recurses top-down over the focus stack for visible clients and
// bottom-up for hidden ones, but the two orders only matter to its
// pointer-chasing traversal: each client's placement here depends only
// on its own geometry, so arrangeOne's single forward pass over m.Stack
// is an equivalent, simpler walk.
func (w *WM) showhide(c *Client) {
	if c == nil {
		return
	}
	if c.isVisible() {
		xproto.ConfigureWindow(w.Conn, c.Win, xproto.ConfigWindowX|xproto.ConfigWindowY,
			[]uint32{uint32(int32(c.X)), uint32(int32(c.Y))})
		if (c.Mon.layout().Arrange == nil || c.IsFloating) && !c.IsFullscreen {
			c.resize(c.X, c.Y, c.W, c.H, false)
		}
	} else {
		off := -2 * c.width()
		xproto.ConfigureWindow(w.Conn, c.Win, xproto.ConfigWindowX,
			[]uint32{uint32(int32(off))})
	}
}

// restack redraws the bar, raises the selected client if it is floating
// or the layout is floating, and when the layout tiles restacks every
// non-floating visible client below the bar in focus-stack order, then
// drains queued
// EnterNotify events so the restack itself doesn't cause a spurious
// focus change — spec.md §4.3.
func (w *WM) restack(m *Monitor) {
	w.drawBar(m)
	if m.Sel == nil {
		return
	}
	if m.Sel.IsFloating || m.layout().Arrange == nil {
		xproto.ConfigureWindow(w.Conn, m.Sel.Win, xproto.ConfigWindowStackMode,
			[]uint32{xproto.StackModeAbove})
	}
	if m.layout().Arrange != nil {
		above := m.BarWin
		for _, c := range m.Stack {
			if !c.IsFloating && c.isVisible() {
				xproto.ConfigureWindow(w.Conn, c.Win,
					xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
					[]uint32{uint32(above), xproto.StackModeBelow})
				above = c.Win
			}
		}
	}
	w.Conn.Sync()
	w.drainEnterNotify()
}

// arrange runs showhide, the active layout's arrange function, and
// restack for one monitor, or showhide+arrange (no restack) for every
// monitor when m is nil — spec.md §4.3's arrange(m).
func (w *WM) arrange(m *Monitor) {
	if m != nil {
		w.arrangeOne(m)
		w.restack(m)
		return
	}
	for mm := w.Mons; mm != nil; mm = mm.Next {
		w.arrangeOne(mm)
	}
}

func (w *WM) arrangeOne(m *Monitor) {
	for _, c := range m.Stack {
		w.showhide(c)
	}
	if m.layout().Arrange != nil {
		m.layout().Arrange(m)
	}
}
