package wm

import (
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
)

// createMon builds a new Monitor with the config's default layout,
// mfact, nmaster and bar visibility — dwm.c's createmon.
func (w *WM) createMon() *Monitor {
	m := &Monitor{
		MFact:   w.Cfg.MFact,
		NMaster: w.Cfg.NMaster,
		ShowBar: w.Cfg.ShowBar,
		TopBar:  w.Cfg.TopBar,
		wm:      w,
	}
	m.Tagset[0], m.Tagset[1] = 1, 1
	if len(w.Cfg.Layouts) > 0 {
		m.LT[0] = &w.Cfg.Layouts[0]
	}
	if len(w.Cfg.Layouts) > 1 {
		m.LT[1] = &w.Cfg.Layouts[1]
	} else {
		m.LT[1] = m.LT[0]
	}
	m.LtSymbol = m.LT[0].Symbol
	return m
}

// cleanupMon unlinks m from the monitor list and destroys its bar
// window — dwm.c's cleanupmon.
func (w *WM) cleanupMon(m *Monitor) {
	if w.Mons == m {
		w.Mons = m.Next
	} else {
		for p := w.Mons; p != nil; p = p.Next {
			if p.Next == m {
				p.Next = m.Next
				break
			}
		}
	}
	if m.BarWin != 0 {
		xproto.UnmapWindow(w.Conn, m.BarWin)
		xproto.DestroyWindow(w.Conn, m.BarWin)
	}
}

// xineramaGeom is a deduplicated Xinerama screen rectangle.
type xineramaGeom struct{ X, Y, W, H int }

// queryXinerama returns the unique screen geometries reported by
// Xinerama, dropping exact-duplicate origin+size entries — dwm.c's
// isuniquegeom loop inside updategeom.
func (w *WM) queryXinerama() ([]xineramaGeom, error) {
	if err := xinerama.Init(w.Conn); err != nil {
		return nil, err
	}
	reply, err := xinerama.QueryScreens(w.Conn).Reply()
	if err != nil {
		return nil, err
	}
	var uniq []xineramaGeom
	for _, s := range reply.ScreenInfo {
		g := xineramaGeom{int(s.XOrg), int(s.YOrg), int(s.Width), int(s.Height)}
		dup := false
		for _, u := range uniq {
			if u == g {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, g)
		}
	}
	return uniq, nil
}

// updateGeom re-derives the monitor list from the current display
// geometry, per spec.md §4.5: with Xinerama, grow or shrink the monitor
// list to match the unique screen count, migrating clients off any
// retired monitor onto the first remaining one and reselecting if the
// selected monitor itself was retired; without Xinerama (or on query
// failure), maintain exactly one monitor sized to the whole display.
// Returns whether anything changed, mirroring dwm.c's updategeom return
// value (used by callers to decide whether a rearrange is needed).
func (w *WM) updateGeom() bool {
	geoms, err := w.queryXinerama()
	if err != nil || len(geoms) == 0 {
		return w.updateGeomSingle()
	}

	dirty := false

	// Grow: attach new monitors for any geometry beyond the current count.
	existing := w.monitorCount()
	for i := existing; i < len(geoms); i++ {
		m := w.createMon()
		m.Next = w.Mons
		w.Mons = m
		dirty = true
	}

	// Assign geometries in list order (dwm.c walks both lists together).
	m := w.Mons
	for i := 0; i < len(geoms) && m != nil; i++ {
		g := geoms[i]
		if g.X != m.MX || g.Y != m.MY || g.W != m.MW || g.H != m.MH {
			dirty = true
			m.MX, m.MY, m.MW, m.MH = g.X, g.Y, g.W, g.H
			m.WX, m.WY, m.WW, m.WH = g.X, g.Y, g.W, g.H
			w.updateBarPos(m)
		}
		m = m.Next
	}

	// Shrink: retire every monitor beyond len(geoms), migrating its
	// clients to the first remaining monitor.
	for existing > len(geoms) {
		last := w.lastMonitor()
		for _, c := range append([]*Client(nil), last.Clients...) {
			dirty = true
			last.detach(c)
			last.detachStack(c)
			c.Mon = w.Mons
			w.Mons.attach(c)
			w.Mons.attachStack(c)
		}
		if w.SelMon == last {
			w.SelMon = w.Mons
		}
		w.cleanupMon(last)
		existing--
	}
	return dirty
}

func (w *WM) monitorCount() int {
	n := 0
	for m := w.Mons; m != nil; m = m.Next {
		n++
	}
	return n
}

func (w *WM) lastMonitor() *Monitor {
	m := w.Mons
	for m != nil && m.Next != nil {
		m = m.Next
	}
	return m
}

// updateGeomSingle maintains exactly one monitor sized to the root
// window's dimensions, used when Xinerama is unavailable.
func (w *WM) updateGeomSingle() bool {
	if w.Mons == nil {
		w.Mons = w.createMon()
	}
	sw, sh := int(w.Screen.WidthInPixels), int(w.Screen.HeightInPixels)
	if w.Mons.MW == sw && w.Mons.MH == sh {
		return false
	}
	w.Mons.MX, w.Mons.MY, w.Mons.MW, w.Mons.MH = 0, 0, sw, sh
	w.Mons.WX, w.Mons.WY, w.Mons.WW, w.Mons.WH = 0, 0, sw, sh
	w.updateBarPos(w.Mons)
	return true
}

// updateBarPos recomputes a monitor's usable area and bar y-coordinate
// from its ShowBar/TopBar settings — dwm.c's updatebarpos. Bar height
// itself is owned by the bar package; w.barHeight() asks it.
func (w *WM) updateBarPos(m *Monitor) {
	m.WY = m.MY
	m.WH = m.MH
	bh := w.barHeight()
	if m.ShowBar {
		m.WH -= bh
		if m.TopBar {
			m.BY = m.WY
			m.WY += bh
		} else {
			m.BY = m.WY + m.WH
		}
	} else {
		m.BY = -bh
	}
}

// wintomon returns the monitor containing win: its bar, its client, or —
// for the root window — the monitor under the pointer. dwm.c's wintomon.
func (w *WM) wintomon(win xproto.Window) *Monitor {
	if win == w.Root {
		if rootReply, err := xproto.QueryPointer(w.Conn, w.Root).Reply(); err == nil {
			return w.recttomon(int(rootReply.RootX), int(rootReply.RootY), 1, 1)
		}
	}
	for m := w.Mons; m != nil; m = m.Next {
		if win == m.BarWin {
			return m
		}
	}
	if c := w.wintoclient(win); c != nil {
		return c.Mon
	}
	return w.SelMon
}

// wintoclient returns the managed client owning win, across every
// monitor, or nil.
func (w *WM) wintoclient(win xproto.Window) *Client {
	for m := w.Mons; m != nil; m = m.Next {
		for _, c := range m.Clients {
			if c.Win == win {
				return c
			}
		}
	}
	return nil
}

// dirToMon returns the monitor one step before (dir<0) or after (dir>0)
// the currently selected monitor in list order, wrapping around —
// dwm.c's dirtomon.
func (w *WM) dirToMon(dir int) *Monitor {
	if dir > 0 {
		if w.SelMon.Next != nil {
			return w.SelMon.Next
		}
		return w.Mons
	}
	if w.SelMon == w.Mons {
		return w.lastMonitor()
	}
	for m := w.Mons; m != nil; m = m.Next {
		if m.Next == w.SelMon {
			return m
		}
	}
	return w.SelMon
}
