package wm

// rect is a plain (x, y, w, h) rectangle, used for monitor-overlap
// scoring. Kept as a value type per the corpus convention (e.g.
// nigeltao-taowm/taowm/geom.go's rectangle helpers) rather than a
// pointer, since it never needs identity.
type rect struct {
	X, Y, W, H int
}

// intersectArea returns the area of the intersection of two rectangles,
// or 0 if they don't overlap. dwm.c's INTERSECT macro.
func intersectArea(x, y, w, h int, m rect) int {
	ix := max(0, min(x+w, m.X+m.W)-max(x, m.X))
	iy := max(0, min(y+h, m.Y+m.H)-max(y, m.Y))
	return ix * iy
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// recttomon returns the monitor whose usable area has the largest
// intersection with (x, y, w, h); ties keep the earlier monitor in list
// order. If no monitor overlaps at all, the currently selected monitor is
// returned — dwm.c's recttomon.
func (w *WM) recttomon(x, y, width, height int) *Monitor {
	best := w.SelMon
	bestArea := 0
	for m := w.Mons; m != nil; m = m.Next {
		a := intersectArea(x, y, width, height, rect{m.WX, m.WY, m.WW, m.WH})
		if a > bestArea {
			bestArea = a
			best = m
		}
	}
	return best
}

// applySizeHints enforces ICCCM 4.1.2.3 on a proposed geometry, per
// spec.md §4.2. It returns the (possibly clamped) geometry and whether it
// differs from the client's currently stored geometry — only then should
// the caller issue ConfigureWindow.
func (w *WM) applySizeHints(c *Client, x, y, width, height int, interact bool) (int, int, int, int, bool) {
	width = max(width, 1)
	height = max(height, 1)

	m := c.Mon
	if interact {
		// Keep the window from sliding entirely off the display.
		sw, sh := int(w.Screen.WidthInPixels), int(w.Screen.HeightInPixels)
		if x > sw {
			x = sw - c.width()
		}
		if y > sh {
			y = sh - c.height()
		}
		if x+width+2*c.BW < 0 {
			x = 0
		}
		if y+height+2*c.BW < 0 {
			y = 0
		}
	} else {
		if x >= m.WX+m.WW {
			x = m.WX + m.WW - c.width()
		}
		if y >= m.WY+m.WH {
			y = m.WY + m.WH - c.height()
		}
		if x+width+2*c.BW <= m.WX {
			x = m.WX
		}
		if y+height+2*c.BW <= m.WY {
			y = m.WY
		}
	}

	bh := w.barHeight()
	if height < bh {
		height = bh
	}
	if width < bh {
		width = bh
	}

	if c.IsFloating || m.layout().Arrange == nil || w.Cfg.ResizeHints {
		baseIsMin := c.BaseW == c.MinW && c.BaseH == c.MinH
		if !baseIsMin {
			width -= c.BaseW
			height -= c.BaseH
		}

		if c.MaxA > 0 && c.MinA > 0 {
			if c.MaxA < float64(width)/float64(height) {
				width = int(float64(height)*c.MaxA + 0.5)
			} else if c.MinA < float64(height)/float64(width) {
				height = int(float64(width)*c.MinA + 0.5)
			}
		}

		if baseIsMin {
			width -= c.BaseW
			height -= c.BaseH
		}
		if c.IncW > 0 {
			width -= width % c.IncW
		}
		if c.IncH > 0 {
			height -= height % c.IncH
		}

		width = max(width+c.BaseW, c.MinW)
		height = max(height+c.BaseH, c.MinH)
		if c.MaxW > 0 {
			width = min(width, c.MaxW)
		}
		if c.MaxH > 0 {
			height = min(height, c.MaxH)
		}
	}

	changed := x != c.X || y != c.Y || width != c.W || height != c.H
	return x, y, width, height, changed
}
