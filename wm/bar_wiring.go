package wm

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/aerkiaga/dwm/wm/bar"
)

// parseHexColor parses a "#rrggbb" string from config.go's color table
// into an image.Image scheme component, the drw_clr_create equivalent.
func parseHexColor(s string) image.Image {
	if len(s) != 7 || s[0] != '#' {
		return image.NewUniform(color.Black)
	}
	r, _ := strconv.ParseUint(s[1:3], 16, 8)
	g, _ := strconv.ParseUint(s[3:5], 16, 8)
	b, _ := strconv.ParseUint(s[5:7], 16, 8)
	return image.NewUniform(color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
}

// setupSchemes builds the Normal/Selected color schemes and the font
// fallback chain from the compile-time config — drw_scm_create plus
// drw_fontset_create, called once from lifecycle's setup.
func (w *WM) setupSchemes() {
	w.Fonts = bar.NewFontset(w.Cfg.Fonts)
	for i := range w.Scheme {
		w.Scheme[i] = bar.Scheme{
			Fg:     parseHexColor(w.Cfg.Colors[i][ColFg]),
			Bg:     parseHexColor(w.Cfg.Colors[i][ColBg]),
			Border: parseHexColor(w.Cfg.Colors[i][ColBorder]),
		}
	}
}

// barHeight is the bar's pixel height, once fonts are loaded — the
// height every monitor's usable-area computation (updateBarPos) and
// size-hint clamp (applySizeHints) subtracts/floors against.
func (w *WM) barHeight() int {
	if w.Fonts == nil {
		return 0
	}
	return w.Fonts.Height()
}

// createBar creates m's bar window and offscreen drawing surface, sized
// to the monitor's full width and the bar's height — dwm.c's
// updatebars, generalized from "create all bars at once" to "create one
// bar for a newly appearing monitor" since this module grows/shrinks the
// monitor list at runtime (spec.md §4.5) where taowm never does.
func (w *WM) createBar(m *Monitor) {
	bh := w.barHeight()
	win, err := xproto.NewWindowId(w.Conn)
	if err != nil {
		w.Log.Error("create bar window", "error", err)
		return
	}
	mask := uint32(xproto.CwOverrideRedirect | xproto.CwEventMask)
	values := []uint32{1, uint32(xproto.EventMaskExposure)}
	xproto.CreateWindow(w.Conn, w.Screen.RootDepth, win, w.Root,
		int16(m.MX), int16(m.BY), uint16(m.MW), uint16(bh), 0,
		xproto.WindowClassInputOutput, w.Screen.RootVisual, mask, values)
	xproto.MapWindow(w.Conn, win)
	m.BarWin = win
	if w.Bars == nil {
		w.Bars = map[*Monitor]*bar.Bar{}
	}
	w.Bars[m] = bar.New(w.Conn, win, byte(w.Screen.RootDepth), w.Fonts, m.MW, bh)
}

// drawBars redraws every monitor's bar — dwm.c's drawbars.
func (w *WM) drawBars() {
	for m := w.Mons; m != nil; m = m.Next {
		w.drawBar(m)
	}
}

// drawBar renders one monitor's bar cell-by-cell, left to right: tags,
// layout symbol, title, and (selected monitor only) right-justified
// status text — spec.md §4.6, dwm.c's drawbar.
func (w *WM) drawBar(m *Monitor) {
	b := w.Bars[m]
	if b == nil {
		return
	}
	bh := w.barHeight()

	occupied, urgentTags := uint32(0), uint32(0)
	for _, c := range m.Clients {
		occupied |= c.Tags
		if c.IsUrgent {
			urgentTags |= c.Tags
		}
	}

	x := 0
	for i, tag := range w.Cfg.Tags {
		bit := uint32(1) << uint(i)
		scm := SchemeNorm
		if m.Tagset[m.SelTags]&bit != 0 {
			scm = SchemeSel
		}
		if urgentTags&bit != 0 {
			scm = SchemeSel
		}
		width := w.Fonts.TextWidth(tag) + bh
		b.Text(w.Scheme[scm], x, 0, width, bh, bh/4, tag)
		if occupied&bit != 0 {
			b.Rect(w.Scheme[scm], x+1, 1, 3, 3, m.Sel != nil && m.Sel.Tags&bit != 0)
		}
		x += width
	}

	ltW := w.Fonts.TextWidth(m.LtSymbol) + bh
	b.Text(w.Scheme[SchemeNorm], x, 0, ltW, bh, bh/4, m.LtSymbol)
	x += ltW

	statusW := 0
	if m == w.SelMon {
		statusW = w.Fonts.TextWidth(w.StatusText) + bh
		b.Text(w.Scheme[SchemeNorm], m.MW-statusW, 0, statusW, bh, bh/4, w.StatusText)
	}

	titleW := m.MW - x - statusW
	if titleW > 0 {
		title := ""
		if m.Sel != nil {
			title = m.Sel.Name
		}
		scm := SchemeNorm
		if m.Sel != nil {
			scm = SchemeSel
		}
		b.Text(w.Scheme[scm], x, 0, titleW, bh, bh/4, title)
	}

	b.Map(0, 0, m.MW, bh)
}

// updateStatus refreshes the cached status text from the root window's
// WM_NAME, falling back to "dwm-<VERSION>" if unreadable — spec.md §4.6
// and §6, dwm.c's updatestatus.
func (w *WM) updateStatus() {
	s := w.getTextProp(w.Root, xproto.AtomWmName)
	if s == "" {
		s = fmt.Sprintf("dwm-%s", Version)
	}
	w.StatusText = s
	w.drawBar(w.SelMon)
}
