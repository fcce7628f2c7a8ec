package wm

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// New opens the X connection, builds the Context aggregate, runs setup,
// scans for already-mapped windows and starts the SIGCHLD reaper —
// dwm.c's main() minus the run() call, which callers invoke separately
// after New returns so a caller (cmd/dwm) can still react to a setup
// failure before entering the event loop.
func New(cfg *Config, log *slog.Logger) (*WM, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("open display: %w", err)
	}

	w := &WM{
		Conn:      conn,
		Log:       log,
		Cfg:       cfg,
		proactive: make(chan func(), 16),
	}

	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("X setup reports no screens")
	}
	w.ScreenNum = 0
	w.Screen = &setup.Roots[w.ScreenNum]
	w.Root = w.Screen.Root

	if err := w.checkOtherWM(); err != nil {
		conn.Close()
		return nil, err
	}

	if err := w.setupWM(); err != nil {
		conn.Close()
		return nil, err
	}

	w.scan()
	w.reapChildren()

	return w, nil
}

// checkOtherWM probes for a running window manager the same way dwm.c's
// checkotherwm does: request SubstructureRedirect on the root window and
// see whether the server answers with AccessError, which only happens
// when another client already holds that selection.
func (w *WM) checkOtherWM() error {
	err := xproto.ChangeWindowAttributesChecked(w.Conn, w.Root, xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskSubstructureRedirect)}).Check()
	if err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return fmt.Errorf("another window manager is already running")
		}
		return err
	}
	return nil
}

// setupWM is dwm.c's setup(): intern atoms, build cursors and color
// schemes, discover monitors, advertise EWMH support, select root events,
// grab keys and create every monitor's bar.
func (w *WM) setupWM() error {
	if err := w.initAtoms(); err != nil {
		return fmt.Errorf("intern atoms: %w", err)
	}
	if err := w.createCursors(); err != nil {
		return fmt.Errorf("create cursors: %w", err)
	}
	w.setupSchemes()

	if !w.updateGeom() {
		w.updateGeomSingle()
	}
	w.SelMon = w.Mons

	w.updateNumlockMask()

	if err := w.setSupportingWMCheck(); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	w.setCardinalProp(w.Root, w.Atoms.NetSupported, xproto.AtomAtom, 0)
	netSupportedData := make([]byte, 4*len(w.netSupported()))
	for i, a := range w.netSupported() {
		putUint32(netSupportedData[i*4:], uint32(a))
	}
	xproto.ChangeProperty(w.Conn, xproto.PropModeReplace, w.Root, w.Atoms.NetSupported,
		xproto.AtomAtom, 32, uint32(len(w.netSupported())), netSupportedData)
	xproto.DeleteProperty(w.Conn, w.Root, w.Atoms.NetClientList)

	for m := w.Mons; m != nil; m = m.Next {
		w.createBar(m)
	}
	w.updateStatus()

	xproto.ChangeWindowAttributes(w.Conn, w.Root,
		xproto.CwCursor|xproto.CwEventMask,
		[]uint32{uint32(w.Cursors[CurNormal]), uint32(
			xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify |
				xproto.EventMaskButtonPress | xproto.EventMaskPointerMotion |
				xproto.EventMaskEnterWindow | xproto.EventMaskLeaveWindow |
				xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange)})
	w.grabKeys()
	w.focus(nil)
	return nil
}

// setSupportingWMCheck creates the 1x1 check window EWMH clients use to
// confirm an EWMH-compliant WM is running — dwm.c's setupwmcheck,
// _NET_SUPPORTING_WM_CHECK on both the root and the check window itself,
// plus a _NET_WM_NAME identifying this implementation.
func (w *WM) setSupportingWMCheck() error {
	win, err := xproto.NewWindowId(w.Conn)
	if err != nil {
		return err
	}
	xproto.CreateWindow(w.Conn, w.Screen.RootDepth, win, w.Root,
		-1, -1, 1, 1, 0, xproto.WindowClassInputOutput, w.Screen.RootVisual, 0, nil)
	w.WMCheckWin = win
	w.setCardinalProp(win, w.Atoms.NetSupportingWMCheck, xproto.AtomWindow, uint32(win))
	w.setCardinalProp(w.Root, w.Atoms.NetSupportingWMCheck, xproto.AtomWindow, uint32(win))
	name := "dwm"
	xproto.ChangeProperty(w.Conn, xproto.PropModeReplace, win, w.Atoms.NetWMName,
		w.Atoms.UTF8String, 8, uint32(len(name)), []byte(name))
	return nil
}

// createCursors builds the three cursor glyphs this module ever
// displays (normal pointer, resize corner, move crosshair), adapted
// directly from the teacher's initDesktop: XC_left_ptr/XC_sizing/
// XC_fleur out of the standard X cursor font, opened/closed once rather
// than kept around (cursor glyphs don't need the font handle after
// CreateGlyphCursor returns).
func (w *WM) createCursors() error {
	const (
		xcLeftPtr = 68
		xcSizing  = 120
		xcFleur   = 52
	)
	glyphs := [CurLast]uint16{CurNormal: xcLeftPtr, CurResize: xcSizing, CurMove: xcFleur}

	font, err := xproto.NewFontId(w.Conn)
	if err != nil {
		return err
	}
	if err := xproto.OpenFontChecked(w.Conn, font, uint16(len("cursor")), "cursor").Check(); err != nil {
		return err
	}
	for kind, glyph := range glyphs {
		cursor, err := xproto.NewCursorId(w.Conn)
		if err != nil {
			return err
		}
		if err := xproto.CreateGlyphCursorChecked(w.Conn, cursor, font, font,
			glyph, glyph+1, 0xffff, 0xffff, 0xffff, 0, 0, 0).Check(); err != nil {
			return err
		}
		w.Cursors[kind] = cursor
	}
	return xproto.CloseFontChecked(w.Conn, font).Check()
}

// Close tears everything down — dwm.c's cleanup(): release every client
// (restoring its original border width), free cursors, destroy
// bars and the supporting-WM-check window, then close the connection.
func (w *WM) Close() {
	for m := w.Mons; m != nil; m = m.Next {
		for _, c := range append([]*Client(nil), m.Clients...) {
			w.unmanage(c, false)
		}
	}
	xproto.UngrabKey(w.Conn, xproto.GrabAny, w.Root, xproto.ModMaskAny)
	for m := w.Mons; m != nil; {
		next := m.Next
		w.cleanupMon(m)
		m = next
	}
	for _, cur := range w.Cursors {
		if cur != 0 {
			xproto.FreeCursor(w.Conn, cur)
		}
	}
	if w.WMCheckWin != 0 {
		xproto.DestroyWindow(w.Conn, w.WMCheckWin)
	}
	xproto.DeleteProperty(w.Conn, w.Root, w.Atoms.NetActiveWindow)
	w.Conn.Close()
}
