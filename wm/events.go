package wm

import (
	"github.com/BurntSushi/xgb/xproto"
)

// handleEvent dispatches on X event type with O(1) lookup as spec.md §4.1
// requires (no linear scan by kind, per SPEC_FULL.md §9's "Event table"
// note). BurntSushi/xgb decodes
// each wire event into a distinct concrete Go type rather than a tagged
// union carrying a numeric code the way Xlib's XEvent does, so the table
// is keyed by a type switch in handleEvent instead of an array indexed by
// event number — functionally the same O(1) property, expressed the way
// Go's type system wants it.
func (w *WM) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		w.onButtonPress(e)
	case xproto.ClientMessageEvent:
		w.onClientMessage(e)
	case xproto.ConfigureRequestEvent:
		w.onConfigureRequest(e)
	case xproto.ConfigureNotifyEvent:
		w.onConfigureNotify(e)
	case xproto.DestroyNotifyEvent:
		w.onDestroyNotify(e)
	case xproto.EnterNotifyEvent:
		w.onEnterNotify(e)
	case xproto.ExposeEvent:
		w.onExpose(e)
	case xproto.FocusInEvent:
		w.onFocusIn(e)
	case xproto.KeyPressEvent:
		w.onKeyPress(e)
	case xproto.MappingNotifyEvent:
		w.onMappingNotify(e)
	case xproto.MapRequestEvent:
		w.onMapRequest(e)
	case xproto.MotionNotifyEvent:
		w.onMotionNotify(e)
	case xproto.PropertyNotifyEvent:
		w.onPropertyNotify(e)
	case xproto.UnmapNotifyEvent:
		w.onUnmapNotify(e)
	}
}

func (w *WM) onMapRequest(e xproto.MapRequestEvent) {
	attr, err := xproto.GetWindowAttributes(w.Conn, e.Window).Reply()
	if err != nil || attr.OverrideRedirect {
		return
	}
	if w.wintoclient(e.Window) == nil {
		w.manage(e.Window)
	}
}

// manage creates a Client for a newly mapped window: read geometry and
// hints, assign monitor/tags (transient windows inherit their owner's
// monitor and tags; otherwise applyRules runs), clamp inside the target
// monitor, set the border, select input events, grab buttons, attach to
// both lists at head, update _NET_CLIENT_LIST, map, refocus — spec.md
// §4.1's manage contract, dwm.c's manage.
func (w *WM) manage(win xproto.Window) {
	geom, err := xproto.GetGeometry(w.Conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return
	}
	c := &Client{
		Win: win,
		X:   int(geom.X), Y: int(geom.Y), W: int(geom.Width), H: int(geom.Height),
		OldX: int(geom.X), OldY: int(geom.Y), OldW: int(geom.Width), OldH: int(geom.Height),
		BW: w.Cfg.BorderPx, OldBW: int(geom.BorderWidth),
	}
	w.updateTitle(c)

	transFor := w.getWindowProp(win, w.Atoms.WMTransientFor)
	if transFor != 0 {
		if owner := w.wintoclient(transFor); owner != nil {
			c.Mon = owner.Mon
			c.Tags = owner.Tags
		}
	}
	if c.Mon == nil {
		c.Mon = w.SelMon
		w.applyRules(c)
	}

	if c.X+c.width() > c.Mon.MX+c.Mon.MW {
		c.X = c.Mon.MX + c.Mon.MW - c.width()
	}
	if c.Y+c.height() > c.Mon.MY+c.Mon.MH {
		c.Y = c.Mon.MY + c.Mon.MH - c.height()
	}
	c.X = max(c.X, c.Mon.MX)
	c.Y = max(c.Y, c.Mon.MY)

	xproto.ConfigureWindow(w.Conn, win, xproto.ConfigWindowBorderWidth, []uint32{uint32(c.BW)})
	xproto.ChangeWindowAttributes(w.Conn, win, xproto.CwBorderPixel,
		[]uint32{colorPixel(w.Scheme[SchemeNorm].Border)})
	w.updateSizeHints(c)
	w.updateWMHints(c)
	xproto.ChangeWindowAttributes(w.Conn, win,
		xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange |
			xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify)})
	w.grabButtons(c, false)
	if !c.IsFloating {
		c.IsFloating = transFor != 0
	}
	if c.IsFloating {
		xproto.ConfigureWindow(w.Conn, win,
			xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	}

	c.Mon.attach(c)
	c.Mon.attachStack(c)
	w.updateClientList()
	xproto.MapWindow(w.Conn, win)
	w.setClientState(c, icccmNormalState)
	w.arrange(c.Mon)
	w.focus(c)
}

// updateWMHints refreshes urgency and input-model (NeverFocus) from
// WM_HINTS, redrawing bars when the client ends up urgent — dwm.c's
// updatewmhints. A client can never be made urgent
// while it is the selected client (see SPEC_FULL.md §4 ADDED).
func (w *WM) updateWMHints(c *Client) {
	reply, err := xproto.GetProperty(w.Conn, false, c.Win, w.Atoms.WMHints,
		xproto.GetPropertyTypeAny, 0, 9).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return
	}
	flags := hostOrderUint32(reply.Value)
	const hintInputHint = 1 << 0
	const hintUrgency = 1 << 8
	if c == w.SelMon.Sel && flags&hintUrgency != 0 {
		flags &^= hintUrgency
		putUint32(reply.Value, flags)
		xproto.ChangeProperty(w.Conn, xproto.PropModeReplace, c.Win, w.Atoms.WMHints,
			reply.Type, 32, reply.ValueLen, reply.Value)
	} else {
		c.IsUrgent = flags&hintUrgency != 0
	}
	if flags&hintInputHint != 0 && reply.ValueLen > 1 {
		c.NeverFocus = hostOrderUint32(reply.Value[4:]) == 0
	} else {
		c.NeverFocus = false
	}
	if c.IsUrgent {
		w.drawBars()
	}
}

// ICCCM WM_STATE values.
const (
	icccmWithdrawnState = 0
	icccmNormalState    = 1
	icccmIconicState    = 3
)

func (w *WM) setClientState(c *Client, state uint32) {
	w.setCardinalProp(c.Win, w.Atoms.WMState, w.Atoms.WMState, state)
}

func (w *WM) getWindowProp(win xproto.Window, prop xproto.Atom) xproto.Window {
	reply, err := xproto.GetProperty(w.Conn, false, win, prop, xproto.AtomWindow, 0, 1).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return 0
	}
	return xproto.Window(hostOrderUint32(reply.Value))
}

func (w *WM) onUnmapNotify(e xproto.UnmapNotifyEvent) {
	c := w.wintoclient(e.Window)
	if c == nil {
		return
	}
	if e.Event == w.Root {
		// an UnmapNotify reported on the root window is taken as the
		// client's synthetic (send_event) withdrawal request: it gets
		// Withdrawn state, not destruction — spec.md §4.1. A real unmap
		// also arrives on the client's own StructureNotify selection,
		// which unmanages it below.
		w.setClientState(c, icccmWithdrawnState)
		return
	}
	w.unmanage(c, false)
}

func (w *WM) onDestroyNotify(e xproto.DestroyNotifyEvent) {
	if c := w.wintoclient(e.Window); c != nil {
		w.unmanage(c, true)
	}
}

// unmanage detaches c from both lists, restores its original border
// width if it wasn't destroyed, refocuses, rewrites _NET_CLIENT_LIST and
// rearranges — spec.md §4.1.
func (w *WM) unmanage(c *Client, destroyed bool) {
	m := c.Mon
	m.detach(c)
	m.detachStack(c)
	if !destroyed {
		w.withServerGrab(func() {
			xproto.ConfigureWindow(w.Conn, c.Win, xproto.ConfigWindowBorderWidth,
				[]uint32{uint32(c.OldBW)})
			xproto.UngrabButton(w.Conn, xproto.ButtonIndexAny, c.Win, xproto.ModMaskAny)
			w.setClientState(c, icccmWithdrawnState)
		})
	}
	w.focus(nil)
	w.updateClientList()
	w.arrange(m)
}

func (w *WM) onConfigureRequest(e xproto.ConfigureRequestEvent) {
	c := w.wintoclient(e.Window)
	if c == nil {
		values := configureRequestValues(e)
		xproto.ConfigureWindow(w.Conn, e.Window, e.ValueMask, values)
		return
	}
	if c.IsFloating || c.Mon.layout().Arrange == nil {
		m := c.Mon
		x, y, width, height, bw := c.X, c.Y, c.W, c.H, c.BW
		if e.ValueMask&xproto.ConfigWindowX != 0 {
			x = int(e.X)
		}
		if e.ValueMask&xproto.ConfigWindowY != 0 {
			y = int(e.Y)
		}
		if e.ValueMask&xproto.ConfigWindowWidth != 0 {
			width = int(e.Width)
		}
		if e.ValueMask&xproto.ConfigWindowHeight != 0 {
			height = int(e.Height)
		}
		if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
			bw = int(e.BorderWidth)
		}
		if x+width > m.MX+m.MW && c.IsFloating {
			x = m.MX + (m.MW-width)/2
		}
		if y+height > m.MY+m.MH && c.IsFloating {
			y = m.MY + (m.MH-height)/2
		}
		posChangedOnly := (x != c.X || y != c.Y) && width == c.W && height == c.H
		c.BW = bw
		c.X, c.Y, c.W, c.H = x, y, width, height
		if posChangedOnly {
			w.sendConfigureNotify(c)
		}
		if c.isVisible() {
			xproto.ConfigureWindow(w.Conn, c.Win,
				xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|
					xproto.ConfigWindowHeight|xproto.ConfigWindowBorderWidth,
				[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height), uint32(bw)})
		}
	} else {
		c.BW = configureRequestBorderWidth(c.BW, e.ValueMask, e.BorderWidth)
		w.sendConfigureNotify(c)
	}
}

// configureRequestBorderWidth applies a ConfigureRequest's border-width
// change, if any — the one field a tiled client honors unconditionally,
// spec.md §4.1, dwm.c's configurerequest unconditional "c->bw =
// ev->border_width".
func configureRequestBorderWidth(current int, mask uint16, requested uint16) int {
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		return int(requested)
	}
	return current
}

func configureRequestValues(e xproto.ConfigureRequestEvent) []uint32 {
	var values []uint32
	if e.ValueMask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(e.X))
	}
	if e.ValueMask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(e.Y))
	}
	if e.ValueMask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(e.Width))
	}
	if e.ValueMask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(e.Height))
	}
	if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(e.BorderWidth))
	}
	if e.ValueMask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(e.Sibling))
	}
	if e.ValueMask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(e.StackMode))
	}
	return values
}

func (w *WM) onConfigureNotify(e xproto.ConfigureNotifyEvent) {
	if e.Window != w.Root {
		return
	}
	sw, sh := int(w.Screen.WidthInPixels), int(w.Screen.HeightInPixels)
	changed := int(e.Width) != sw || int(e.Height) != sh
	w.Screen.WidthInPixels, w.Screen.HeightInPixels = e.Width, e.Height
	if !changed {
		return
	}
	if w.updateGeom() {
		for m := w.Mons; m != nil; m = m.Next {
			for _, c := range m.Clients {
				if c.IsFullscreen {
					ox, oy, ow, oh := c.OldX, c.OldY, c.OldW, c.OldH
					c.resizeClient(m.MX, m.MY, m.MW, m.MH)
					c.OldX, c.OldY, c.OldW, c.OldH = ox, oy, ow, oh
				}
			}
			if bar := w.Bars[m]; bar != nil {
				bar.Resize(m.MW, w.barHeight())
				xproto.ConfigureWindow(w.Conn, m.BarWin,
					xproto.ConfigWindowWidth|xproto.ConfigWindowY,
					[]uint32{uint32(m.MW), uint32(int32(m.BY))})
			}
		}
		w.arrange(nil)
	}
}

func (w *WM) onClientMessage(e xproto.ClientMessageEvent) {
	c := w.wintoclient(e.Window)
	if c == nil {
		return
	}
	data := e.Data.Data32
	if e.Type == w.Atoms.NetWMState {
		if len(data) >= 2 && (xproto.Atom(data[1]) == w.Atoms.NetWMStateFullscreen ||
			(len(data) >= 3 && xproto.Atom(data[2]) == w.Atoms.NetWMStateFullscreen)) {
			switch data[0] {
			case 0:
				w.setFullscreen(c, false)
			case 1:
				w.setFullscreen(c, true)
			case 2:
				w.setFullscreen(c, !c.IsFullscreen)
			}
		}
	} else if e.Type == w.Atoms.NetActiveWindow {
		if c != w.SelMon.Sel && !c.IsUrgent {
			w.setUrgent(c, true)
		}
	}
}

// setFullscreen sets or clears fullscreen state, saving/restoring the
// pre-fullscreen geometry and border in c's old* shadow fields — spec.md
// §3 and §8's "fixed point" law for setfullscreen(true) then (false).
func (w *WM) setFullscreen(c *Client, fullscreen bool) {
	if fullscreen && !c.IsFullscreen {
		w.setCardinalProp(c.Win, w.Atoms.NetWMState, xproto.AtomAtom, uint32(w.Atoms.NetWMStateFullscreen))
		c.IsFullscreen = true
		c.OldState = c.IsFloating
		c.OldBW = c.BW
		c.BW = 0
		c.IsFloating = true
		c.OldX, c.OldY, c.OldW, c.OldH = c.X, c.Y, c.W, c.H
		c.resizeClient(c.Mon.MX, c.Mon.MY, c.Mon.MW, c.Mon.MH)
		xproto.ConfigureWindow(w.Conn, c.Win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	} else if !fullscreen && c.IsFullscreen {
		xproto.DeleteProperty(w.Conn, c.Win, w.Atoms.NetWMState)
		c.IsFullscreen = false
		c.IsFloating = c.OldState
		c.BW = c.OldBW
		c.X, c.Y, c.W, c.H = c.OldX, c.OldY, c.OldW, c.OldH
		c.resizeClient(c.X, c.Y, c.W, c.H)
		w.arrange(c.Mon)
	}
}

func (w *WM) onPropertyNotify(e xproto.PropertyNotifyEvent) {
	if e.Window == w.Root && e.Atom == xproto.AtomWmName {
		w.updateStatus()
		return
	}
	if e.State == xproto.PropertyDelete {
		return
	}
	c := w.wintoclient(e.Window)
	if c == nil {
		return
	}
	switch e.Atom {
	case w.Atoms.WMTransientFor:
		if !c.IsFloating {
			if target := w.getWindowProp(c.Win, w.Atoms.WMTransientFor); target != 0 {
				if owner := w.wintoclient(target); owner != nil {
					c.IsFloating = true
					w.arrange(c.Mon)
				}
			}
		}
	case w.Atoms.WMNormalHints:
		w.updateSizeHints(c)
	case w.Atoms.WMHints:
		w.updateWMHints(c)
		w.drawBars()
	case xproto.AtomWmName:
		w.updateTitle(c)
		if c == c.Mon.Sel {
			w.drawBar(c.Mon)
		}
	default:
		if e.Atom == w.Atoms.NetWMName {
			w.updateTitle(c)
			if c == c.Mon.Sel {
				w.drawBar(c.Mon)
			}
		} else if e.Atom == w.Atoms.NetWMWindowType {
			w.updateWindowType(c)
		}
	}
}

// updateWindowType forces fullscreen for clients whose _NET_WM_STATE is
// _NET_WM_STATE_FULLSCREEN and floating for clients whose
// _NET_WM_WINDOW_TYPE is _NET_WM_WINDOW_TYPE_DIALOG — dwm.c's
// updatewindowtype.
func (w *WM) updateWindowType(c *Client) {
	state := w.getAtomProp(c.Win, w.Atoms.NetWMState)
	wtype := w.getAtomProp(c.Win, w.Atoms.NetWMWindowType)
	if state == w.Atoms.NetWMStateFullscreen {
		w.setFullscreen(c, true)
	}
	if wtype == w.Atoms.NetWMWindowTypeDialog {
		c.IsFloating = true
	}
}

func (w *WM) onKeyPress(e xproto.KeyPressEvent) {
	sym := w.keycodeToKeysym(e.Detail, e.State)
	clean := w.cleanMask(e.State)
	for _, k := range w.Cfg.Keys {
		if k.Keysym == sym && w.cleanMask(k.Mod) == clean && k.Func != nil {
			k.Func(w, &k.Arg)
			return
		}
	}
}

func (w *WM) keycodeToKeysym(kc xproto.Keycode, state uint16) xproto.Keysym {
	reply, err := xproto.GetKeyboardMapping(w.Conn, kc, 1).Reply()
	if err != nil || len(reply.Keysyms) == 0 {
		return 0
	}
	// Group 0, index 0 (the unshifted keysym) regardless of state, so
	// Shift bindings match on their base keysym — the deliberate
	// simplification spec.md §9 Open Questions item 2 sanctions in
	// place of XkbKeycodeToKeysym.
	return reply.Keysyms[0]
}

func (w *WM) onButtonPress(e xproto.ButtonPressEvent) {
	click := ClkRootWin
	var arg Arg
	var c *Client

	if m := w.wintomon(e.Event); m != w.SelMon {
		w.unfocus(w.SelMon.Sel, true)
		w.SelMon = m
		w.focus(nil)
	}

	if c = w.wintoclient(e.Event); c != nil {
		w.focus(c)
		w.restack(w.SelMon)
		xproto.AllowEvents(w.Conn, xproto.AllowReplayPointer, e.Time)
		click = ClkClientWin
	} else if e.Event == w.SelMon.BarWin {
		click, arg = w.classifyBarClick(e)
	}

	clean := w.cleanMask(e.State)
	for _, b := range w.Cfg.Buttons {
		if b.Click == click && b.Button == e.Detail && w.cleanMask(b.Mod) == clean && b.Func != nil {
			useArg := b.Arg
			if click == ClkTagBar && useArg.I == 0 && arg.I != 0 {
				useArg = arg
			}
			b.Func(w, &useArg)
			return
		}
	}
}

// classifyBarClick maps a bar-window click's x-coordinate to a tag index
// (ClkTagBar), the layout symbol cell (ClkLtSymbol), the status text
// (ClkStatusText) or the title (ClkWinTitle) — spec.md §4.1's
// ButtonPress region classification, dwm.c's buttonpress.
func (w *WM) classifyBarClick(e xproto.ButtonPressEvent) (int, Arg) {
	m := w.SelMon
	x := 0
	for i, tag := range w.Cfg.Tags {
		x += w.Fonts.TextWidth(tag) + w.barHeight()
		if int(e.EventX) < x {
			return ClkTagBar, Arg{I: int(uint32(1) << uint(i))}
		}
	}
	x += w.Fonts.TextWidth(m.LtSymbol) + w.barHeight()
	if int(e.EventX) < x {
		return ClkLtSymbol, Arg{}
	}
	statusW := w.Fonts.TextWidth(w.StatusText) + w.barHeight()
	if int(e.EventX) > m.MW-statusW {
		return ClkStatusText, Arg{}
	}
	return ClkWinTitle, Arg{}
}

// shouldIgnoreEnterNotify reports whether an EnterNotify is a spurious
// transition this WM must not act on — anything but a normal-mode entry,
// or a normal-mode entry into an inferior (child) window — dwm.c's
// enternotify: "if ((ev->mode != NotifyNormal || ev->detail ==
// NotifyInferior) && ev->window != root) return;" (the "!= root" half is
// handled by wintoclient already returning nil for the root window).
func shouldIgnoreEnterNotify(e xproto.EnterNotifyEvent) bool {
	return e.Mode != xproto.NotifyModeNormal || e.Detail == xproto.NotifyDetailInferior
}

func (w *WM) onEnterNotify(e xproto.EnterNotifyEvent) {
	if shouldIgnoreEnterNotify(e) {
		return
	}
	c := w.wintoclient(e.Event)
	if c == nil {
		return
	}
	if m := c.Mon; m != w.SelMon {
		w.unfocus(w.SelMon.Sel, true)
		w.SelMon = m
	}
	if c != w.SelMon.Sel {
		w.focus(c)
	}
}

func (w *WM) onMotionNotify(e xproto.MotionNotifyEvent) {
	if e.Event != w.Root {
		return
	}
	if m := w.recttomon(int(e.RootX), int(e.RootY), 1, 1); m != w.SelMon {
		w.unfocus(w.SelMon.Sel, true)
		w.SelMon = m
		w.focus(nil)
	}
}

func (w *WM) onFocusIn(e xproto.FocusInEvent) {
	if w.SelMon.Sel != nil && e.Event != w.SelMon.Sel.Win {
		w.setFocus(w.SelMon.Sel)
	}
}

func (w *WM) onExpose(e xproto.ExposeEvent) {
	if e.Count == 0 {
		if m := w.wintomon(e.Window); m != nil {
			w.drawBar(m)
		}
	}
}

func (w *WM) onMappingNotify(e xproto.MappingNotifyEvent) {
	if e.Request == xproto.MappingKeyboard || e.Request == xproto.MappingModifier {
		w.updateNumlockMask()
		w.grabKeys()
	}
}

// drainEnterNotify discards queued EnterNotify events, called after
// restack so the stacking-order change itself doesn't generate a
// spurious focus-follows-pointer transition — spec.md §4.3.
func (w *WM) drainEnterNotify() {
	for {
		ev, err := w.Conn.PollForEvent()
		if ev == nil || err != nil {
			return
		}
		if _, ok := ev.(xproto.EnterNotifyEvent); !ok {
			w.handleEvent(ev)
		}
	}
}
