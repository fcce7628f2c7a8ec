package wm

import (
	"image"

	"github.com/BurntSushi/xgb/xproto"
)

// focus implements spec.md §4.4's focus contract: detach+reattach c at
// the head of its monitor's stack, select that monitor, set X input
// focus (RevertToPointerRoot) and _NET_ACTIVE_WINDOW, send WM_TAKE_FOCUS
// if advertised, recolor borders, redraw bars. A nil or invisible
// argument falls back to the first visible client in stack order, then
// to the root window — dwm.c's focus.
func (w *WM) focus(c *Client) {
	if c == nil || !c.isVisible() {
		c = nil
		for _, t := range w.SelMon.Stack {
			if t.isVisible() {
				c = t
				break
			}
		}
	}
	if w.SelMon.Sel != nil && w.SelMon.Sel != c {
		w.unfocus(w.SelMon.Sel, false)
	}
	if c != nil {
		if c.Mon != w.SelMon {
			w.SelMon = c.Mon
		}
		if c.IsUrgent {
			w.setUrgent(c, false)
		}
		c.Mon.detachStack(c)
		c.Mon.attachStack(c)
		w.grabButtons(c, true)
		xproto.ChangeWindowAttributes(w.Conn, c.Win, xproto.CwBorderPixel,
			[]uint32{colorPixel(w.Scheme[SchemeSel].Border)})
		w.setFocus(c)
	} else {
		xproto.SetInputFocus(w.Conn, xproto.InputFocusPointerRoot, w.Root, xproto.TimeCurrentTime)
		xproto.DeleteProperty(w.Conn, w.Root, w.Atoms.NetActiveWindow)
	}
	w.SelMon.Sel = c
	w.drawBars()
}

// unfocus reverts a client's border to the normal color and, if
// withSetFocus, clears X input focus back to the root window.
func (w *WM) unfocus(c *Client, withSetFocus bool) {
	if c == nil {
		return
	}
	w.grabButtons(c, false)
	xproto.ChangeWindowAttributes(w.Conn, c.Win, xproto.CwBorderPixel,
		[]uint32{colorPixel(w.Scheme[SchemeNorm].Border)})
	if withSetFocus {
		xproto.SetInputFocus(w.Conn, xproto.InputFocusPointerRoot, w.Root, xproto.TimeCurrentTime)
		xproto.DeleteProperty(w.Conn, w.Root, w.Atoms.NetActiveWindow)
	}
}

// setFocus gives c X input focus unless it has WM_HINTS.input=False
// (NeverFocus), and sends WM_TAKE_FOCUS in either case when the client
// advertises that protocol — spec.md §4.4.
func (w *WM) setFocus(c *Client) {
	if !c.NeverFocus {
		xproto.SetInputFocus(w.Conn, xproto.InputFocusPointerRoot, c.Win, xproto.TimeCurrentTime)
		w.setCardinalProp(w.Root, w.Atoms.NetActiveWindow, xproto.AtomWindow, uint32(c.Win))
	}
	if w.clientSupportsProtocol(c, w.Atoms.WMTakeFocus) {
		w.sendEvent(c.Win, w.Atoms.WMProtocols, int(w.Atoms.WMTakeFocus))
	}
}

// sendEvent delivers a WM_PROTOCOLS ClientMessage carrying proto,
// dwm.c's sendevent, used for both WM_TAKE_FOCUS and WM_DELETE_WINDOW.
func (w *WM) sendEvent(win xproto.Window, protocolsAtom xproto.Atom, proto int) bool {
	if !w.windowSupportsProtocol(win, protocolsAtom, xproto.Atom(proto)) {
		return false
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocolsAtom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(proto), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	xproto.SendEvent(w.Conn, false, win, xproto.EventMaskNoEvent, string(ev.Bytes()))
	return true
}

func (w *WM) clientSupportsProtocol(c *Client, proto xproto.Atom) bool {
	return w.windowSupportsProtocol(c.Win, w.Atoms.WMProtocols, proto)
}

func (w *WM) windowSupportsProtocol(win xproto.Window, protocolsAtom, proto xproto.Atom) bool {
	reply, err := xproto.GetProperty(w.Conn, false, win, protocolsAtom, xproto.AtomAtom, 0, 64).Reply()
	if err != nil || reply == nil {
		return false
	}
	n := int(reply.ValueLen)
	for i := 0; i < n; i++ {
		if xproto.Atom(hostOrderUint32(reply.Value[i*4:])) == proto {
			return true
		}
	}
	return false
}

// setUrgent toggles WM_HINTS's urgency bit. Per dwm.c's updatewmhints, a
// client can never be marked urgent while it is the selected client —
// see SPEC_FULL.md §4 ADDED.
func (w *WM) setUrgent(c *Client, urgent bool) {
	if c == w.SelMon.Sel && urgent {
		return
	}
	c.IsUrgent = urgent
	reply, err := xproto.GetProperty(w.Conn, false, c.Win, w.Atoms.WMHints,
		xproto.GetPropertyTypeAny, 0, 9).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return
	}
	const hintUrgency = 1 << 8
	flags := hostOrderUint32(reply.Value) &^ hintUrgency
	if urgent {
		flags |= hintUrgency
	}
	putUint32(reply.Value, flags)
	xproto.ChangeProperty(w.Conn, xproto.PropModeReplace, c.Win, w.Atoms.WMHints,
		reply.Type, 32, reply.ValueLen, reply.Value)
}

// FocusStack moves the selection by dir (+1 next, -1 prev) through the
// monitor's visible clients in Clients order — dwm.c's focusstack.
func FocusStack(w *WM, arg *Arg) {
	m := w.SelMon
	if m.Sel == nil || (m.Sel.IsFullscreen) {
		return
	}
	visible := visibleClients(m)
	if len(visible) == 0 {
		return
	}
	idx := indexOfClient(visible, m.Sel)
	if idx < 0 {
		return
	}
	var next *Client
	if arg.I > 0 {
		next = visible[(idx+1)%len(visible)]
	} else {
		next = visible[(idx-1+len(visible))%len(visible)]
	}
	w.focus(next)
	w.restack(m)
}

func visibleClients(m *Monitor) []*Client {
	var out []*Client
	for _, c := range m.Clients {
		if c.isVisible() {
			out = append(out, c)
		}
	}
	return out
}

func indexOfClient(list []*Client, c *Client) int {
	for i, t := range list {
		if t == c {
			return i
		}
	}
	return -1
}

// View implements spec.md §4.4's view(mask): a no-op if mask already
// equals the active tagset (the fixed-point Law in spec.md §8); otherwise
// flips seltags and, if mask is nonzero, assigns it to the now-active
// slot, leaving the previous tagset in the now-inactive slot for a
// one-keystroke toggle back.
func View(w *WM, arg *Arg) {
	m := w.SelMon
	mask := uint32(arg.I) & w.Cfg.TagMask()
	if mask == m.Tagset[m.SelTags] {
		return
	}
	m.SelTags ^= 1
	if mask != 0 {
		m.Tagset[m.SelTags] = mask
	}
	w.focus(nil)
	w.arrange(m)
}

// ViewTabToggle is the bare-mask View binding (mod+Tab): re-selects the
// previous tagset without specifying a new mask.
func ViewTabToggle(w *WM, arg *Arg) {
	View(w, &Arg{I: 0})
}

// ToggleView XORs mask into the active tagset; refused if the result
// would be empty (spec.md §3 invariant: at least one tag bit set).
func ToggleView(w *WM, arg *Arg) {
	m := w.SelMon
	mask := m.Tagset[m.SelTags] ^ (uint32(arg.I) & w.Cfg.TagMask())
	if mask == 0 {
		return
	}
	m.Tagset[m.SelTags] = mask
	w.focus(nil)
	w.arrange(m)
}

// Tag replaces the selected client's tags with mask; refused if zero.
func Tag(w *WM, arg *Arg) {
	c := w.SelMon.Sel
	mask := uint32(arg.I) & w.Cfg.TagMask()
	if c == nil || mask == 0 {
		return
	}
	c.Tags = mask
	w.focus(nil)
	w.arrange(w.SelMon)
}

// ToggleTag XORs mask into the selected client's tags; refused if the
// result would be empty.
func ToggleTag(w *WM, arg *Arg) {
	c := w.SelMon.Sel
	if c == nil {
		return
	}
	mask := c.Tags ^ (uint32(arg.I) & w.Cfg.TagMask())
	if mask == 0 {
		return
	}
	c.Tags = mask
	w.focus(nil)
	w.arrange(w.SelMon)
}

// Zoom swaps the selected client to the head of the clients list so it
// becomes master; if it is already master, the next tiled client is
// promoted instead — spec.md §4.4.
func Zoom(w *WM, arg *Arg) {
	m := w.SelMon
	c := m.Sel
	if c == nil || c.IsFloating || m.layout().Arrange == nil {
		return
	}
	if c == nextTiled(m.Clients, nil) {
		c = nextTiled(m.Clients, c)
		if c == nil {
			return
		}
	}
	m.detach(c)
	m.attach(c)
	w.focus(c)
	w.arrange(m)
}

// FocusMon selects the monitor one step before/after the current one.
func FocusMon(w *WM, arg *Arg) {
	if w.monitorCount() <= 1 {
		return
	}
	m := w.dirToMon(arg.I)
	if m == w.SelMon {
		return
	}
	w.unfocus(w.SelMon.Sel, true)
	w.SelMon = m
	w.focus(nil)
}

// TagMon migrates the selected client to the monitor one step before/
// after the current one.
func TagMon(w *WM, arg *Arg) {
	c := w.SelMon.Sel
	if c == nil || w.monitorCount() <= 1 {
		return
	}
	w.sendToMonitor(c, w.dirToMon(arg.I))
}

// sendToMonitor migrates c to a different monitor, detaching it from its
// old monitor's lists, replacing its tags with the target monitor's
// active tagset and attaching it to the new one's lists — dwm.c's
// sendmon.
func (w *WM) sendToMonitor(c *Client, m *Monitor) {
	if c.Mon == m {
		return
	}
	w.unfocus(c, true)
	c.Mon.detach(c)
	c.Mon.detachStack(c)
	c.Mon = m
	c.Tags = m.Tagset[m.SelTags]
	m.attach(c)
	m.attachStack(c)
	w.focus(nil)
	w.arrange(nil)
}

// colorPixel extracts a 24-bit RGB pixel value from a parsed scheme
// color, for the rare ChangeWindowAttributes calls (border color) that
// need a raw pixel rather than an image.Image to draw with.
func colorPixel(img image.Image) uint32 {
	r, g, b, _ := img.At(0, 0).RGBA()
	return uint32(r>>8)<<16 | uint32(g>>8)<<8 | uint32(b>>8)
}
