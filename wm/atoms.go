package wm

import (
	"github.com/BurntSushi/xgb/xproto"
)

// Atoms is the interned EWMH/ICCCM atom table. dwm.c keeps these as a
// global array indexed by an enum; this module keeps the teacher's
// initAtoms/internAtom pattern (xinit.go) of interning each atom once at
// startup into named fields instead, which reads better than an
// index-by-enum array in Go.
type Atoms struct {
	WMProtocols    xproto.Atom
	WMDelete       xproto.Atom
	WMState        xproto.Atom
	WMTakeFocus    xproto.Atom
	WMTransientFor xproto.Atom
	WMHints        xproto.Atom
	WMNormalHints  xproto.Atom
	WMName         xproto.Atom

	NetActiveWindow      xproto.Atom
	NetSupported         xproto.Atom
	NetWMName            xproto.Atom
	NetWMState           xproto.Atom
	NetSupportingWMCheck xproto.Atom
	NetWMStateFullscreen xproto.Atom
	NetWMWindowType      xproto.Atom
	NetWMWindowTypeDialog xproto.Atom
	NetClientList        xproto.Atom

	UTF8String xproto.Atom
}

// initAtoms interns every atom this module reads or writes, mirroring
// dwm.c's setup()'s atom-interning block and the supported-atom list
// advertised via _NET_SUPPORTED (dwm.c's netatom[] array, spec.md §6).
func (w *WM) initAtoms() error {
	names := map[string]*xproto.Atom{
		"WM_PROTOCOLS":             &w.Atoms.WMProtocols,
		"WM_DELETE_WINDOW":         &w.Atoms.WMDelete,
		"WM_STATE":                 &w.Atoms.WMState,
		"WM_TAKE_FOCUS":            &w.Atoms.WMTakeFocus,
		"WM_TRANSIENT_FOR":         &w.Atoms.WMTransientFor,
		"WM_HINTS":                 &w.Atoms.WMHints,
		"WM_NORMAL_HINTS":          &w.Atoms.WMNormalHints,
		"WM_NAME":                  &w.Atoms.WMName,
		"_NET_ACTIVE_WINDOW":       &w.Atoms.NetActiveWindow,
		"_NET_SUPPORTED":           &w.Atoms.NetSupported,
		"_NET_WM_NAME":             &w.Atoms.NetWMName,
		"_NET_WM_STATE":            &w.Atoms.NetWMState,
		"_NET_SUPPORTING_WM_CHECK": &w.Atoms.NetSupportingWMCheck,
		"_NET_WM_STATE_FULLSCREEN": &w.Atoms.NetWMStateFullscreen,
		"_NET_WM_WINDOW_TYPE":      &w.Atoms.NetWMWindowType,
		"_NET_WM_WINDOW_TYPE_DIALOG": &w.Atoms.NetWMWindowTypeDialog,
		"_NET_CLIENT_LIST":         &w.Atoms.NetClientList,
		"UTF8_STRING":              &w.Atoms.UTF8String,
	}
	for name, slot := range names {
		reply, err := xproto.InternAtom(w.Conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return err
		}
		*slot = reply.Atom
	}
	return nil
}

// netSupported lists the atoms advertised in _NET_SUPPORTED, matching
// spec.md §6's EWMH/ICCCM atom list exactly.
func (w *WM) netSupported() []xproto.Atom {
	return []xproto.Atom{
		w.Atoms.NetActiveWindow,
		w.Atoms.NetSupported,
		w.Atoms.NetWMName,
		w.Atoms.NetWMState,
		w.Atoms.NetSupportingWMCheck,
		w.Atoms.NetWMStateFullscreen,
		w.Atoms.NetWMWindowType,
		w.Atoms.NetWMWindowTypeDialog,
		w.Atoms.NetClientList,
	}
}

// getAtomProp reads a single-atom window property, mirroring dwm.c's
// getatomprop. A missing property is not an error (spec.md §7 kind 5):
// the zero Atom is returned.
func (w *WM) getAtomProp(win xproto.Window, prop xproto.Atom) xproto.Atom {
	reply, err := xproto.GetProperty(w.Conn, false, win, prop, xproto.AtomAtom, 0, 1).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return 0
	}
	return xproto.Atom(hostOrderUint32(reply.Value))
}

func hostOrderUint32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// updateClientList rewrites _NET_CLIENT_LIST as the concatenation of
// every monitor's Clients list in monitor order (spec.md §3 invariant,
// dwm.c's updateclientlist, reusing dwm.c's delete-then-rebuild strategy
// rather than trying to patch the property incrementally).
func (w *WM) updateClientList() {
	xproto.DeleteProperty(w.Conn, w.Root, w.Atoms.NetClientList)
	var wins []xproto.Window
	for m := w.Mons; m != nil; m = m.Next {
		for _, c := range m.Clients {
			wins = append(wins, c.Win)
		}
	}
	if len(wins) == 0 {
		return
	}
	data := make([]byte, 4*len(wins))
	for i, win := range wins {
		putUint32(data[i*4:], uint32(win))
	}
	xproto.ChangeProperty(w.Conn, xproto.PropModeAppend, w.Root, w.Atoms.NetClientList,
		xproto.AtomWindow, 32, uint32(len(wins)), data)
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// setCardinalProp writes a single-atom (e.g. WM_STATE) or single-window
// (e.g. _NET_ACTIVE_WINDOW) property, the common case for the EWMH state
// dwm.c writes with XChangeProperty.
func (w *WM) setCardinalProp(win xproto.Window, prop xproto.Atom, typ xproto.Atom, value uint32) {
	data := make([]byte, 4)
	putUint32(data, value)
	xproto.ChangeProperty(w.Conn, xproto.PropModeReplace, win, prop, typ, 32, 1, data)
}
