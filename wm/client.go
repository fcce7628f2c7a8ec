package wm

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
)

// attach inserts c at the head of its monitor's clients list (insertion
// order), per spec.md §3's client lifecycle.
func (m *Monitor) attach(c *Client) {
	m.Clients = append([]*Client{c}, m.Clients...)
}

// detach removes c from its monitor's clients list.
func (m *Monitor) detach(c *Client) {
	m.Clients = removeClient(m.Clients, c)
}

// attachStack inserts c at the head of its monitor's focus stack.
func (m *Monitor) attachStack(c *Client) {
	m.Stack = append([]*Client{c}, m.Stack...)
}

// detachStack removes c from its monitor's focus stack. If c was the
// selected client, the new selection is the first visible client
// remaining in the stack, mirroring dwm.c's detachstack.
func (m *Monitor) detachStack(c *Client) {
	m.Stack = removeClient(m.Stack, c)
	if m.Sel != c {
		return
	}
	for _, t := range m.Stack {
		if t.isVisible() {
			m.Sel = t
			return
		}
	}
	m.Sel = nil
}

func removeClient(list []*Client, c *Client) []*Client {
	out := list[:0:0]
	for _, t := range list {
		if t != c {
			out = append(out, t)
		}
	}
	return out
}

// nextTiled returns the first tiled (visible, non-floating) client
// strictly after from in the monitor's clients list, or the first tiled
// client of the list when from is nil — dwm.c's nexttiled, used by zoom
// to find the master and "the next tiled client after the selected one".
func nextTiled(clients []*Client, from *Client) *Client {
	started := from == nil
	for _, c := range clients {
		if !started {
			if c == from {
				started = true
			}
			continue
		}
		if !c.IsFloating && c.isVisible() {
			return c
		}
	}
	return nil
}

// updateTitle refreshes c.Name from _NET_WM_NAME, falling back to
// WM_NAME, then to the literal "broken" if neither is readable — spec.md
// §3's title field, dwm.c's updatetitle.
func (w *WM) updateTitle(c *Client) {
	name := w.getTextProp(c.Win, w.Atoms.NetWMName)
	if name == "" {
		name = w.getTextProp(c.Win, xproto.AtomWmName)
	}
	if name == "" {
		name = "broken"
	}
	if len(name) > 255 {
		name = name[:255]
	}
	c.Name = name
}

func (w *WM) getTextProp(win xproto.Window, prop xproto.Atom) string {
	reply, err := xproto.GetProperty(w.Conn, false, win, prop, xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}

// updateSizeHints refreshes c's size-hint fields from WM_NORMAL_HINTS.
//
// Per spec.md §9 Open Questions item 1, this preserves dwm.c's
// documented-as-suspicious behavior on read failure: when the property
// can't be read, base/min/max/increment/aspect are all left zeroed
// (equivalent to the C code's "flags = PSize" branch, which effectively
// disables every other hint) rather than being treated as "no hints
// configured, keep prior values."
func (w *WM) updateSizeHints(c *Client) {
	hints, ok := w.getNormalHints(c.Win)
	if !ok {
		c.BaseW, c.BaseH = 0, 0
		c.MinW, c.MinH = 0, 0
		c.MaxW, c.MaxH = 0, 0
		c.IncW, c.IncH = 0, 0
		c.MinA, c.MaxA = 0, 0
		c.IsFixed = false
		return
	}

	c.BaseW, c.BaseH = hints.baseW, hints.baseH
	c.MinW, c.MinH = hints.minW, hints.minH
	c.MaxW, c.MaxH = hints.maxW, hints.maxH
	c.IncW, c.IncH = hints.incW, hints.incH
	c.MinA, c.MaxA = hints.minAspect, hints.maxAspect

	c.IsFixed = c.MaxW > 0 && c.MaxW == c.MinW && c.MaxH > 0 && c.MaxH == c.MinH
	if c.IsFixed {
		c.IsFloating = true
	}
}

// normalHints is the subset of ICCCM's XSizeHints this module reads.
type normalHints struct {
	baseW, baseH         int
	minW, minH           int
	maxW, maxH           int
	incW, incH           int
	minAspect, maxAspect float64
}

// WM_NORMAL_HINTS flag bits, per ICCCM.
const (
	hintUSPosition = 1 << iota
	hintUSSize
	hintPPosition
	hintPSize
	hintPMinSize
	hintPMaxSize
	hintPResizeInc
	hintPAspect
	hintPBaseSize
	hintPWinGravity
)

// getNormalHints reads and decodes WM_NORMAL_HINTS. The property is 18
// CARD32s per ICCCM; ok is false when the property itself can't be read
// (ICCCM's XGetWMNormalHints failure path, see updateSizeHints above).
func (w *WM) getNormalHints(win xproto.Window) (normalHints, bool) {
	reply, err := xproto.GetProperty(w.Conn, false, win, w.Atoms.WMNormalHints,
		xproto.AtomWmSizeHints, 0, 18).Reply()
	if err != nil || reply == nil || reply.ValueLen < 18 {
		return normalHints{}, false
	}
	words := make([]uint32, 18)
	for i := range words {
		words[i] = hostOrderUint32(reply.Value[i*4:])
	}
	flags := words[0]
	var h normalHints
	if flags&hintPBaseSize != 0 {
		h.baseW, h.baseH = int(int32(words[15])), int(int32(words[16]))
	} else if flags&hintPMinSize != 0 {
		h.baseW, h.baseH = int(int32(words[5])), int(int32(words[6]))
	}
	if flags&hintPMinSize != 0 {
		h.minW, h.minH = int(int32(words[5])), int(int32(words[6]))
	} else if flags&hintPBaseSize != 0 {
		h.minW, h.minH = int(int32(words[15])), int(int32(words[16]))
	}
	if flags&hintPMaxSize != 0 {
		h.maxW, h.maxH = int(int32(words[7])), int(int32(words[8]))
	}
	if flags&hintPResizeInc != 0 {
		h.incW, h.incH = int(int32(words[9])), int(int32(words[10]))
	}
	if flags&hintPAspect != 0 {
		minAX, minAY := int32(words[11]), int32(words[12])
		maxAX, maxAY := int32(words[13]), int32(words[14])
		if minAX != 0 {
			h.minAspect = float64(minAY) / float64(minAX)
		}
		if maxAY != 0 {
			h.maxAspect = float64(maxAX) / float64(maxAY)
		}
	}
	return h, true
}

// applyRules assigns tags, floating state and a monitor to a newly
// managed client by matching the rule table against WM_CLASS
// class/instance and the window title, then falls back to the current
// monitor and active tagset for an unmatched window — spec.md §4.1's
// manage contract, dwm.c's applyrules.
func (w *WM) applyRules(c *Client) {
	class, instance := w.getClassHint(c.Win)
	c.Tags = 0
	for _, r := range w.Cfg.Rules {
		if (r.Title == "" || strings.Contains(c.Name, r.Title)) &&
			(r.Class == "" || strings.Contains(class, r.Class)) &&
			(r.Instance == "" || strings.Contains(instance, r.Instance)) {
			c.IsFloating = r.IsFloating
			c.Tags |= r.Tags
			for m := w.Mons; m != nil; m = m.Next {
				if m.Num == r.Monitor {
					c.Mon = m
				}
			}
		}
	}
	if c.Mon == nil {
		c.Mon = w.SelMon
	}
	if c.Tags&w.Cfg.TagMask() != 0 {
		c.Tags &= w.Cfg.TagMask()
	} else {
		c.Tags = c.Mon.Tagset[c.Mon.SelTags]
	}
}

func (w *WM) getClassHint(win xproto.Window) (class, instance string) {
	reply, err := xproto.GetProperty(w.Conn, false, win, xproto.AtomWmClass,
		xproto.AtomString, 0, 1<<16).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return "", ""
	}
	parts := strings.SplitN(strings.TrimRight(string(reply.Value), "\x00"), "\x00", 2)
	if len(parts) == 2 {
		return parts[1], parts[0]
	}
	if len(parts) == 1 {
		return parts[0], parts[0]
	}
	return "", ""
}
