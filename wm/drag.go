package wm

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// motionThrottle caps how often a motion sample is applied during an
// interactive drag — dwm.c's "(ev.xmotion.time - lasttime) <= (1000 /
// 60)" 60Hz throttle inside movemouse/resizemouse.
const motionThrottle = time.Second / 60

// MoveMouse runs dwm.c's interactive move loop: grab the pointer, track
// motion until ButtonRelease, snapping each edge to the nearest monitor
// boundary within w.Cfg.Snap pixels, promoting a tiled client to floating
// once it's dragged past the snap distance, and migrating to whichever
// monitor the client mostly ends up on — spec.md §4.1's "Interactive
// move/resize inner loop".
func MoveMouse(w *WM, arg *Arg) {
	c := w.SelMon.Sel
	if c == nil || c.IsFullscreen {
		return
	}
	w.restack(w.SelMon)
	ox, oy := c.X, c.Y

	ptr, err := xproto.QueryPointer(w.Conn, w.Root).Reply()
	if err != nil {
		return
	}
	startX, startY := int(ptr.RootX), int(ptr.RootY)

	if !w.grabPointerFor(CurMove) {
		return
	}
	defer xproto.UngrabPointer(w.Conn, xproto.TimeCurrentTime)

	var lastMove xproto.Timestamp
	for {
		ev, cont := w.nextDragEvent()
		if !cont {
			return
		}
		switch e := ev.(type) {
		case xproto.ButtonReleaseEvent:
			w.finishDrag(c, w.recttomon(int(e.RootX), int(e.RootY), c.width(), c.height()))
			return
		case xproto.MotionNotifyEvent:
			if e.Time-lastMove <= xproto.Timestamp(motionThrottle/time.Millisecond) {
				continue
			}
			lastMove = e.Time
			nx := ox + (int(e.RootX) - startX)
			ny := oy + (int(e.RootY) - startY)
			nx, ny = w.snapMove(c, nx, ny)
			if !c.IsFloating && w.shouldPromoteFloating(nx-ox, ny-oy) {
				c.IsFloating = true
				w.arrange(c.Mon)
			}
			if c.IsFloating {
				c.resize(nx, ny, c.W, c.H, true)
			}
		default:
			w.handleEvent(ev)
		}
	}
}

// ResizeMouse is MoveMouse's counterpart for the client's bottom-right
// corner, with the same promote-to-floating and monitor-migration rules
// — dwm.c's resizemouse.
func ResizeMouse(w *WM, arg *Arg) {
	c := w.SelMon.Sel
	if c == nil || c.IsFullscreen {
		return
	}
	w.restack(w.SelMon)
	ox, oy, ow, oh := c.X, c.Y, c.W, c.H

	if !w.grabPointerFor(CurResize) {
		return
	}
	defer xproto.UngrabPointer(w.Conn, xproto.TimeCurrentTime)
	xproto.WarpPointer(w.Conn, 0, c.Win, 0, 0, 0, 0, int16(c.W+c.BW-1), int16(c.H+c.BW-1))

	var lastMove xproto.Timestamp
	for {
		ev, cont := w.nextDragEvent()
		if !cont {
			return
		}
		switch e := ev.(type) {
		case xproto.ButtonReleaseEvent:
			w.finishDrag(c, w.recttomon(c.X, c.Y, c.width(), c.height()))
			xproto.WarpPointer(w.Conn, 0, c.Win, 0, 0, 0, 0,
				int16(c.W+c.BW-1), int16(c.H+c.BW-1))
			return
		case xproto.MotionNotifyEvent:
			if e.Time-lastMove <= xproto.Timestamp(motionThrottle/time.Millisecond) {
				continue
			}
			lastMove = e.Time
			nw := max(int(e.RootX)-ox-2*c.BW+1, 1)
			nh := max(int(e.RootY)-oy-2*c.BW+1, 1)
			if !c.IsFloating && w.shouldPromoteFloating(nw-ow, nh-oh) {
				c.IsFloating = true
				w.arrange(c.Mon)
			}
			if c.IsFloating {
				c.resize(ox, oy, nw, nh, true)
			}
		default:
			w.handleEvent(ev)
		}
	}
}

// shouldPromoteFloating reports whether a drag displacement is large
// enough to pull a tiled client out of its layout into floating mode —
// dwm.c's movemouse/resizemouse guard "(!c->isfloating && ... &&
// (abs(nx-c->x) > snap || abs(ny-c->y) > snap))".
func (w *WM) shouldPromoteFloating(dx, dy int) bool {
	return w.SelMon.layout().Arrange != nil && (abs(dx) > w.Cfg.Snap || abs(dy) > w.Cfg.Snap)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// snapMove pulls (x, y) onto the selected monitor's usable-area edges
// once the client is within w.Cfg.Snap pixels of them — dwm.c's
// "if (abs(nx - m->wx) < snap) nx = m->wx" snapping block.
func (w *WM) snapMove(c *Client, x, y int) (int, int) {
	m := w.SelMon
	if abs(x-m.WX) < w.Cfg.Snap {
		x = m.WX
	} else if abs(m.WX+m.WW-(x+c.width())) < w.Cfg.Snap {
		x = m.WX + m.WW - c.width()
	}
	if abs(y-m.WY) < w.Cfg.Snap {
		y = m.WY
	} else if abs(m.WY+m.WH-(y+c.height())) < w.Cfg.Snap {
		y = m.WY + m.WH - c.height()
	}
	return x, y
}

// grabPointerFor actively grabs the pointer for the duration of a drag,
// displaying the move/resize cursor — dwm.c's XGrabPointer call in
// movemouse/resizemouse.
func (w *WM) grabPointerFor(cursorKind int) bool {
	reply, err := xproto.GrabPointer(w.Conn, false, w.Root,
		xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		0, w.Cursors[cursorKind], xproto.TimeCurrentTime).Reply()
	return err == nil && reply != nil && reply.Status == xproto.GrabStatusSuccess
}

// nextDragEvent blocks for the next event off the connection while a
// drag loop is active — dwm.c's inner "while (running)" loop inside
// movemouse/resizemouse that only checks for Motion/ButtonRelease/
// ConfigureRequest/Expose/MapRequest, forwarding everything else is
// unnecessary there because Xlib's XMaskEvent already filtered the
// queue; this module forwards non-drag events to the normal dispatcher
// instead, which is equivalent since handleEvent is idempotent per
// event and this module has no separate masked-queue primitive.
func (w *WM) nextDragEvent() (interface{}, bool) {
	ev, err := w.Conn.WaitForEvent()
	if ev == nil && err == nil {
		return nil, false
	}
	if err != nil {
		w.handleXError(err)
		return w.nextDragEvent()
	}
	return ev, true
}

// finishDrag ends an interactive move/resize: if the client ended up
// mostly on a different monitor, it migrates there and selmon follows —
// dwm.c's movemouse/resizemouse tail ("if ((m = recttomon(...)) !=
// selmon) { sendmon(c, m); selmon = m; focus(NULL); }").
func (w *WM) finishDrag(c *Client, m *Monitor) {
	if m != nil && m != c.Mon {
		w.sendToMonitor(c, m)
		w.SelMon = m
		w.focus(nil)
	}
}
