package wm

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/sys/unix"
)

// Version is reported in the fallback status text (wm/bar_wiring.go's
// updateStatus) and by the -v flag, spec.md §6.
const Version = "6.5-go"

// xEventOrError pairs one decoded item off the wire with its error half,
// mirroring nigeltao-taowm/taowm/main.go's xEventOrError — the channel
// element fed by the single goroutine allowed to call WaitForEvent,
// since a BurntSushi/xgb connection is not safe to read from two
// goroutines at once (see SPEC_FULL.md §5 ADDED).
type xEventOrError struct {
	event xgb.Event
	err   xgb.Error
}

// Run pumps X events until Running is cleared by Quit, dwm.c's run().
// Event decoding happens on its own goroutine and is funneled through
// eeChan; functions received on the proactive channel run on this
// goroutine, as in nigeltao-taowm/taowm/main.go's proactiveChan. Nothing
// in this module sends on that channel; the SIGCHLD reaper (reapChildren)
// reaps on its own goroutine without touching the connection.
func (w *WM) Run() {
	w.Running = true
	eeChan := make(chan xEventOrError, 64)
	go func() {
		for {
			ev, err := w.Conn.WaitForEvent()
			if ev == nil && err == nil {
				close(eeChan)
				return
			}
			eeChan <- xEventOrError{ev, err}
		}
	}()

	for w.Running {
		select {
		case fn := <-w.proactive:
			fn()
		case ee, ok := <-eeChan:
			if !ok {
				w.Running = false
				return
			}
			if ee.err != nil {
				w.handleXError(ee.err)
				continue
			}
			if ee.event != nil {
				w.handleEvent(ee.event)
			}
		}
	}
}

// Quit stops the event loop after the current dispatch returns — dwm.c's
// quit() setting running=0.
func Quit(w *WM, arg *Arg) {
	w.Running = false
}

// KillClient asks the selected client to close: WM_DELETE_WINDOW if
// advertised, otherwise a forceful KillClient request through a server
// grab — dwm.c's killclient.
func KillClient(w *WM, arg *Arg) {
	c := w.SelMon.Sel
	if c == nil {
		return
	}
	if w.sendEvent(c.Win, w.Atoms.WMProtocols, int(w.Atoms.WMDelete)) {
		return
	}
	w.withServerGrab(func() {
		xproto.KillClient(w.Conn, uint32(c.Win))
	})
}

// Spawn runs arg.V as a detached child, closing dwm's own X connection
// in the child first so the spawned program doesn't inherit it — dwm.c's
// spawn, adapted to Go's os/exec plus SysProcAttr.Setsid instead of C's
// fork+setsid+execvp, since Go processes can't safely fork without
// exec'ing immediately.
func Spawn(w *WM, arg *Arg) {
	if len(arg.V) == 0 {
		return
	}
	cmd := exec.Command(arg.V[0], arg.V[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		w.Log.Error("spawn", "cmd", arg.V, "error", err)
		return
	}
	go func() {
		_ = cmd.Wait()
	}()
}

// ToggleBar flips a monitor's bar visibility and re-derives its usable
// area — dwm.c's togglebar.
func ToggleBar(w *WM, arg *Arg) {
	m := w.SelMon
	m.ShowBar = !m.ShowBar
	w.updateBarPos(m)
	if bar := w.Bars[m]; bar != nil {
		xproto.ConfigureWindow(w.Conn, m.BarWin, xproto.ConfigWindowY, []uint32{uint32(int32(m.BY))})
	}
	w.arrange(m)
}

// IncNMaster changes the master-area client count by arg.I, floored at 0
// — dwm.c's incnmaster.
func IncNMaster(w *WM, arg *Arg) {
	m := w.SelMon
	m.NMaster = max(m.NMaster+arg.I, 0)
	w.arrange(m)
}

// SetMFact changes the master-area fraction: an arg.F below 1.0 is a
// delta added to the current value, an arg.F of 1.0 or more sets the
// fraction to arg.F-1.0 (dwm.c's setmfact convention). A result outside
// [0.1, 0.9] is refused and leaves the fraction unchanged.
func SetMFact(w *WM, arg *Arg) {
	m := w.SelMon
	f := arg.F
	if f < 1.0 {
		f += m.MFact
	} else {
		f -= 1.0
	}
	if f < 0.1 || f > 0.9 {
		return
	}
	m.MFact = f
	w.arrange(m)
}

// SetLayout sets the monitor's active layout slot to Layouts[arg.I] when
// arg.I is a valid index into the table; an out-of-range index leaves
// the layout as it is and re-applies it. A binding that passes no index
// has arg.I == 0 and so selects the first layout; the two layout slots
// (LT[0]/LT[1]) are never toggled, SelLT stays 0 — adapted from dwm.c's
// setlayout.
func SetLayout(w *WM, arg *Arg) {
	m := w.SelMon
	if arg.I >= 0 && arg.I < len(w.Cfg.Layouts) {
		m.LT[m.SelLT] = &w.Cfg.Layouts[arg.I]
	}
	m.LtSymbol = m.layout().Symbol
	if m.Sel != nil {
		w.arrange(m)
	} else {
		w.drawBar(m)
	}
}

// ToggleFloating flips the selected client's floating flag, refusing on
// fullscreen clients (which are always conceptually floating already) —
// dwm.c's togglefloating.
func ToggleFloating(w *WM, arg *Arg) {
	c := w.SelMon.Sel
	if c == nil || c.IsFullscreen {
		return
	}
	c.IsFloating = !c.IsFloating || c.IsFixed
	if c.IsFloating {
		c.resize(c.X, c.Y, c.W, c.H, false)
	}
	w.arrange(w.SelMon)
}

// scan manages every pre-existing top-level window at startup, in two
// passes: non-transient windows first, then transient windows — so a
// transient's owner is already managed (and its tags/monitor known) by
// the time applyRules/manage looks it up — spec.md's startup scan
// contract, dwm.c's scan.
func (w *WM) scan() {
	tree, err := xproto.QueryTree(w.Conn, w.Root).Reply()
	if err != nil {
		w.Log.Error("query tree", "error", err)
		return
	}
	var transients []xproto.Window
	for _, win := range tree.Children {
		attr, err := xproto.GetWindowAttributes(w.Conn, win).Reply()
		if err != nil || attr.OverrideRedirect {
			continue
		}
		if transFor := w.getWindowProp(win, w.Atoms.WMTransientFor); transFor != 0 {
			transients = append(transients, win)
			continue
		}
		if attr.MapState == xproto.MapStateViewable || w.getWMState(win) == icccmIconicState {
			w.manage(win)
		}
	}
	for _, win := range transients {
		attr, err := xproto.GetWindowAttributes(w.Conn, win).Reply()
		if err != nil {
			continue
		}
		if attr.MapState == xproto.MapStateViewable || w.getWMState(win) == icccmIconicState {
			w.manage(win)
		}
	}
}

// getWMState reads back WM_STATE's state word, or -1 if unreadable.
func (w *WM) getWMState(win xproto.Window) int {
	reply, err := xproto.GetProperty(w.Conn, false, win, w.Atoms.WMState, w.Atoms.WMState, 0, 2).Reply()
	if err != nil || reply == nil || reply.ValueLen == 0 {
		return -1
	}
	return int(hostOrderUint32(reply.Value))
}

// reapChildren installs a SIGCHLD handler that reaps every exited/
// stopped child without blocking the event loop, dwm.c's sigchld
// (SA_NOCLDSTOP parent-death handling plus a wait4 loop). Go's os/exec
// already reaps via cmd.Wait in a goroutine per Spawn, but detached
// grandchildren (e.g. dmenu forking further) still need an explicit
// reaper or they'd accumulate as zombies, so this mirrors dwm.c's
// unconditional "reap everyone" loop rather than relying solely on
// exec.Cmd bookkeeping.
func (w *WM) reapChildren() {
	sigchld := make(chan os.Signal, 8)
	signal.Notify(sigchld, unix.SIGCHLD)
	go func() {
		for range sigchld {
			for {
				var ws unix.WaitStatus
				pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
				if pid <= 0 || err != nil {
					break
				}
			}
		}
	}()
}
