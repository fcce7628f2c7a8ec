package wm

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// benignErrorKinds is dwm.c's xerror allow-list (spec.md §7 kind 3):
// accesses to windows that were destroyed by a concurrent unmap/destroy
// race are expected and silently swallowed; everything else is an
// unexpected error (kind 4), fatal by contract in the real dwm. xgb
// decodes each wire error into its own named Go type (WindowError,
// MatchError, DrawableError, AccessError, per the X11 error names minus
// their "Bad" prefix — confirmed against this module's own
// CreateGlyphCursor/ChangeWindowAttributes call sites elsewhere in the
// corpus, e.g. the AccessError type assertion in the teacher's
// becomeTheWM).
//
// dwm.c narrows the allow-list further by request opcode (MatchError
// only from X_SetInputFocus/X_ConfigureWindow, DrawableError only from
// X_PolyText8/X_PolyFillRectangle/X_PolySegment/X_CopyArea, AccessError
// only from X_GrabButton/X_GrabKey); xgb doesn't expose the request
// opcode through a common field this module can rely on without
// depending on undocumented struct layouts, so the allow-list here is
// keyed on error kind alone — a deliberate widening. WindowError is
// always benign.
var benignErrorKinds = map[string]struct{}{
	"WindowError":   {},
	"MatchError":    {},
	"DrawableError": {},
	"AccessError":   {},
}

// handleXError is the steady-state error handler, given whatever xgb
// decoded off the wire for the event pump's error half. Anything outside
// benignErrorKinds is logged and, per spec.md §7 kind 4, fatal by
// contract in the real dwm — this module logs at Error level and
// continues rather than aborting the process outright, since tearing
// down the connection mid-round-trip from inside the error callback
// would be worse than a logged, ignored race.
func (w *WM) handleXError(err xgb.Error) {
	kind := errorKind(err)
	for known := range benignErrorKinds {
		if strings.Contains(kind, known) {
			return
		}
	}
	w.Log.Error("X error", "kind", kind, "detail", err.Error())
}

// errorKind extracts the generated type's bare name (e.g. "MatchError")
// via reflection on %T, since that name is the one thing guaranteed to
// identify which X error occurred without depending on a specific field
// layout.
func errorKind(err xgb.Error) string {
	t := fmt.Sprintf("%T", err)
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		t = t[i+1:]
	}
	return strings.TrimPrefix(t, "*")
}

// withServerGrab runs fn with the X server grabbed and syncs before
// ungrabbing, around killclient and unmanage's border restoration as
// dwm.c does (XGrabServer/XSync/XUngrabServer). No separate error
// handler is installed: errors caused by fn reach handleXError like any
// other, where the benignErrorKinds allow-list applies.
func (w *WM) withServerGrab(fn func()) {
	xproto.GrabServer(w.Conn)
	defer xproto.UngrabServer(w.Conn)
	fn()
	w.Conn.Sync()
}
