package wm

import (
	"github.com/BurntSushi/xgb/xproto"
)

// xkNumLock is the X11 keysym for the NumLock key (0xff7f), needed to
// find which modifier bit the server has assigned it to.
const xkNumLock xproto.Keysym = 0xff7f

// lockMasks are replicated across every key/button grab so bindings keep
// working regardless of NumLock/CapsLock state — spec.md §5's "Grabs"
// paragraph, dwm.c's grabkeys/grabbuttons loop over
// {0, LockMask, NumLockMask, LockMask|NumLockMask}.
func (w *WM) lockMasks() []uint16 {
	return []uint16{0, xproto.ModMaskLock, w.NumLockMask, xproto.ModMaskLock | w.NumLockMask}
}

// cleanMask strips NumLock and CapsLock from a modifier mask and keeps
// only the seven real modifiers — dwm.c's CLEANMASK macro.
func (w *WM) cleanMask(mod uint16) uint16 {
	const realModsMask = xproto.ModMaskShift | xproto.ModMaskControl |
		xproto.ModMask1 | xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5
	return mod &^ (w.NumLockMask | xproto.ModMaskLock) & realModsMask
}

// keyboardMapping fetches the full keycode->keysym table once, used by
// both updateNumlockMask and keysymToKeycodes — dwm.c calls
// XGetModifierMapping/XGetKeyboardMapping from updatenumlockmask and
// relies on XKeysymToKeycode (backed by the same table) from grabkeys;
// this module does both lookups directly against xproto's generic
// mapping replies since no XKeysymToKeycode equivalent ships with
// BurntSushi/xgb itself.
func (w *WM) keyboardMapping() (*xproto.GetKeyboardMappingReply, error) {
	setup := xproto.Setup(w.Conn)
	count := int(setup.MaxKeycode) - int(setup.MinKeycode) + 1
	return xproto.GetKeyboardMapping(w.Conn, setup.MinKeycode, byte(count)).Reply()
}

// updateNumlockMask finds which modifier bit the X server has assigned
// to the NumLock keysym, so cleanMask can strip it — dwm.c's
// updatenumlockmask.
func (w *WM) updateNumlockMask() {
	mapping, err := xproto.GetModifierMapping(w.Conn).Reply()
	if err != nil {
		return
	}
	kpm, err := w.keyboardMapping()
	if err != nil {
		return
	}
	minKeycode := byte(xproto.Setup(w.Conn).MinKeycode)
	w.NumLockMask = 0
	for i := 0; i < 8; i++ {
		for j := 0; j < int(mapping.KeycodesPerModifier); j++ {
			kc := mapping.Keycodes[i*int(mapping.KeycodesPerModifier)+j]
			if kc == 0 {
				continue
			}
			if keycodeHasKeysym(kpm, minKeycode, byte(kc), xkNumLock) {
				w.NumLockMask = 1 << uint(i)
			}
		}
	}
}

func keycodeHasKeysym(kpm *xproto.GetKeyboardMappingReply, minKeycode, kc byte, sym xproto.Keysym) bool {
	idx := int(kc-minKeycode) * int(kpm.KeysymsPerKeycode)
	if idx < 0 || idx >= len(kpm.Keysyms) {
		return false
	}
	for i := 0; i < int(kpm.KeysymsPerKeycode); i++ {
		if idx+i < len(kpm.Keysyms) && kpm.Keysyms[idx+i] == sym {
			return true
		}
	}
	return false
}

// keysymToKeycodes returns every keycode whose mapping table includes
// sym in any group/shift-level slot — the reverse of XKeysymToKeycode,
// scanning the same full table keycodeHasKeysym checks one entry at a
// time against.
func (w *WM) keysymToKeycodes(sym xproto.Keysym) []xproto.Keycode {
	kpm, err := w.keyboardMapping()
	if err != nil {
		return nil
	}
	var out []xproto.Keycode
	setup := xproto.Setup(w.Conn)
	minKeycode := byte(setup.MinKeycode)
	count := int(setup.MaxKeycode) - int(setup.MinKeycode) + 1
	for i := 0; i < count; i++ {
		kc := byte(int(minKeycode) + i)
		if keycodeHasKeysym(kpm, minKeycode, kc, sym) {
			out = append(out, xproto.Keycode(kc))
		}
	}
	return out
}

// grabKeys ungrabs everything on root then grabs every configured key
// binding, replicated across lockMasks — dwm.c's grabkeys.
func (w *WM) grabKeys() {
	xproto.UngrabKey(w.Conn, xproto.GrabAny, w.Root, xproto.ModMaskAny)
	for _, k := range w.Cfg.Keys {
		codes := w.keysymToKeycodes(k.Keysym)
		for _, kc := range codes {
			for _, lock := range w.lockMasks() {
				xproto.GrabKey(w.Conn, true, w.Root, k.Mod|lock, kc,
					xproto.GrabModeAsync, xproto.GrabModeAsync)
			}
		}
	}
}

// grabButtons (un)grabs the click bindings on c's window. For an
// unfocused client, any button is grabbed synchronously so a click both
// raises/focuses the window and is replayed to it afterward (spec.md
// §4.1's ButtonPress contract); for the focused client, only the
// configured button/modifier combinations are grabbed — dwm.c's
// grabbuttons.
func (w *WM) grabButtons(c *Client, focused bool) {
	xproto.UngrabButton(w.Conn, xproto.ButtonIndexAny, c.Win, xproto.ModMaskAny)
	if !focused {
		xproto.GrabButton(w.Conn, false, c.Win,
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease,
			xproto.GrabModeSync, xproto.GrabModeSync, 0, 0,
			xproto.ButtonIndexAny, xproto.ModMaskAny)
		return
	}
	for _, b := range w.Cfg.Buttons {
		if b.Click != ClkClientWin {
			continue
		}
		for _, lock := range w.lockMasks() {
			xproto.GrabButton(w.Conn, false, c.Win,
				xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease,
				xproto.GrabModeAsync, xproto.GrabModeSync, 0, 0,
				byte(b.Button), b.Mod|lock)
		}
	}
}
