package wm

import "github.com/BurntSushi/xgb/xproto"

// Named keysyms used by DefaultConfig. For the printable ASCII range,
// X11 keysym values equal the Latin-1 codepoint (keysymdef.h), so letters
// and digits are derived directly from their rune value; the teacher's
// keysym.go instead hand-lists every constant it needs, but the few
// control keysyms below (outside the printable range) still have to be
// named explicitly.
const (
	xkBackspace = xproto.Keysym(0xff08)
	xkTab       = xproto.Keysym(0xff09)
	xkReturn    = xproto.Keysym(0xff0d)
	xkEscape    = xproto.Keysym(0xff1b)
	xkSpace     = xproto.Keysym(' ')
	xkComma     = xproto.Keysym(',')
	xkPeriod    = xproto.Keysym('.')

	xk0 = xproto.Keysym('0')
	xk1 = xproto.Keysym('1')

	xkB = xproto.Keysym('b')
	xkC = xproto.Keysym('c')
	xkD = xproto.Keysym('d')
	xkF = xproto.Keysym('f')
	xkH = xproto.Keysym('h')
	xkI = xproto.Keysym('i')
	xkJ = xproto.Keysym('j')
	xkK = xproto.Keysym('k')
	xkL = xproto.Keysym('l')
	xkM = xproto.Keysym('m')
	xkP = xproto.Keysym('p')
	xkQ = xproto.Keysym('q')
	xkT = xproto.Keysym('t')
)
