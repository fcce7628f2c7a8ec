package wm

import "github.com/BurntSushi/xgb/xproto"

// Arg is the argument passed to a key or button action. Exactly one field
// is meaningful per binding; which one is a convention of the action func.
type Arg struct {
	I int
	F float64
	V []string
}

// Layout assigns geometries to a monitor's tiled clients. Arrange is nil
// for the floating layout: tiled clients simply keep whatever geometry
// they already have.
type Layout struct {
	Symbol  string
	Arrange func(m *Monitor)
}

// Rule matches a newly managed client against class/instance/title
// substrings (empty string matches anything) to assign tags, floating
// state and a target monitor. Monitor -1 means "the client's current
// monitor".
type Rule struct {
	Class      string
	Instance   string
	Title      string
	Tags       uint32
	IsFloating bool
	Monitor    int
}

// Key binds a cleaned modifier mask and keysym to an action.
type Key struct {
	Mod    uint16
	Keysym xproto.Keysym
	Func   func(w *WM, arg *Arg)
	Arg    Arg
}

// Button binds a click region, cleaned modifier mask and button number to
// an action.
type Button struct {
	Click  int
	Mod    uint16
	Button xproto.Button
	Func   func(w *WM, arg *Arg)
	Arg    Arg
}

// Click regions, in the order buttonpress classifies them.
const (
	ClkTagBar = iota
	ClkLtSymbol
	ClkStatusText
	ClkWinTitle
	ClkClientWin
	ClkRootWin
	ClkLast
)

// Color scheme slots, matching drw.c's SchemeNorm/SchemeSel.
const (
	SchemeNorm = iota
	SchemeSel
	SchemeLast
)

// Color slots within a scheme.
const (
	ColFg = iota
	ColBg
	ColBorder
	ColLast
)

// Config is the compile-time configuration table. It is built once in
// DefaultConfig and never mutated at runtime: spec.md's Non-goals rule out
// dynamic reconfiguration, so there is deliberately no config file loader.
type Config struct {
	BorderPx     int
	Snap         int
	ShowBar      bool
	TopBar       bool
	Fonts        []string
	Colors       [SchemeLast][ColLast]string
	Tags         []string
	Rules        []Rule
	MFact        float64
	NMaster      int
	ResizeHints  bool
	Layouts      []Layout
	ModKey       uint16
	Keys         []Key
	Buttons      []Button
	DmenuCmd     []string
	TermCmd      []string
}

const (
	ModMaskAlt = xproto.ModMask1
	ModShift   = xproto.ModMaskShift
	ModCtrl    = xproto.ModMaskControl
)

// TagMask is the bitmask over every configured tag; tag arguments are
// always masked against it before being applied.
func (c *Config) TagMask() uint32 {
	return uint32(1)<<uint(len(c.Tags)) - 1
}

func tagKeys(keysym0 xproto.Keysym, tagIndex int, mod uint16) []Key {
	bit := uint32(1) << uint(tagIndex)
	return []Key{
		{Mod: mod, Keysym: keysym0, Func: View, Arg: Arg{I: int(bit)}},
		{Mod: mod | ModCtrl, Keysym: keysym0, Func: ToggleView, Arg: Arg{I: int(bit)}},
		{Mod: mod | ModShift, Keysym: keysym0, Func: Tag, Arg: Arg{I: int(bit)}},
		{Mod: mod | ModCtrl | ModShift, Keysym: keysym0, Func: ToggleTag, Arg: Arg{I: int(bit)}},
	}
}

// DefaultConfig reproduces config.def.h: nine tags, the tile/floating/
// monocle layout table (tile first, the default), mfact 0.55, nmaster 1,
// resizehints true, border 1px, snap 32px, and the dmenu/terminal argv
// templates.
func DefaultConfig() *Config {
	const mod = xproto.ModMask1 // Mod1Mask, i.e. Alt.

	cfg := &Config{
		BorderPx:    1,
		Snap:        32,
		ShowBar:     true,
		TopBar:      true,
		Fonts:       []string{"monospace:size=10"},
		Tags:        []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		MFact:       0.55,
		NMaster:     1,
		ResizeHints: true,
		ModKey:      mod,
		DmenuCmd:    []string{"dmenu_run", "-m", "0", "-fn", "monospace:size=10"},
		TermCmd:     []string{"st"},
	}
	cfg.Colors[SchemeNorm] = [ColLast]string{"#bbbbbb", "#222222", "#444444"}
	cfg.Colors[SchemeSel] = [ColLast]string{"#eeeeee", "#005577", "#005577"}

	cfg.Layouts = []Layout{
		{Symbol: "[]=", Arrange: Tile},
		{Symbol: "><>", Arrange: nil},
		{Symbol: "[M]", Arrange: Monocle},
	}

	cfg.Rules = []Rule{
		{Class: "Gimp", IsFloating: true, Monitor: -1},
		{Class: "Firefox", Tags: 1 << 8, Monitor: -1},
	}

	keys := []Key{
		{Mod: mod, Keysym: xkP, Func: Spawn, Arg: Arg{V: cfg.DmenuCmd}},
		{Mod: mod | ModShift, Keysym: xkReturn, Func: Spawn, Arg: Arg{V: cfg.TermCmd}},
		{Mod: mod, Keysym: xkB, Func: ToggleBar},
		{Mod: mod, Keysym: xkJ, Func: FocusStack, Arg: Arg{I: +1}},
		{Mod: mod, Keysym: xkK, Func: FocusStack, Arg: Arg{I: -1}},
		{Mod: mod, Keysym: xkI, Func: IncNMaster, Arg: Arg{I: +1}},
		{Mod: mod, Keysym: xkD, Func: IncNMaster, Arg: Arg{I: -1}},
		{Mod: mod, Keysym: xkH, Func: SetMFact, Arg: Arg{F: -0.05}},
		{Mod: mod, Keysym: xkL, Func: SetMFact, Arg: Arg{F: +0.05}},
		{Mod: mod, Keysym: xkReturn, Func: Zoom},
		{Mod: mod, Keysym: xkTab, Func: ViewTabToggle},
		{Mod: mod | ModShift, Keysym: xkC, Func: KillClient},
		{Mod: mod, Keysym: xkT, Func: SetLayout, Arg: Arg{I: 0}},
		{Mod: mod, Keysym: xkF, Func: SetLayout, Arg: Arg{I: 1}},
		{Mod: mod, Keysym: xkM, Func: SetLayout, Arg: Arg{I: 2}},
		{Mod: mod, Keysym: xkSpace, Func: SetLayout},
		{Mod: mod | ModShift, Keysym: xkSpace, Func: ToggleFloating},
		{Mod: mod, Keysym: xk0, Func: View, Arg: Arg{I: 0}},
		{Mod: mod | ModShift, Keysym: xk0, Func: Tag, Arg: Arg{I: 0}},
		{Mod: mod, Keysym: xkComma, Func: FocusMon, Arg: Arg{I: -1}},
		{Mod: mod, Keysym: xkPeriod, Func: FocusMon, Arg: Arg{I: +1}},
		{Mod: mod | ModShift, Keysym: xkComma, Func: TagMon, Arg: Arg{I: -1}},
		{Mod: mod | ModShift, Keysym: xkPeriod, Func: TagMon, Arg: Arg{I: +1}},
		{Mod: mod | ModShift, Keysym: xkQ, Func: Quit},
	}
	for i := 0; i < len(cfg.Tags) && i < 9; i++ {
		keys = append(keys, tagKeys(xk1+xproto.Keysym(i), i, mod)...)
	}
	cfg.Keys = keys

	cfg.Buttons = []Button{
		{Click: ClkLtSymbol, Button: 1, Func: SetLayout},
		{Click: ClkLtSymbol, Button: 3, Func: SetLayout, Arg: Arg{I: 2}},
		{Click: ClkWinTitle, Button: 2, Func: Zoom},
		{Click: ClkStatusText, Button: 2, Func: Spawn, Arg: Arg{V: cfg.TermCmd}},
		{Click: ClkClientWin, Mod: mod, Button: 1, Func: MoveMouse},
		{Click: ClkClientWin, Mod: mod, Button: 2, Func: ToggleFloating},
		{Click: ClkClientWin, Mod: mod, Button: 3, Func: ResizeMouse},
		{Click: ClkTagBar, Button: 1, Func: View},
		{Click: ClkTagBar, Button: 3, Func: ToggleView},
		{Click: ClkTagBar, Mod: mod, Button: 1, Func: Tag},
		{Click: ClkTagBar, Mod: mod, Button: 3, Func: ToggleTag},
	}

	return cfg
}
