package wm

import (
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/aerkiaga/dwm/wm/bar"
)

// Client represents one managed top-level X window. It corresponds to
// dwm.c's struct Client, minus the intrusive next/snext pointers: list
// membership lives in the owning Monitor's Clients/Stack slices instead
// (see SPEC_FULL.md §3 ADDED and DESIGN.md's C4 entry).
type Client struct {
	Name string // bounded to 255 bytes; "broken" if unreadable.

	X, Y, W, H             int
	OldX, OldY, OldW, OldH int
	BW, OldBW              int

	BaseW, BaseH int
	IncW, IncH   int
	MaxW, MaxH   int
	MinW, MinH   int
	MaxA, MinA   float64

	Tags uint32

	IsFixed      bool
	IsFloating   bool
	IsUrgent     bool
	NeverFocus   bool
	IsFullscreen bool
	OldState     bool // floating flag saved across a fullscreen toggle.

	Win xproto.Window
	Mon *Monitor
}

// isVisible reports whether c is visible on its monitor: its tags
// intersect the monitor's active tagset.
func (c *Client) isVisible() bool {
	return c.Mon != nil && c.Tags&c.Mon.Tagset[c.Mon.SelTags] != 0
}

// width/height including the border, as dwm.c's WIDTH/HEIGHT macros.
func (c *Client) width() int  { return c.W + 2*c.BW }
func (c *Client) height() int { return c.H + 2*c.BW }

// Monitor represents one output region: a Xinerama screen, or the whole
// display when Xinerama is unavailable.
type Monitor struct {
	LtSymbol        string
	MFact           float64
	NMaster         int
	Num             int
	BY              int // bar geometry y, minus the bar height when hidden.
	MX, MY, MW, MH  int // total geometry.
	WX, WY, WW, WH  int // usable geometry (total minus bar).
	SelLT           int
	SelTags         int
	ShowBar, TopBar bool

	Clients []*Client // insertion order.
	Stack   []*Client // focus order, most-recently-focused first.
	Sel     *Client

	LT      [2]*Layout
	Tagset  [2]uint32
	BarWin  xproto.Window

	Next *Monitor

	// wm back-references the owning Context aggregate so Client.resize
	// can reach X requests and size-hint enforcement without every
	// layout function taking a *WM parameter — a non-owning pointer per
	// SPEC_FULL.md §9's "Monitor back-pointer" guidance, just one level
	// up the chain (Client -> Monitor -> WM instead of Client -> WM).
	wm *WM
}

func (m *Monitor) layout() *Layout { return m.LT[m.SelLT] }

// Cursor shapes, matching dwm.c's CurNormal/CurResize/CurMove.
const (
	CurNormal = iota
	CurResize
	CurMove
	CurLast
)

// Color is a parsed RGB color. The bar's drawing schemes and border-pixel
// values are built from image.Image values (parseHexColor, colorPixel)
// and do not use this type.
type Color struct {
	R, G, B uint8
}

// WM is the Context aggregate spec.md §9 calls for: every global dwm.c
// keeps (display connection, root window, atom table, selected monitor,
// status buffer, scheme table) lives here instead, constructed once in
// New and torn down in Close. Every event handler is a method on *WM.
type WM struct {
	Conn *xgb.Conn
	Log  *slog.Logger
	Cfg  *Config

	Root      xproto.Window
	ScreenNum int
	Screen    *xproto.ScreenInfo

	Mons   *Monitor
	SelMon *Monitor

	Atoms Atoms

	NumLockMask uint16

	Scheme  [SchemeLast]bar.Scheme
	Cursors [CurLast]xproto.Cursor

	Fonts *bar.Fontset
	Bars  map[*Monitor]*bar.Bar

	WMCheckWin xproto.Window

	StatusText string

	Running bool

	// proactive carries work that must run on the goroutine driving Conn;
	// Run executes whatever arrives on it. Kept from the teacher's main.go
	// proactiveChan idiom (see SPEC_FULL.md §5 ADDED): BurntSushi/xgb
	// connections are not safe to drive from two goroutines issuing
	// interleaved requests. Nothing in this module sends on it.
	proactive chan func()
}
