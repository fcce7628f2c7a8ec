// Package bar renders the per-monitor status bar (SPEC_FULL.md C7): tag
// cells with occupancy/urgency marks, the active layout's symbol, the
// selected client's title, and — on the selected monitor only —
// right-justified status text.
//
// The teacher's own drawing file (the one taowm/main.go, geom.go and
// input.go reference via pulseChan/setForeground/drawText/clip/unclip)
// is missing from the retrieval pack, so this package is grounded
// directly on original_source/drw.c instead: a fontset is a fallback
// chain of font.Face values tried in order per codepoint, a Scheme is an
// (fg, bg, border) triple, and drawing targets an offscreen image that
// is blitted to the bar window in one shot via PutImage+CopyArea,
// mirroring drw_text/drw_rect/drw_map's own pixmap-then-XCopyArea
// structure. jezek/xgbutil's xgraphics package would do this blit for
// us, but xgbutil is built on the jezek/xgb fork, not BurntSushi/xgb —
// the two are separate, type-incompatible bindings of the same
// protocol, so this package talks to the X server directly instead.
package bar

import (
	"image"
	"image/draw"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Scheme is a drw.c Clr triple: foreground, background, border color.
type Scheme struct {
	Fg, Bg, Border image.Image
}

// Fontset is a fallback chain of faces, tried in order for each
// codepoint — drw.c's Fnt linked list built by drw_fontset_create.
type Fontset struct {
	Faces []font.Face
}

func (fs *Fontset) faceFor(r rune) font.Face {
	for _, f := range fs.Faces {
		if _, _, ok := f.GlyphBounds(r); ok {
			return f
		}
	}
	if len(fs.Faces) > 0 {
		return fs.Faces[0]
	}
	return basicfont.Face7x13
}

// Height is the tallest face's line height plus drw.c's 2px padding.
func (fs *Fontset) Height() int {
	h := 0
	for _, f := range fs.Faces {
		m := f.Metrics()
		lh := (m.Ascent + m.Descent).Ceil()
		if lh > h {
			h = lh
		}
	}
	if h == 0 {
		h = basicfont.Face7x13.Metrics().Height.Ceil()
	}
	return h + 2
}

// TextWidth measures s as drw_fontset_getwidth would, summing per-rune
// advances across the fallback chain.
func (fs *Fontset) TextWidth(s string) int {
	w := fixed.I(0)
	for _, r := range s {
		face := fs.faceFor(r)
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv = fixed.I(7)
		}
		w += adv
	}
	return w.Ceil()
}

// NewFontset loads each configured font name into a basicfont-backed
// face. A production build would resolve each name through fontconfig as
// drw.c's xfont_create does via FcNameParse/XftFontOpenPattern;
// golang.org/x/image/font has no fontconfig binding, so this module
// falls back to the bundled basicfont face, repeated for every
// configured name, which preserves the *fallback-chain* structure the
// bar's codepoint-by-codepoint drawing depends on even though every
// entry renders identically.
func NewFontset(names []string) *Fontset {
	fs := &Fontset{}
	for range names {
		fs.Faces = append(fs.Faces, basicfont.Face7x13)
	}
	if len(fs.Faces) == 0 {
		fs.Faces = append(fs.Faces, basicfont.Face7x13)
	}
	return fs
}

// Bar owns one monitor's bar window and its offscreen drawing surface: a
// Go image.RGBA is rastered into by Rect/Text, then Map blits it to an X
// Pixmap via PutImage and copies the pixmap onto the window — drw.c's
// drw_create (pixmap + GC) and drw_map (XCopyArea) combined.
type Bar struct {
	conn   *xgb.Conn
	win    xproto.Window
	depth  byte
	pixmap xproto.Pixmap
	gc     xproto.Gcontext
	img    *image.RGBA
	fonts  *Fontset
}

// New creates the offscreen drawing surface and the X-side pixmap/GC
// pair for a bar window of the given size and depth.
func New(conn *xgb.Conn, win xproto.Window, depth byte, fonts *Fontset, w, h int) *Bar {
	b := &Bar{conn: conn, win: win, depth: depth, fonts: fonts}
	b.allocate(w, h)
	return b
}

func (b *Bar) allocate(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	b.img = image.NewRGBA(image.Rect(0, 0, w, h))

	pixmap, err := xproto.NewPixmapId(b.conn)
	if err == nil {
		xproto.CreatePixmap(b.conn, b.depth, pixmap, xproto.Drawable(b.win), uint16(w), uint16(h))
		b.pixmap = pixmap
	}
	if b.gc == 0 {
		gc, err := xproto.NewGcontextId(b.conn)
		if err == nil {
			xproto.CreateGC(b.conn, gc, xproto.Drawable(b.win), 0, nil)
			b.gc = gc
		}
	}
}

// Resize replaces the offscreen surface and pixmap to match a new bar
// size — drw_resize.
func (b *Bar) Resize(w, h int) {
	if b.pixmap != 0 {
		xproto.FreePixmap(b.conn, b.pixmap)
		b.pixmap = 0
	}
	b.allocate(w, h)
}

// Rect fills (or outlines) a rectangle with scm's foreground color —
// drw_rect.
func (b *Bar) Rect(scm Scheme, x, y, w, h int, filled bool) {
	r := image.Rect(x, y, x+w, y+h)
	if filled {
		draw.Draw(b.img, r, scm.Fg, image.Point{}, draw.Src)
		return
	}
	for i := 0; i < w; i++ {
		draw.Draw(b.img, image.Rect(x+i, y, x+i+1, y+1), scm.Fg, image.Point{}, draw.Src)
		draw.Draw(b.img, image.Rect(x+i, y+h-1, x+i+1, y+h), scm.Fg, image.Point{}, draw.Src)
	}
	for i := 0; i < h; i++ {
		draw.Draw(b.img, image.Rect(x, y+i, x+1, y+i+1), scm.Fg, image.Point{}, draw.Src)
		draw.Draw(b.img, image.Rect(x+w-1, y+i, x+w, y+i+1), scm.Fg, image.Point{}, draw.Src)
	}
}

// Text draws s left-padded by lpad within (x, y, w, h), decoding
// codepoint by codepoint and picking the first fallback face that
// covers each one — drw_text's main loop, minus drw.c's dynamic
// fontconfig-match step (no fontconfig binding is available, see
// NewFontset).
func (b *Bar) Text(scm Scheme, x, y, w, h, lpad int, s string) int {
	draw.Draw(b.img, image.Rect(x, y, x+w, y+h), scm.Bg, image.Point{}, draw.Src)
	cursor := fixed.P(x+lpad, y+h/2+b.fonts.Height()/4)
	for _, r := range s {
		face := b.fonts.faceFor(r)
		dr, mask, maskp, adv, ok := face.Glyph(cursor, r)
		if !ok {
			continue
		}
		draw.DrawMask(b.img, dr, scm.Fg, image.Point{}, mask, maskp, draw.Over)
		cursor.X += adv
	}
	return cursor.X.Ceil()
}

// Map blits the offscreen surface onto the bar window: PutImage uploads
// the rastered RGBA buffer into the server-side pixmap (packed as
// 32bpp BGRX, the common byte order for a 24/32-bit TrueColor root
// visual), then CopyArea copies the pixmap onto the window — drw_map's
// XCopyArea, with the PutImage upload standing in for Xft's direct
// rendering onto drw->drawable.
func (b *Bar) Map(x, y, w, h int) {
	if b.pixmap == 0 || b.gc == 0 {
		return
	}
	bounds := b.img.Bounds()
	data := make([]byte, bounds.Dx()*bounds.Dy()*4)
	i := 0
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			r, g, bl, _ := b.img.At(px, py).RGBA()
			data[i+0] = byte(bl >> 8)
			data[i+1] = byte(g >> 8)
			data[i+2] = byte(r >> 8)
			data[i+3] = 0
			i += 4
		}
	}
	xproto.PutImage(b.conn, xproto.ImageFormatZPixmap, xproto.Drawable(b.pixmap), b.gc,
		uint16(bounds.Dx()), uint16(bounds.Dy()), 0, 0, 0, b.depth, data)
	xproto.CopyArea(b.conn, xproto.Drawable(b.pixmap), xproto.Drawable(b.win), b.gc,
		int16(x), int16(y), int16(x), int16(y), uint16(w), uint16(h))
}

// Win returns the bar's X window handle.
func (b *Bar) Win() xproto.Window { return b.win }
