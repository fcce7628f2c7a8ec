package wm

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

// shouldIgnoreEnterNotify must use OR, not AND, between the mode and
// detail checks — dwm.c's enternotify guards on
// "ev->mode != NotifyNormal || ev->detail == NotifyInferior".
func TestShouldIgnoreEnterNotify(t *testing.T) {
	tests := []struct {
		name string
		e    xproto.EnterNotifyEvent
		want bool
	}{
		{
			"normal mode, non-inferior detail: act on it",
			xproto.EnterNotifyEvent{Mode: xproto.NotifyModeNormal, Detail: xproto.NotifyDetailAncestor},
			false,
		},
		{
			"normal mode, inferior detail: ignore",
			xproto.EnterNotifyEvent{Mode: xproto.NotifyModeNormal, Detail: xproto.NotifyDetailInferior},
			true,
		},
		{
			"grab mode, non-inferior detail: ignore",
			xproto.EnterNotifyEvent{Mode: xproto.NotifyModeGrab, Detail: xproto.NotifyDetailAncestor},
			true,
		},
		{
			"grab mode, inferior detail: ignore",
			xproto.EnterNotifyEvent{Mode: xproto.NotifyModeGrab, Detail: xproto.NotifyDetailInferior},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldIgnoreEnterNotify(tt.e); got != tt.want {
				t.Errorf("shouldIgnoreEnterNotify(%+v) = %v, want %v", tt.e, got, tt.want)
			}
		})
	}
}

// A tiled client must still pick up a bare border-width change from a
// ConfigureRequest even though every other field is ignored — dwm.c's
// configurerequest applies c->bw = ev->border_width unconditionally
// before branching on floating/tiled.
func TestConfigureRequestBorderWidth(t *testing.T) {
	tests := []struct {
		name    string
		current int
		mask    uint16
		want    int
	}{
		{"border width present in mask: applied", 1, xproto.ConfigWindowBorderWidth, 3},
		{"border width present alongside other fields: applied", 1, xproto.ConfigWindowBorderWidth | xproto.ConfigWindowWidth, 3},
		{"border width absent from mask: unchanged", 1, xproto.ConfigWindowWidth, 1},
		{"empty mask: unchanged", 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := configureRequestBorderWidth(tt.current, tt.mask, 3)
			if got != tt.want {
				t.Errorf("configureRequestBorderWidth(%d, %#x, 3) = %d, want %d", tt.current, tt.mask, got, tt.want)
			}
		})
	}
}
