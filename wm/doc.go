// Package wm implements a dynamic tiling window manager for X11.
//
// It manages windows in tiled, monocle or floating arrangements, selected
// per monitor, with tagging instead of virtual desktops: every client
// carries a bitmask of up to 31 tags, and a monitor shows the union of
// clients whose tags intersect its active tagset. Keys and mouse buttons
// are bound in config.go; there is no runtime reconfiguration.
package wm
