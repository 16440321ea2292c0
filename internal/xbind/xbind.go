// Package xbind is the thin facade over the X protocol library: window
// creation/configuration, the event stream, keysym<->keycode translation
// and atom interning. Everything above this package (core, layout, fsa,
// command, ipc, rules) is free of any X11 import; this is the only place
// that talks to the display. Grounded on moukhtar22-doWM's wm package,
// which wires github.com/BurntSushi/xgb directly and layers
// github.com/BurntSushi/xgbutil's keybind package on top for keysym work.
package xbind

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"

	"github.com/nuclearfall/howm/internal/core"
	"github.com/nuclearfall/howm/internal/ewmh"
)

// Conn wraps the raw xgb connection plus the xgbutil layer used for
// keysym/keycode translation, matching Create() in
// moukhtar22-doWM/wm/window_manager.go.
type Conn struct {
	X    *xgb.Conn
	XU   *xgbutil.XUtil
	Root xproto.Window

	ScreenWidth, ScreenHeight uint16

	protocolsAtom xproto.Atom
	deleteAtom    xproto.Atom
}

// Connect opens the X display, wraps it with xgbutil for keysym support,
// and reads the root window's geometry.
func Connect() (*Conn, error) {
	x, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("xbind: couldn't open X display: %w", err)
	}

	xu, err := xgbutil.NewConnXgb(x)
	if err != nil {
		x.Close()
		return nil, fmt.Errorf("xbind: couldn't wrap xgbutil connection: %w", err)
	}
	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	setup := xproto.Setup(x)
	screen := setup.DefaultScreen(x)
	root := screen.Root

	geom, err := xproto.GetGeometry(x, xproto.Drawable(root)).Reply()
	if err != nil {
		x.Close()
		return nil, fmt.Errorf("xbind: couldn't get screen geometry: %w", err)
	}

	c := &Conn{
		X:            x,
		XU:           xu,
		Root:         root,
		ScreenWidth:  geom.Width,
		ScreenHeight: geom.Height,
	}

	if err := c.internWMAtoms(); err != nil {
		slog.Warn("xbind: WM_PROTOCOLS/WM_DELETE_WINDOW intern failed, polite close disabled", "error", err)
	}
	return c, nil
}

func (c *Conn) internWMAtoms() error {
	p, err := xproto.InternAtom(c.X, true, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return err
	}
	d, err := xproto.InternAtom(c.X, true, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return err
	}
	c.protocolsAtom = p.Atom
	c.deleteAtom = d.Atom
	return nil
}

// Disconnect releases the X connection. Named apart from the core.Driver
// Close(core.Window) below - Go has no method overloading.
func (c *Conn) Disconnect() {
	if c.X != nil {
		c.X.Close()
	}
}

// BecomeWM takes substructure redirect+notify on the root, failing loudly
// if another window manager already holds it.
func (c *Conn) BecomeWM() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.X, c.Root, xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)},
	).Check()
	if err != nil {
		return fmt.Errorf("xbind: another window manager is already running: %w", err)
	}
	return nil
}

// Cleanup politely closes every remaining top-level window, clears the
// event mask BecomeWM put on the root, and releases every key grab,
// matching cleanup() in original_source/howm.c.
func (c *Conn) Cleanup() {
	q, err := xproto.QueryTree(c.X, c.Root).Reply()
	if err == nil {
		for _, w := range q.Children {
			c.Close(core.Window(w))
		}
	}
	xproto.ChangeWindowAttributes(c.X, c.Root, xproto.CwEventMask, []uint32{uint32(xproto.EventMaskNoEvent)})
	if err := c.UngrabAllKeys(); err != nil {
		slog.Warn("xbind: ungrab-all-keys during cleanup failed", "error", err)
	}
}

// --- core.Driver ---

// Map satisfies core.Driver.
func (c *Conn) Map(w core.Window) {
	xproto.MapWindow(c.X, xproto.Window(w))
}

// Unmap satisfies core.Driver.
func (c *Conn) Unmap(w core.Window) {
	xproto.UnmapWindow(c.X, xproto.Window(w))
}

// Close satisfies core.Driver: a polite WM_DELETE_WINDOW close when the
// window advertises support for it in WM_PROTOCOLS, else a forced destroy.
// Grounded on kill_client in original_source/howm.c.
func (c *Conn) Close(w core.Window) {
	win := xproto.Window(w)
	if c.supportsDelete(win) {
		if err := c.sendDelete(win); err == nil {
			return
		}
	}
	xproto.DestroyWindow(c.X, win)
}

func (c *Conn) supportsDelete(win xproto.Window) bool {
	if c.protocolsAtom == 0 {
		return false
	}
	protos, err := icccm.WmProtocolsGet(c.xu(), win)
	if err != nil {
		return false
	}
	for _, p := range protos {
		if p == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}

func (c *Conn) sendDelete(win xproto.Window) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   c.protocolsAtom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(c.deleteAtom), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	return xproto.SendEventChecked(c.X, false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// xu exposes the xgbutil handle for packages (icccm, ewmh) that need it.
func (c *Conn) xu() *xgbutil.XUtil { return c.XU }

// RootWindow returns the root window as a core.Window, so callers that
// only depend on the wm.Display interface never import xproto directly.
func (c *Conn) RootWindow() core.Window { return core.Window(c.Root) }

// ScreenSize returns the root window's width and height.
func (c *Conn) ScreenSize() (width, height uint16) { return c.ScreenWidth, c.ScreenHeight }

// XUtil returns the xgbutil handle, for internal/ewmh.
func (c *Conn) XUtil() *xgbutil.XUtil { return c.XU }

// --- geometry / border ---

// ConfigureMoveResize sets a window's position, size and border width in
// one request.
func (c *Conn) ConfigureMoveResize(w core.Window, x, y int16, width, height, border uint16) {
	xproto.ConfigureWindow(c.X, xproto.Window(w),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|
			xproto.ConfigWindowHeight|xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(uint16(x)), uint32(uint16(y)), uint32(width), uint32(height), uint32(border)},
	)
}

// ConfigureRaw honours an arbitrary value-mask, matching
// createChanges/OnConfigureRequest in moukhtar22-doWM/wm/window_manager.go
// and configure_event in original_source/handler.c.
func (c *Conn) ConfigureRaw(w xproto.Window, mask uint16, values []uint32) {
	xproto.ConfigureWindow(c.X, w, mask, values)
}

// SetBorderWidth configures only the border width of w.
func (c *Conn) SetBorderWidth(w core.Window, width uint16) {
	xproto.ConfigureWindow(c.X, xproto.Window(w), xproto.ConfigWindowBorderWidth, []uint32{uint32(width)})
}

// SetBorderColor changes a window's border pixel, grounded on
// OnEnterNotify/OnLeaveNotify's ChangeWindowAttributes calls in
// moukhtar22-doWM/wm/window_manager.go.
func (c *Conn) SetBorderColor(w core.Window, pixel uint32) {
	xproto.ChangeWindowAttributes(c.X, xproto.Window(w), xproto.CwBorderPixel, []uint32{pixel})
}

// GetGeometry fetches a window's current geometry.
func (c *Conn) GetGeometry(w core.Window) (x, y int16, width, height uint16, err error) {
	g, err := xproto.GetGeometry(c.X, xproto.Drawable(w)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return g.X, g.Y, g.Width, g.Height, nil
}

// WaitForEvent blocks for the next X event, matching the X-fd half of the
// event multiplexer's wait set in spec.md §4.6. Grounded on
// wm.conn.PollForEvent()'s (event, err) signature in
// moukhtar22-doWM/wm/window_manager.go.
func (c *Conn) WaitForEvent() (xgb.Event, error) {
	return c.X.WaitForEvent()
}

// PollForEvent returns one already-queued event without blocking. The
// multiplexer does not call it: it drains the channel its event pump fills
// instead (see wm.Multiplexer.drainX).
func (c *Conn) PollForEvent() (xgb.Event, error) {
	return c.X.PollForEvent()
}

// Flush ensures queued requests reach the server, matching the
// multiplexer's "flush the X connection after each wake" rule in
// spec.md §4.6.
func (c *Conn) Flush() {
	// xgb auto-flushes on Reply()-backed requests; unchecked/void
	// requests are flushed by the next checked call or WaitForEvent.
	// NoOperation is the idiomatic xgb no-op used purely to force a
	// round trip when callers have issued only unchecked requests.
	xproto.NoOperation(c.X)
}

// --- ICCCM reads ---

// WMClass returns a window's instance and class name for rule matching,
// grounded on apply_rules in original_source/howm.c.
func (c *Conn) WMClass(w xproto.Window) (instance, class string, err error) {
	wc, err := icccm.WmClassGet(c.xu(), w)
	if err != nil {
		return "", "", err
	}
	return wc.Instance, wc.Class, nil
}

// TransientFor reports whether w declares WM_TRANSIENT_FOR.
func (c *Conn) TransientFor(w xproto.Window) (xproto.Window, bool) {
	t, err := icccm.WmTransientForGet(c.xu(), w)
	if err != nil || t == 0 {
		return 0, false
	}
	return t, true
}

// AtomName resolves an atom to its string name, used to decode
// _NET_WM_STATE client messages in the event multiplexer.
func (c *Conn) AtomName(a xproto.Atom) (string, error) {
	r, err := xproto.GetAtomName(c.X, a).Reply()
	if err != nil {
		return "", err
	}
	return r.Name, nil
}

// WindowAttributes reports whether w is override-redirect, used to ignore
// map-requests from windows that manage themselves.
func (c *Conn) WindowAttributes(w xproto.Window) (overrideRedirect bool, err error) {
	r, err := xproto.GetWindowAttributes(c.X, w).Reply()
	if err != nil {
		return false, err
	}
	return r.OverrideRedirect, nil
}

// WindowTypeAtoms fetches a window's _NET_WM_WINDOW_TYPE atom names, for
// the multiplexer's map-request classification.
func (c *Conn) WindowTypeAtoms(w xproto.Window) ([]string, error) {
	return ewmh.WindowTypeAtoms(c.xu(), w)
}
