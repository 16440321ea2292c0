// Package ewmh propagates focus/workspace/workarea state to the display
// server and answers window-type/state queries needed when a client maps.
// Grounded on setup_ewmh, ewmh_process_wm_state and the NET_WM_WINDOW_TYPE
// classification in map_event, all in original_source/howm.c. Built on
// github.com/BurntSushi/xgbutil/ewmh rather than hand-rolling atom
// bookkeeping, matching the xgbutil ecosystem the teacher is already
// wired into.
package ewmh

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	xewmh "github.com/BurntSushi/xgbutil/ewmh"

	"github.com/nuclearfall/howm/internal/core"
)

// WindowType classifies a mapped window by its _NET_WM_WINDOW_TYPE atoms,
// matching the switch in map_event (original_source/howm.c).
type WindowType int

const (
	TypeNormal WindowType = iota
	TypeFloatingHint
	TypeUnmanaged
)

// Sync wraps an xgbutil connection to provide EWMH propagation. It
// implements core.EWMHSync.
type Sync struct {
	xu *xgbutil.XUtil

	screenW, screenH uint16
	barBottom        bool
}

// New wraps an already-connected xgbutil handle.
func New(xu *xgbutil.XUtil) *Sync { return &Sync{xu: xu} }

// Setup advertises the supported atom list and the static desktop
// properties, matching setup_ewmh in original_source/howm.c. It also
// records the screen size and bar placement, needed later by Workarea
// to compute _NET_WORKAREA per workspace switch.
func (s *Sync) Setup(numDesktops int, screenW, screenH uint16, barBottom bool) {
	s.screenW, s.screenH, s.barBottom = screenW, screenH, barBottom
	supported := []string{
		"_NET_SUPPORTED", "_NET_ACTIVE_WINDOW", "_NET_CURRENT_DESKTOP",
		"_NET_NUMBER_OF_DESKTOPS", "_NET_DESKTOP_GEOMETRY", "_NET_DESKTOP_VIEWPORT",
		"_NET_WORKAREA", "_NET_WM_STATE", "_NET_WM_STATE_FULLSCREEN",
		"_NET_WM_WINDOW_TYPE", "_NET_CLOSE_WINDOW", "_NET_WM_NAME",
	}
	if err := xewmh.SupportedSet(s.xu, supported); err != nil {
		slog.Warn("ewmh: setting _NET_SUPPORTED failed", "error", err)
	}
	if err := xewmh.NumberOfDesktopsSet(s.xu, uint(numDesktops)); err != nil {
		slog.Warn("ewmh: setting _NET_NUMBER_OF_DESKTOPS failed", "error", err)
	}
	if err := xewmh.DesktopGeometrySet(s.xu, &xewmh.DesktopGeometry{Width: int(screenW), Height: int(screenH)}); err != nil {
		slog.Warn("ewmh: setting _NET_DESKTOP_GEOMETRY failed", "error", err)
	}
	viewports := make([]xewmh.DesktopViewport, numDesktops)
	if err := xewmh.DesktopViewportSet(s.xu, viewports); err != nil {
		slog.Warn("ewmh: setting _NET_DESKTOP_VIEWPORT failed", "error", err)
	}
	if err := xewmh.WmNameSet(s.xu, s.xu.RootWin(), "howm"); err != nil {
		slog.Warn("ewmh: setting _NET_WM_NAME failed", "error", err)
	}
}

// ActiveWindow propagates _NET_ACTIVE_WINDOW, called after every focus
// change per spec.md §4.9.
func (s *Sync) ActiveWindow(w core.Window) {
	if err := xewmh.ActiveWindowSet(s.xu, xproto.Window(w)); err != nil {
		slog.Warn("ewmh: setting _NET_ACTIVE_WINDOW failed", "error", err)
	}
}

// CurrentDesktop propagates _NET_CURRENT_DESKTOP on workspace switch.
func (s *Sync) CurrentDesktop(ws int) {
	if err := xewmh.CurrentDesktopSet(s.xu, uint(ws-1)); err != nil {
		slog.Warn("ewmh: setting _NET_CURRENT_DESKTOP failed", "error", err)
	}
}

// Workarea propagates _NET_WORKAREA - the drawable rectangle left after
// reserving barHeight pixels for the status bar on the workspace being
// switched to, matching the workarea half of setup_ewmh/change_ws in
// original_source/howm.c.
func (s *Sync) Workarea(ws int, barHeight uint16) {
	_ = ws
	y := barHeight
	if s.barBottom {
		y = 0
	}
	h := s.screenH
	if h >= barHeight {
		h -= barHeight
	}
	rects := []xewmh.Workarea{{X: 0, Y: int(y), Width: uint(s.screenW), Height: uint(h)}}
	if err := xewmh.WorkareaSet(s.xu, rects); err != nil {
		slog.Warn("ewmh: setting _NET_WORKAREA failed", "error", err)
	}
}

// SetFullscreenState sets or clears _NET_WM_STATE_FULLSCREEN on a window,
// matching the fullscreen arm of ewmh_process_wm_state.
func (s *Sync) SetFullscreenState(w core.Window, fullscreen bool) {
	var atoms []string
	if fullscreen {
		atoms = []string{"_NET_WM_STATE_FULLSCREEN"}
	}
	if err := xewmh.WmStateSet(s.xu, xproto.Window(w), atoms); err != nil {
		slog.Warn("ewmh: setting _NET_WM_STATE failed", "error", err)
	}
}

// WindowTypeAction is the decoded _NET_WM_STATE add/remove/toggle action,
// matching the _NET_WM_STATE_{ADD,REMOVE,TOGGLE} constants in
// original_source/howm.c.
type WindowTypeAction int

const (
	ActionRemove WindowTypeAction = 0
	ActionAdd    WindowTypeAction = 1
	ActionToggle WindowTypeAction = 2
)

// ApplyStateAction applies an add/remove/toggle action for one state atom
// to a client's Fullscreen or Urgent flag, matching
// ewmh_process_wm_state in original_source/howm.c. It reports whether the
// atom was recognised.
func ApplyStateAction(c *core.Client, atomName string, action WindowTypeAction) bool {
	var flag *bool
	switch atomName {
	case "_NET_WM_STATE_FULLSCREEN":
		flag = &c.Fullscreen
	case "_NET_WM_STATE_DEMANDS_ATTENTION":
		flag = &c.Urgent
	default:
		return false
	}
	switch action {
	case ActionAdd:
		*flag = true
	case ActionRemove:
		*flag = false
	case ActionToggle:
		*flag = !*flag
	}
	return true
}

// ClassifyWindowType maps the atoms on _NET_WM_WINDOW_TYPE to the spawn
// policy spec.md §6 describes: dock/toolbar are never managed,
// notification-ish types float on spawn, everything else tiles.
func ClassifyWindowType(atomNames []string) WindowType {
	for _, a := range atomNames {
		switch a {
		case "_NET_WM_WINDOW_TYPE_DOCK", "_NET_WM_WINDOW_TYPE_TOOLBAR":
			return TypeUnmanaged
		case "_NET_WM_WINDOW_TYPE_NOTIFICATION", "_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_POPUP_MENU",
			"_NET_WM_WINDOW_TYPE_TOOLTIP", "_NET_WM_WINDOW_TYPE_DIALOG":
			return TypeFloatingHint
		}
	}
	return TypeNormal
}

// WindowTypeAtoms fetches a window's _NET_WM_WINDOW_TYPE atom names.
func WindowTypeAtoms(xu *xgbutil.XUtil, w xproto.Window) ([]string, error) {
	return xewmh.WmWindowTypeGet(xu, w)
}
