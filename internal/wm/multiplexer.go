// Package wm is the event multiplexer: it owns core.State and is the only
// goroutine that ever mutates it, reconciling X-server events and control
// socket requests exactly as spec.md §4.6/§5 describe. Grounded on the
// top-level run loop in moukhtar22-doWM/wm/window_manager.go, adapted from
// a single-goroutine type switch on xgb.Event into a two-source
// channel-fed loop, since Go has no direct equivalent of select(2) across
// an arbitrary X fd and a listening socket fd.
package wm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/nuclearfall/howm/internal/command"
	"github.com/nuclearfall/howm/internal/config"
	"github.com/nuclearfall/howm/internal/core"
	"github.com/nuclearfall/howm/internal/fsa"
	"github.com/nuclearfall/howm/internal/ipc"
	"github.com/nuclearfall/howm/internal/layout"
	"github.com/nuclearfall/howm/internal/rules"
)

// Display is the subset of xbind.Conn the multiplexer drives directly. It
// is kept as an interface, the same way core.Driver keeps internal/core
// free of X11, so handlers can be exercised with a fake in tests.
type Display interface {
	core.Driver

	RootWindow() core.Window
	ScreenSize() (width, height uint16)

	WindowAttributes(w xproto.Window) (overrideRedirect bool, err error)
	GetGeometry(w core.Window) (x, y int16, width, height uint16, err error)
	WMClass(w xproto.Window) (instance, class string, err error)
	TransientFor(w xproto.Window) (xproto.Window, bool)
	AtomName(a xproto.Atom) (string, error)
	WindowTypeAtoms(w xproto.Window) ([]string, error)

	CleanMask(mod uint16) uint16

	ConfigureMoveResize(w core.Window, x, y int16, width, height, border uint16)
	ConfigureRaw(w xproto.Window, mask uint16, values []uint32)
	SetBorderColor(w core.Window, pixel uint32)
	GrabButtons(w xproto.Window, mod uint16)

	KeycodeToKeysym(code xproto.Keycode) fsa.Keysym

	WaitForEvent() (xgb.Event, error)
	Flush()
}

// EWMHFull is core.EWMHSync plus the fullscreen-state propagation the
// multiplexer needs for _NET_WM_STATE client messages.
type EWMHFull interface {
	core.EWMHSync
	SetFullscreenState(w core.Window, fullscreen bool)
}

// Colors are the border pixels applied on focus change, grounded on
// OnEnterNotify/OnLeaveNotify in moukhtar22-doWM/wm/window_manager.go.
type Colors struct {
	Focused, Unfocused uint32
}

// Multiplexer wires every package together: the X connection, the IPC
// server, the command table, the input FSA, the rule engine and the
// managed-window model. It is the sole owner of State.
type Multiplexer struct {
	Conn Display
	EWMH EWMHFull
	IPC  *ipc.Server

	State    *core.State
	Commands command.Table
	FSA      *fsa.Machine
	Rules    []rules.Rule
	Scratch  rules.Scratchpad

	Cfg    *config.Config
	Colors Colors

	focusFollowsMouse bool
	focusOnClick      bool

	xEvents     chan xgb.Event
	xErrors     chan error
	ipcRequests chan ipc.Request
}

// New assembles a Multiplexer from its already-connected dependencies.
func New(conn Display, sync EWMHFull, srv *ipc.Server, st *core.State, cmds command.Table, m *fsa.Machine, cfg *config.Config) *Multiplexer {
	return &Multiplexer{
		Conn:              conn,
		EWMH:              sync,
		IPC:               srv,
		State:             st,
		Commands:          cmds,
		FSA:               m,
		Rules:             cfg.ToRules(),
		Cfg:               cfg,
		Colors:            Colors{Focused: 0xffaf00, Unfocused: 0x444444},
		focusFollowsMouse: true,
		focusOnClick:      true,
		xEvents:           make(chan xgb.Event, 64),
		xErrors:           make(chan error, 1),
		ipcRequests:       srv.Requests,
	}
}

// Run starts the X event pump and the IPC accept loop, then owns the core
// loop until ctx is cancelled or the X connection errors out, matching
// "any X-connection error terminates the loop" in spec.md §4.6.
func (m *Multiplexer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go m.pumpXEvents(ctx)
	go func() {
		if err := m.IPC.Serve(ctx); err != nil {
			slog.Error("wm: ipc server stopped", "error", err)
		}
	}()

	m.emitStatus()

	for m.State.Running {
		select {
		case <-ctx.Done():
			return nil
		case err := <-m.xErrors:
			return fmt.Errorf("wm: X connection error: %w", err)
		default:
		}

		// Socket-first tie-break: check for an already-queued IPC
		// request before blocking on the select below, matching
		// "when both fds are ready, socket is processed first" in
		// spec.md §5.
		select {
		case req := <-m.ipcRequests:
			m.handleIPC(req)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return nil
		case err := <-m.xErrors:
			return fmt.Errorf("wm: X connection error: %w", err)
		case req := <-m.ipcRequests:
			m.handleIPC(req)
		case ev := <-m.xEvents:
			m.handleX(ev)
			m.drainX()
		}
		m.Conn.Flush()
	}
	return nil
}

// drainX processes every X event already queued on the channel without
// blocking, matching "drain all pending events non-blocking" in spec.md
// §4.6.
func (m *Multiplexer) drainX() {
	for {
		select {
		case ev := <-m.xEvents:
			m.handleX(ev)
		default:
			return
		}
	}
}

func (m *Multiplexer) pumpXEvents(ctx context.Context) {
	for {
		ev, err := m.Conn.WaitForEvent()
		if err != nil {
			select {
			case m.xErrors <- err:
			case <-ctx.Done():
			}
			return
		}
		select {
		case m.xEvents <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (m *Multiplexer) handleIPC(req ipc.Request) {
	status := m.Commands.Dispatch(req.Argv)
	if status != command.StatusNone {
		slog.Warn("wm: ipc command rejected", "id", req.ID, "argv", req.Argv, "status", status)
	}
	select {
	case req.Reply <- status:
	default:
	}
	m.emitStatus()
}

func (m *Multiplexer) handleX(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		m.onMapRequest(e)
	case xproto.DestroyNotifyEvent:
		m.onUnmanage(e.Window)
	case xproto.UnmapNotifyEvent:
		// Treat a synthetic unmap delivered to the root as a no-op;
		// the naive `!e.Event == root` guard in the source is a
		// precedence bug (see spec.md §9's open question), so this
		// compares the event window to root directly instead.
		if core.Window(e.Event) == m.Conn.RootWindow() {
			return
		}
		m.onUnmanage(e.Window)
	case xproto.EnterNotifyEvent:
		m.onEnterNotify(e)
	case xproto.ButtonPressEvent:
		m.onButtonPress(e)
	case xproto.ConfigureRequestEvent:
		m.onConfigureRequest(e)
	case xproto.ClientMessageEvent:
		m.onClientMessage(e)
	case xproto.KeyPressEvent:
		m.onKeyPress(e)
	}
}

// arrangeAndDraw recomputes geometry for the current workspace's tiled
// clients and applies it through the driver, then sets per-client border
// colors, matching arrange_windows/draw_clients in original_source/howm.c.
func (m *Multiplexer) arrangeAndDraw() {
	ws := m.State.CurrentWS()
	screenW, screenH := m.Conn.ScreenSize()
	screen := layout.Screen{
		Width:     screenW,
		Height:    screenH,
		BarHeight: ws.BarHeight,
		BarBottom: m.Cfg.BarBottom,
	}
	rects := layout.Arrange(ws.Layout, ws.Head, screen, ws.MasterRatio)
	placements := layout.Draw(ws.Layout, rects, ws.Head, m.Cfg.ZoomGap, uint16(m.Cfg.BorderWidth))

	for c := ws.Head; c != nil; c = c.Next {
		p, ok := placements[c]
		if !ok {
			continue
		}
		c.X, c.Y, c.W, c.H = p.X, p.Y, p.W, p.H
		m.Conn.ConfigureMoveResize(c.Win, p.X, p.Y, p.W, p.H, p.Border)
		m.setBorderColor(c)
	}
}

func (m *Multiplexer) setBorderColor(c *core.Client) {
	if c == m.State.CurrentWS().Current {
		m.Conn.SetBorderColor(c.Win, m.Colors.Focused)
	} else {
		m.Conn.SetBorderColor(c.Win, m.Colors.Unfocused)
	}
}

// focus sets the workspace's current client, recolors borders and
// propagates _NET_ACTIVE_WINDOW, matching update_focused_client in
// original_source/howm.c.
func (m *Multiplexer) focus(c *core.Client) {
	ws := m.State.CurrentWS()
	if ws.Current != nil && ws.Current != c {
		m.setBorderColor(ws.Current)
	}
	ws.PrevFoc = ws.Current
	ws.Current = c
	if c != nil {
		m.setBorderColor(c)
		m.EWMH.ActiveWindow(c.Win)
	}
	m.emitStatus()
}
