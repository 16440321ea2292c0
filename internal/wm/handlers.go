package wm

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/nuclearfall/howm/internal/core"
	"github.com/nuclearfall/howm/internal/ewmh"
	"github.com/nuclearfall/howm/internal/fsa"
	"github.com/nuclearfall/howm/internal/rules"
)

// onMapRequest creates and places a client for a newly mapped top-level
// window, matching the map-request handler in spec.md §4.6 and map_event
// in original_source/howm.c.
func (m *Multiplexer) onMapRequest(e xproto.MapRequestEvent) {
	if or, err := m.Conn.WindowAttributes(e.Window); err == nil && or {
		return
	}
	if m.State.FindClientByWindow(core.Window(e.Window)) != nil {
		return
	}

	c := &core.Client{Win: core.Window(e.Window)}

	if atoms, err := m.Conn.WindowTypeAtoms(e.Window); err == nil {
		switch ewmh.ClassifyWindowType(atoms) {
		case ewmh.TypeUnmanaged:
			return
		case ewmh.TypeFloatingHint:
			c.Floating = true
		}
	}

	if _, transient := m.Conn.TransientFor(e.Window); transient {
		c.Transient = true
		c.Floating = true
	}

	x, y, w, h, err := m.Conn.GetGeometry(core.Window(e.Window))
	if err != nil || w == 0 || h == 0 {
		w, h = m.Cfg.SpawnWidth, m.Cfg.SpawnHeight
		x, y = 0, 0
	}
	c.X, c.Y, c.W, c.H = x, y, w, h
	if c.Floating && m.Cfg.CenterFloat {
		screenW, screenH := m.Conn.ScreenSize()
		c.X = int16(screenW)/2 - int16(c.W)/2
		c.Y = (int16(screenH) - int16(m.State.CurrentWS().BarHeight) - int16(c.H)) / 2
	}

	ws := m.State.CurrentWS()
	destWS := 0
	follow := false
	if instance, class, err := m.Conn.WMClass(e.Window); err == nil {
		if r, ok := rules.Match(m.Rules, instance, class); ok {
			rules.Apply(c, r)
			destWS = r.Workspace
			follow = r.Follow
		}
	}
	c.Gap = ws.Gap

	ws.Append(c)
	ws.Current = c
	if destWS != 0 {
		m.State.MoveClientToWorkspace(c, destWS, follow, m.Conn, m.EWMH)
	}

	m.Conn.Map(c.Win)
	m.Conn.GrabButtons(e.Window, 0)
	m.arrangeAndDraw()
	m.focus(c)
}

// onUnmanage removes a client on destroy or unmap, matching "unlink the
// client, re-arrange" in spec.md §4.6.
func (m *Multiplexer) onUnmanage(win xproto.Window) {
	c := m.State.FindClientByWindow(core.Window(win))
	if c == nil {
		return
	}
	for i := 1; i < len(m.State.Workspaces); i++ {
		ws := m.State.Workspaces[i]
		if !ws.Unlink(c) {
			continue
		}
		refocusAfterUnlink(ws)
		if ws == m.State.CurrentWS() {
			m.arrangeAndDraw()
			if ws.Current != nil {
				m.focus(ws.Current)
			}
		}
		return
	}
}

// onEnterNotify focuses the entered window when focus-follows-mouse is
// enabled and the layout isn't zoom, matching enter_event in
// original_source/howm.c.
func (m *Multiplexer) onEnterNotify(e xproto.EnterNotifyEvent) {
	if !m.focusFollowsMouse || m.State.CurrentWS().Layout == core.Zoom {
		return
	}
	if c := m.State.FindClientByWindow(core.Window(e.Event)); c != nil {
		m.focus(c)
	}
}

// onButtonPress focuses the clicked window when focus-on-click is enabled.
func (m *Multiplexer) onButtonPress(e xproto.ButtonPressEvent) {
	if !m.focusOnClick || e.Detail != xproto.ButtonIndex1 {
		return
	}
	if c := m.State.FindClientByWindow(core.Window(e.Event)); c != nil {
		m.focus(c)
	}
}

// onConfigureRequest honours every requested value-mask bit, clamping
// width/height to the screen and adjusting y for a top bar, matching
// configure_event in original_source/handler.c.
func (m *Multiplexer) onConfigureRequest(e xproto.ConfigureRequestEvent) {
	var mask uint16
	var values []uint32

	screenW, screenH := m.Conn.ScreenSize()
	x, y, w, h := e.X, e.Y, e.Width, e.Height
	if e.ValueMask&xproto.ConfigWindowWidth != 0 && w > screenW {
		w = screenW - 2*uint16(m.Cfg.BorderWidth)
	}
	if e.ValueMask&xproto.ConfigWindowHeight != 0 && h > screenH {
		h = screenH - 2*uint16(m.Cfg.BorderWidth)
	}
	if e.ValueMask&xproto.ConfigWindowY != 0 && !m.Cfg.BarBottom {
		y += int16(m.State.CurrentWS().BarHeight)
	}

	if e.ValueMask&xproto.ConfigWindowX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(uint16(x)))
	}
	if e.ValueMask&xproto.ConfigWindowY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(uint16(y)))
	}
	if e.ValueMask&xproto.ConfigWindowWidth != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(w))
	}
	if e.ValueMask&xproto.ConfigWindowHeight != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(h))
	}
	if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(e.BorderWidth))
	}
	if e.ValueMask&xproto.ConfigWindowSibling != 0 {
		mask |= xproto.ConfigWindowSibling
		values = append(values, uint32(e.Sibling))
	}
	if e.ValueMask&xproto.ConfigWindowStackMode != 0 {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(e.StackMode))
	}

	m.Conn.ConfigureRaw(e.Window, mask, values)
}

// onClientMessage handles _NET_WM_STATE, _NET_CLOSE_WINDOW,
// _NET_ACTIVE_WINDOW and _NET_CURRENT_DESKTOP, matching client_message in
// original_source/howm.c.
func (m *Multiplexer) onClientMessage(e xproto.ClientMessageEvent) {
	name, err := m.Conn.AtomName(e.Type)
	if err != nil {
		return
	}

	data := e.Data.Data32

	switch name {
	case "_NET_WM_STATE":
		c := m.State.FindClientByWindow(core.Window(e.Window))
		if c == nil || len(data) < 2 {
			return
		}
		action := ewmh.WindowTypeAction(data[0])
		for _, raw := range data[1:3] {
			if raw == 0 {
				continue
			}
			atomName, err := m.Conn.AtomName(xproto.Atom(raw))
			if err != nil {
				continue
			}
			if !ewmh.ApplyStateAction(c, atomName, action) {
				slog.Debug("wm: unhandled wm-state atom", "atom", atomName)
				continue
			}
			m.EWMH.SetFullscreenState(c.Win, c.Fullscreen)
		}
		m.arrangeAndDraw()
	case "_NET_CLOSE_WINDOW":
		if c := m.State.FindClientByWindow(core.Window(e.Window)); c != nil {
			m.Conn.Close(c.Win)
		}
	case "_NET_ACTIVE_WINDOW":
		if c := m.State.FindClientByWindow(core.Window(e.Window)); c != nil {
			m.focus(c)
		}
	case "_NET_CURRENT_DESKTOP":
		if len(data) < 1 {
			return
		}
		m.State.Switch(int(data[0])+1, m.Conn, m.EWMH)
		m.arrangeAndDraw()
	}
}

// onKeyPress translates a raw keycode into a cleaned (keysym, mod) pair and
// feeds it through the input FSA, matching key_press_event in
// original_source/handler.c.
func (m *Multiplexer) onKeyPress(e xproto.KeyPressEvent) {
	sym := m.Conn.KeycodeToKeysym(e.Detail)
	m.FSA.HandleKey(fsa.KeyEvent{Sym: sym, Mod: m.Conn.CleanMask(e.State)})
	m.emitStatus()
}
