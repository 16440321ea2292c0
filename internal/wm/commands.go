package wm

import (
	"log/slog"
	"os/exec"
	"syscall"

	"github.com/nuclearfall/howm/internal/core"
)

// FocusNextClient moves focus to the next client in list order, wrapping to
// head, matching focus_next_client in original_source/howm.c.
func (m *Multiplexer) FocusNextClient() {
	ws := m.State.CurrentWS()
	if ws.Current == nil || ws.Head.Next == nil {
		return
	}
	next := ws.Current.Next
	if next == nil {
		next = ws.Head
	}
	m.focus(next)
}

// FocusPrevClient moves focus to the predecessor of the current client,
// matching focus_prev_client in original_source/howm.c.
func (m *Multiplexer) FocusPrevClient() {
	ws := m.State.CurrentWS()
	if ws.Current == nil || ws.Head.Next == nil {
		return
	}
	ws.PrevFoc = ws.Current
	if prev := core.Predecessor(ws.Head, ws.PrevFoc); prev != nil {
		m.focus(prev)
	}
}

// ChangeWorkspace switches the viewed workspace and refocuses its current
// client, matching change_ws in original_source/howm.c.
func (m *Multiplexer) ChangeWorkspace(i int) {
	if err := m.State.Switch(i, m.Conn, m.EWMH); err != nil {
		slog.Warn("wm: workspace switch failed", "error", err)
		return
	}
	m.arrangeAndDraw()
	if c := m.State.CurrentWS().Current; c != nil {
		m.setBorderColor(c)
	}
	m.emitStatus()
}

// FocusNextWorkspace and FocusPrevWorkspace cycle the viewed workspace,
// matching focus_next_ws/focus_prev_ws.
func (m *Multiplexer) FocusNextWorkspace() {
	m.ChangeWorkspace(m.State.CorrectWS(m.State.Current + 1))
}

func (m *Multiplexer) FocusPrevWorkspace() {
	m.ChangeWorkspace(m.State.CorrectWS(m.State.Current - 1))
}

// FocusLastWorkspace returns to the previously-viewed workspace, matching
// focus_last_ws.
func (m *Multiplexer) FocusLastWorkspace() {
	m.ChangeWorkspace(m.State.LastWS)
}

// ChangeLayout sets the current workspace's layout, matching change_layout
// in original_source/howm.c.
func (m *Multiplexer) ChangeLayout(layout core.Layout) {
	ws := m.State.CurrentWS()
	if layout == ws.Layout || layout < core.Zoom || layout > core.Vstack {
		return
	}
	m.State.PrevLay = ws.Layout
	ws.Layout = layout
	m.arrangeAndDraw()
}

// NextLayout and PreviousLayout step through the four layouts in order,
// wrapping, matching next_layout/previous_layout.
func (m *Multiplexer) NextLayout() {
	ws := m.State.CurrentWS()
	m.ChangeLayout((ws.Layout + 1) % 4)
}

func (m *Multiplexer) PreviousLayout() {
	ws := m.State.CurrentWS()
	if ws.Layout < 1 {
		m.ChangeLayout(core.Vstack)
		return
	}
	m.ChangeLayout(ws.Layout - 1)
}

// LastLayout restores the workspace's previously active layout, matching
// last_layout.
func (m *Multiplexer) LastLayout() {
	m.ChangeLayout(m.State.PrevLay)
}

// ChangeMode sets the active input mode, matching change_mode in
// original_source/howm.c.
func (m *Multiplexer) ChangeMode(mode core.Mode) {
	if mode == m.FSA.Mode || mode < core.Normal || mode > core.Floating {
		return
	}
	m.FSA.Mode = mode
	m.emitStatus()
}

// ToggleFloating flips the current client's floating bit, centring it when
// configured, matching toggle_float in original_source/howm.c.
func (m *Multiplexer) ToggleFloating() {
	c := m.State.CurrentWS().Current
	if c == nil {
		return
	}
	c.Floating = !c.Floating
	if c.Floating && m.Cfg.CenterFloat {
		screenW, screenH := m.Conn.ScreenSize()
		c.X = int16(screenW)/2 - int16(c.W)/2
		c.Y = (int16(screenH) - int16(m.State.CurrentWS().BarHeight) - int16(c.H)) / 2
	}
	m.arrangeAndDraw()
}

// ToggleFullscreen flips the current client's fullscreen bit and
// propagates it over EWMH, matching toggle_fullscreen in
// original_source/howm.c.
func (m *Multiplexer) ToggleFullscreen() {
	c := m.State.CurrentWS().Current
	if c == nil {
		return
	}
	c.Fullscreen = !c.Fullscreen
	m.EWMH.SetFullscreenState(c.Win, c.Fullscreen)
	m.arrangeAndDraw()
}

// Spawn execs argv as a detached subprocess, matching spawn's
// fork+setsid+execvp in original_source/howm.c - the Go equivalent of
// fork/exec-without-waiting is os/exec with Setsid in SysProcAttr.
func (m *Multiplexer) Spawn(argv []string) {
	if len(argv) == 0 {
		return
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		slog.Warn("wm: spawn failed", "argv", argv, "error", err)
		return
	}
	go cmd.Wait()
}

// Replay re-invokes the last command or operator triple, matching replay
// in original_source/howm.c.
func (m *Multiplexer) Replay() {
	m.State.Replay.Invoke()
}

// Paste pops the top delete-register segment onto the current workspace,
// matching paste in original_source/howm.c.
func (m *Multiplexer) Paste() {
	if err := m.State.Paste(m.Conn); err != nil {
		slog.Warn("wm: paste failed", "error", err)
		return
	}
	m.arrangeAndDraw()
	if c := m.State.CurrentWS().Current; c != nil {
		m.focus(c)
	}
}

// CutOperator is the op_cut operator: cuts cnt clients or workspaces into
// the delete register, matching op_cut in original_source/howm.c.
func (m *Multiplexer) CutOperator(t core.MotionType, cnt int) {
	if err := m.State.Cut(t, cnt, m.Conn); err != nil {
		slog.Warn("wm: cut failed", "error", err)
		return
	}
	m.arrangeAndDraw()
}

// KillOperator is the op_kill operator: kills cnt clients (on the current
// workspace) or cnt workspaces starting at the current one, matching
// op_kill in original_source/howm.c.
func (m *Multiplexer) KillOperator(t core.MotionType, cnt int) {
	switch t {
	case core.MotionClient:
		ws := m.State.CurrentWS()
		for i := 0; i < cnt && ws.Current != nil; i++ {
			_ = m.State.KillCurrent(m.State.Current, m.Conn)
			refocusAfterUnlink(ws)
		}
	case core.MotionWorkspace:
		for i := 0; i < cnt; i++ {
			idx := m.State.CorrectWS(m.State.Current + i)
			ws, err := m.State.WS(idx)
			if err != nil {
				continue
			}
			for ws.Current != nil || ws.Head != nil {
				if ws.Current == nil {
					ws.Current = ws.Head
				}
				_ = m.State.KillCurrent(idx, m.Conn)
				refocusAfterUnlink(ws)
			}
		}
	}
	m.arrangeAndDraw()
	if c := m.State.CurrentWS().Current; c != nil {
		m.focus(c)
	}
}

// refocusAfterUnlink restores ws.Current to PrevFoc, falling back to Head,
// whenever an unlink has just cleared it - matching
// `wss[w].current = wss[w].prev_foc ? wss[w].prev_foc : wss[w].head` in
// remove_client, original_source/howm.c.
func refocusAfterUnlink(ws *core.Workspace) {
	if ws.Current != nil {
		return
	}
	if ws.PrevFoc != nil {
		ws.Current = ws.PrevFoc
	} else {
		ws.Current = ws.Head
	}
}
