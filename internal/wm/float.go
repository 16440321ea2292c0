package wm

import (
	"log/slog"

	"github.com/nuclearfall/howm/internal/core"
	"github.com/nuclearfall/howm/internal/rules"
)

// SendToScratchpad detaches the current client from its workspace into the
// single-slot scratchpad, matching send_to_scratchpad in
// original_source/howm.c.
func (m *Multiplexer) SendToScratchpad() {
	ws := m.State.CurrentWS()
	c := ws.Current
	if c == nil {
		return
	}
	if err := m.Scratch.Send(ws, c, m.Conn); err != nil {
		slog.Warn("wm: send to scratchpad refused", "error", err)
		return
	}
	ws.Current = ws.PrevFoc
	m.arrangeAndDraw()
}

// GetFromScratchpad restores the scratchpad's client as a floating window
// at the fixed central rectangle, matching get_from_scratchpad in
// original_source/howm.c.
func (m *Multiplexer) GetFromScratchpad() {
	screenW, screenH := m.Conn.ScreenSize()
	rect := rules.ScratchRect{
		X: int16(screenW) / 4, Y: int16(screenH) / 4,
		W: screenW / 2, H: screenH / 2,
	}
	if err := m.Scratch.Get(m.State.CurrentWS(), rect, m.Conn); err != nil {
		slog.Warn("wm: get from scratchpad failed", "error", err)
		return
	}
	m.focus(m.State.CurrentWS().Current)
	m.arrangeAndDraw()
}

// opGapSize is the per-invocation gap delta, matching OP_GAP_SIZE in
// original_source/howm.c.
const opGapSize = 2

// ResizeFloatWidth changes the current floating client's width by delta
// pixels, refusing to collapse it to zero or below, matching
// resize_float_width in original_source/howm.c.
func (m *Multiplexer) ResizeFloatWidth(delta int) {
	c := m.State.CurrentWS().Current
	if c == nil || !c.Floating || int(c.W)+delta <= 0 {
		return
	}
	c.W = uint16(int(c.W) + delta)
	m.arrangeAndDraw()
}

// ResizeFloatHeight changes the current floating client's height by delta
// pixels, matching resize_float_height.
func (m *Multiplexer) ResizeFloatHeight(delta int) {
	c := m.State.CurrentWS().Current
	if c == nil || !c.Floating || int(c.H)+delta <= 0 {
		return
	}
	c.H = uint16(int(c.H) + delta)
	m.arrangeAndDraw()
}

// MoveFloatX shifts the current floating client's x coordinate by delta
// pixels, matching move_float_x.
func (m *Multiplexer) MoveFloatX(delta int) {
	c := m.State.CurrentWS().Current
	if c == nil || !c.Floating {
		return
	}
	c.X = int16(int(c.X) + delta)
	m.arrangeAndDraw()
}

// MoveFloatY shifts the current floating client's y coordinate by delta
// pixels, matching move_float_y.
func (m *Multiplexer) MoveFloatY(delta int) {
	c := m.State.CurrentWS().Current
	if c == nil || !c.Floating {
		return
	}
	c.Y = int16(int(c.Y) + delta)
	m.arrangeAndDraw()
}

// TeleportAnchor is one of the seven screen anchor points teleport_client
// snaps a floating client to, matching `enum position` in
// original_source/howm.c.
type TeleportAnchor int

const (
	TopLeft TeleportAnchor = iota
	TopCenter
	TopRight
	Center
	BottomLeft
	BottomCenter
	BottomRight
)

// TeleportClient snaps the current floating, non-transient client to one
// of seven screen anchor points, matching teleport_client in
// original_source/howm.c.
func (m *Multiplexer) TeleportClient(anchor TeleportAnchor) {
	c := m.State.CurrentWS().Current
	if c == nil || !c.Floating || c.Transient {
		return
	}

	g := int16(c.Gap)
	w, h := int16(c.W), int16(c.H)
	border := int16(2 * m.Cfg.BorderWidth)
	bh := int16(m.State.CurrentWS().BarHeight)
	screenW, screenH := m.Conn.ScreenSize()
	sw, sh := int16(screenW), int16(screenH)

	topY := g
	if !m.Cfg.BarBottom {
		topY += bh
	}
	bottomY := sh - h - g - border
	if m.Cfg.BarBottom {
		bottomY = sh - bh - h - g - border
	}

	switch anchor {
	case TopLeft:
		c.X, c.Y = g, topY
	case TopCenter:
		c.X, c.Y = (sw-w)/2, topY
	case TopRight:
		c.X, c.Y = sw-w-g-border, topY
	case Center:
		c.X, c.Y = (sw-w)/2, (sh-bh-h)/2
	case BottomLeft:
		c.X, c.Y = g, bottomY
	case BottomCenter:
		c.X, c.Y = (sw-w)/2, bottomY
	case BottomRight:
		c.X, c.Y = sw-w-g-border, bottomY
	}
	m.arrangeAndDraw()
}

// MakeMaster promotes the current client to the head of the list by
// repeated swap-up, only meaningful in hstack/vstack, matching make_master
// in original_source/howm.c.
func (m *Multiplexer) MakeMaster() {
	ws := m.State.CurrentWS()
	c := ws.Current
	if c == nil || ws.Head == nil || ws.Head.Next == nil || ws.Head == c {
		return
	}
	if ws.Layout != core.Hstack && ws.Layout != core.Vstack {
		return
	}
	if ok := ws.Unlink(c); !ok {
		return
	}
	c.Next = ws.Head
	ws.Head = c
	ws.ClientCnt++
	ws.Current = c
	m.arrangeAndDraw()
	m.focus(c)
}

// FocusUrgent scans every workspace for a client with the urgent hint set
// and switches to it, matching focus_urgent in original_source/howm.c.
func (m *Multiplexer) FocusUrgent() {
	for i := 1; i < len(m.State.Workspaces); i++ {
		for c := m.State.Workspaces[i].Head; c != nil; c = c.Next {
			if c.Urgent {
				m.State.Switch(i, m.Conn, m.EWMH)
				m.arrangeAndDraw()
				m.focus(c)
				return
			}
		}
	}
}

// GrowGaps increases the gap of cnt clients or workspaces by opGapSize,
// matching op_grow_gaps.
func (m *Multiplexer) GrowGaps(t core.MotionType, cnt int) {
	m.changeGaps(t, cnt, opGapSize)
}

// ShrinkGaps decreases the gap of cnt clients or workspaces by opGapSize,
// matching op_shrink_gaps.
func (m *Multiplexer) ShrinkGaps(t core.MotionType, cnt int) {
	m.changeGaps(t, cnt, -opGapSize)
}

func (m *Multiplexer) changeGaps(t core.MotionType, cnt int, size int) {
	switch t {
	case core.MotionWorkspace:
		for i := 0; i < cnt; i++ {
			ws := m.State.Workspaces[m.State.CorrectWS(m.State.Current+i)]
			ws.Gap = addGap(ws.Gap, size)
			for c := ws.Head; c != nil; c = c.Next {
				changeClientGap(c, size)
			}
		}
	case core.MotionClient:
		c := m.State.CurrentWS().Current
		for i := 0; i < cnt && c != nil; i++ {
			changeClientGap(c, size)
			c = core.NextWrap(m.State.CurrentWS().Head, c)
		}
	}
	m.arrangeAndDraw()
}

func addGap(gap uint16, size int) uint16 {
	if int(gap)+size <= 0 {
		return 0
	}
	return uint16(int(gap) + size)
}

func changeClientGap(c *core.Client, size int) {
	if c.Fullscreen {
		return
	}
	c.Gap = addGap(c.Gap, size)
}

// QuitHowm sets the running flag false and records the exit code, matching
// quit_howm in original_source/howm.c.
func (m *Multiplexer) QuitHowm(code int) {
	m.State.Running = false
	m.State.ExitCode = code
}

// RestartHowm sets the running flag false and the restart flag true; the
// restart exec mechanism itself is out of scope per spec.md §1.
func (m *Multiplexer) RestartHowm() {
	m.State.Running = false
	m.State.Restart = true
}
