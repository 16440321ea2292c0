// Package layout computes per-client rectangles for howm's four tiling
// layouts. Every function here is pure: it reads a client list and screen
// parameters and returns geometry, grounded on grid/zoom/stack in
// original_source/howm.c. Drawing (actually moving/resizing/bordering X
// windows) is the caller's job - see internal/wm.
package layout

import "github.com/nuclearfall/howm/internal/core"

// Geometry is a client rectangle, pre-gap and pre-border.
type Geometry struct {
	X, Y int16
	W, H uint16
}

// Screen describes the drawable area available to layouts.
type Screen struct {
	Width, Height uint16
	BarHeight     uint16
	BarBottom     bool
}

// drawableHeight returns the screen height minus the bar reservation.
func (s Screen) drawableHeight() uint16 {
	if s.Height < s.BarHeight {
		return 0
	}
	return s.Height - s.BarHeight
}

// drawableY returns the y origin of the drawable area - 0 when the bar is
// on the bottom, BarHeight when it's on top.
func (s Screen) drawableY() int16 {
	if s.BarBottom {
		return 0
	}
	return int16(s.BarHeight)
}

// Arrange computes rectangles for every non-FFT client in head, according
// to layout l. Clients that are floating, fullscreen or transient are
// skipped - their geometry belongs to the user or the fullscreen path.
// Arrange falls back to Zoom whenever there are 0 or 1 tilable clients,
// matching grid()/stack()'s "n <= 1" guard in original_source/howm.c.
func Arrange(l core.Layout, head *core.Client, screen Screen, masterRatio float64) map[*core.Client]Geometry {
	n := core.CountNonFFT(head)
	if n <= 1 {
		return zoom(head, screen)
	}
	switch l {
	case core.Grid:
		return grid(head, screen, n)
	case core.Hstack:
		return stack(head, screen, masterRatio, true)
	case core.Vstack:
		return stack(head, screen, masterRatio, false)
	default:
		return zoom(head, screen)
	}
}

// zoom gives every non-FFT client the full drawable rectangle. It is both
// the ZOOM layout itself and the fallback used by every other layout when
// there's nothing to arrange.
func zoom(head *core.Client, screen Screen) map[*core.Client]Geometry {
	out := map[*core.Client]Geometry{}
	g := Geometry{X: 0, Y: screen.drawableY(), W: screen.Width, H: screen.drawableHeight()}
	for c := head; c != nil; c = c.Next {
		if c.FFT() {
			continue
		}
		out[c] = g
	}
	return out
}

// grid arranges n non-FFT clients column-major, choosing the smallest cols
// such that cols*cols >= n; when the remaining columns can't hold n with
// the base row count, the last columns carry one extra row. Grounded on
// grid() in original_source/howm.c.
func grid(head *core.Client, screen Screen, n int) map[*core.Client]Geometry {
	out := map[*core.Client]Geometry{}

	cols := 1
	for cols*cols < n {
		cols++
	}
	rows := n / cols

	colW := screen.Width / uint16(cols)
	colH := screen.drawableHeight()
	clientY := screen.drawableY()

	i := -1
	colCnt, rowCnt := 0, 0
	for c := head; c != nil; c = c.Next {
		if c.FFT() {
			continue
		}
		i++

		effectiveRows := rows
		if cols-(n%cols) < (i/rows)+1 {
			effectiveRows = n/cols + 1
		}

		out[c] = Geometry{
			X: int16(colCnt) * int16(colW),
			Y: clientY + int16(rowCnt)*int16(colH/uint16(effectiveRows)),
			W: colW,
			H: colH / uint16(effectiveRows),
		}
		rowCnt++
		if rowCnt >= effectiveRows {
			rowCnt = 0
			colCnt++
		}
	}
	return out
}

// stack arranges one master client against a strip of stacked clients.
// When horizontal is false this is VSTACK (master left); when true it's
// HSTACK (master top). Grounded on stack() in original_source/howm.c.
func stack(head *core.Client, screen Screen, masterRatio float64, horizontal bool) map[*core.Client]Geometry {
	out := map[*core.Client]Geometry{}

	master := core.FirstNonFFT(head)
	if master == nil {
		return out
	}
	n := core.CountNonFFT(head)

	h := screen.drawableHeight()
	w := screen.Width
	clientY := screen.drawableY()

	var ms uint16
	if horizontal {
		ms = uint16(float64(h) * masterRatio)
	} else {
		ms = uint16(float64(w) * masterRatio)
	}

	span := h
	if horizontal {
		span = w
	}
	clientSpan := span / uint16(n-1)

	if !horizontal {
		out[master] = Geometry{X: 0, Y: clientY, W: ms, H: span}
	} else {
		out[master] = Geometry{X: 0, Y: clientY, W: span, H: ms}
	}

	var clientX int16
	var clientYCursor = clientY
	for c := master.Next; c != nil; c = c.Next {
		if c.FFT() {
			continue
		}
		if !horizontal {
			out[c] = Geometry{X: int16(ms), Y: clientYCursor, W: w - ms, H: clientSpan}
			clientYCursor += int16(clientSpan)
		} else {
			out[c] = Geometry{X: clientX, Y: int16(ms), W: clientSpan, H: h - ms}
			clientX += int16(clientSpan)
		}
	}
	return out
}
