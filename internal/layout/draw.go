package layout

import "github.com/nuclearfall/howm/internal/core"

// Placement is what the draw pass hands to the X facade for one client:
// final geometry plus the border width to apply.
type Placement struct {
	Geometry
	Border uint16
}

// clampGap saturates a negative configured gap at zero and forces a
// fullscreen client's gap to zero, per spec.md §4.3's numeric semantics.
func clampGap(c *core.Client) uint16 {
	if c.Fullscreen {
		return 0
	}
	if int16(c.Gap) < 0 {
		return 0
	}
	return c.Gap
}

// Draw applies the drawing policy to every client's computed rectangle:
//   - zoom without zoom-gap (or a fullscreen client): zero border, full rect.
//   - floating: configured border, the client's own stored geometry.
//   - otherwise: inset by gap and doubly by border width (gap around the
//     border), bordered at borderPx.
//
// Grounded on draw_clients() in original_source/howm.c.
func Draw(l core.Layout, rects map[*core.Client]Geometry, head *core.Client, zoomGap bool, borderPx uint16) map[*core.Client]Placement {
	out := map[*core.Client]Placement{}
	for c := head; c != nil; c = c.Next {
		switch {
		case l == core.Zoom && zoomGap && !c.Floating:
			g, ok := rects[c]
			if !ok {
				continue
			}
			gap := clampGap(c)
			out[c] = Placement{
				Geometry: Geometry{
					X: g.X + int16(gap),
					Y: g.Y + int16(gap),
					W: subClamp(g.W, 2*gap),
					H: subClamp(g.H, 2*gap),
				},
				Border: 0,
			}
		case c.Floating:
			out[c] = Placement{
				Geometry: Geometry{X: c.X, Y: c.Y, W: c.W, H: c.H},
				Border:   borderPx,
			}
		case c.Fullscreen || l == core.Zoom:
			g, ok := rects[c]
			if !ok {
				g = Geometry{X: c.X, Y: c.Y, W: c.W, H: c.H}
			}
			out[c] = Placement{Geometry: g, Border: 0}
		default:
			g, ok := rects[c]
			if !ok {
				continue
			}
			gap := clampGap(c)
			inset := gap + borderPx
			out[c] = Placement{
				Geometry: Geometry{
					X: g.X + int16(gap),
					Y: g.Y + int16(gap),
					W: subClamp(g.W, 2*inset),
					H: subClamp(g.H, 2*inset),
				},
				Border: borderPx,
			}
		}
	}
	return out
}

func subClamp(v, d uint16) uint16 {
	if d >= v {
		return 0
	}
	return v - d
}
