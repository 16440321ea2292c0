// Package rules applies class-based spawn rules to newly created clients
// and implements the single-slot scratchpad. Grounded on apply_rules,
// send_to_scratchpad and get_from_scratchpad in original_source/howm.c.
package rules

import (
	"fmt"
	"strings"

	"github.com/nuclearfall/howm/internal/core"
)

// Rule is one (class-substring, workspace, follow, floating, fullscreen)
// row, matching struct Rule in original_source/howm.c. Workspace 0 means
// "the current workspace" - apply the rule's float/fullscreen bits without
// moving the client.
type Rule struct {
	Class      string
	Workspace  int
	Follow     bool
	Floating   bool
	Fullscreen bool
}

// Match finds the first rule whose Class substring occurs in either the
// instance or class half of a WM_CLASS property, mirroring apply_rules'
// strstr(wc.instance_name, ...) || strstr(wc.class_name, ...) scan.
func Match(rules []Rule, instance, class string) (Rule, bool) {
	for _, r := range rules {
		if strings.Contains(instance, r.Class) || strings.Contains(class, r.Class) {
			return r, true
		}
	}
	return Rule{}, false
}

// Apply sets c's floating and fullscreen flags from the matched rule. It
// does not move c; the destination workspace is r.Workspace (0 meaning
// "stay put").
func Apply(c *core.Client, r Rule) {
	c.Floating = c.Floating || r.Floating
	c.Fullscreen = c.Fullscreen || r.Fullscreen
}

// Scratchpad holds at most one detached client. send-to-scratchpad is
// refused if the slot is already occupied, matching send_to_scratchpad's
// early return when scratchpad is non-NULL.
type Scratchpad struct {
	client *core.Client
}

// Send detaches c from the given workspace and stores it, unmapping its
// window. Refused if the slot is occupied.
func (s *Scratchpad) Send(ws *core.Workspace, c *core.Client, drv core.Driver) error {
	if s.client != nil {
		return fmt.Errorf("scratchpad: already occupied")
	}
	if !ws.Unlink(c) {
		return fmt.Errorf("scratchpad: client not found on workspace")
	}
	drv.Unmap(c.Win)
	s.client = c
	return nil
}

// ScratchRect is the fixed central rectangle the scratchpad client is
// restored to, matching get_from_scratchpad's hard-coded placement.
type ScratchRect struct {
	X, Y int16
	W, H uint16
}

// Get attaches the stored client as floating to the tail of ws at rect and
// maps it. A no-op (returning an error) if the slot is empty.
func (s *Scratchpad) Get(ws *core.Workspace, rect ScratchRect, drv core.Driver) error {
	if s.client == nil {
		return fmt.Errorf("scratchpad: empty")
	}
	c := s.client
	c.Floating = true
	c.X, c.Y, c.W, c.H = rect.X, rect.Y, rect.W, rect.H
	ws.Append(c)
	ws.Current = c
	drv.Map(c.Win)
	s.client = nil
	return nil
}

// Occupied reports whether the scratchpad currently holds a client.
func (s *Scratchpad) Occupied() bool { return s.client != nil }
