package core

// Driver is the minimal window-side-effect surface the workspace
// operations need. xbind.Conn implements it; core stays free of any X11
// dependency so it can be tested headless.
type Driver interface {
	Map(w Window)
	Unmap(w Window)
	// Close attempts a polite WM_DELETE_WINDOW close, falling back to a
	// forced destroy if the window doesn't advertise support for it.
	Close(w Window)
}

// EWMHSync is the subset of EWMH propagation the workspace operations
// trigger. internal/ewmh.Sync implements it.
type EWMHSync interface {
	CurrentDesktop(ws int)
	Workarea(ws int, barHeight uint16)
	ActiveWindow(w Window)
}

// Switch changes the current workspace to i. A no-op if i is the current
// workspace or out of range, grounded on change_ws in
// original_source/howm.c.
func (s *State) Switch(i int, drv Driver, sync EWMHSync) error {
	if i == s.Current {
		return nil
	}
	target, err := s.WS(i)
	if err != nil {
		return nil // invalid workspace indices are ignored, per spec.md §7
	}

	for c := target.Head; c != nil; c = c.Next {
		drv.Map(c.Win)
	}
	for c := s.CurrentWS().Head; c != nil; c = c.Next {
		drv.Unmap(c.Win)
	}

	s.LastWS = s.Current
	s.Current = i

	if target.Current != nil {
		sync.ActiveWindow(target.Current.Win)
	}
	sync.CurrentDesktop(i)
	sync.Workarea(i, target.BarHeight)
	return nil
}

// MoveClientToWorkspace unlinks c from the current workspace and appends it
// to workspace j. If follow is true the view switches to j; otherwise c is
// unmapped and the predecessor of c (on the old workspace) is refocused.
// Grounded on client_to_ws/current_to_ws in original_source/howm.c.
func (s *State) MoveClientToWorkspace(c *Client, j int, follow bool, drv Driver, sync EWMHSync) error {
	cw := s.CurrentWS()
	target, err := s.WS(j)
	if err != nil {
		return nil
	}
	pred := Predecessor(cw.Head, c)
	if !cw.Unlink(c) {
		return nil
	}
	target.Append(c)
	target.Current = c

	if follow {
		return s.Switch(j, drv, sync)
	}
	drv.Unmap(c.Win)
	cw.Current = pred
	if cw.Current != nil {
		sync.ActiveWindow(cw.Current.Win)
	}
	return nil
}

// KillCurrent closes the current client on the given workspace (polite
// WM_DELETE_WINDOW if supported, else a forced destroy) and unlinks it. A
// no-op if the workspace has no current client, per spec.md §7's "kill
// attempts on empty workspaces are no-ops".
func (s *State) KillCurrent(ws int, drv Driver) error {
	w, err := s.WS(ws)
	if err != nil {
		return nil
	}
	c := w.Current
	if c == nil {
		return nil
	}
	drv.Close(c.Win)
	w.Unlink(c)
	return nil
}
