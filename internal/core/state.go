package core

import (
	"errors"
	"fmt"
)

// DefaultWorkspaceCount is N from spec.md §3 - the compile-time workspace
// count. It is a var, not a const, so tests can shrink it.
var DefaultWorkspaceCount = 5

// ErrNoSuchWorkspace is returned by operations given an out-of-range
// workspace index.
var ErrNoSuchWorkspace = errors.New("workspace index out of range")

// State is the single source of truth for the managed-window model: the
// array of workspaces, the current-workspace cursor, the scratchpad and the
// delete register. All handlers mutate the model through it, collecting
// the source's module-level globals into one object per DESIGN NOTES §9.
type State struct {
	Workspaces []*Workspace // 1-indexed: Workspaces[0] is unused, matches wss[1..N]

	Current  int // cw
	LastWS   int
	PrevLay  Layout

	Scratchpad *Client

	Register *Register

	Replay Replay

	Running bool
	Restart bool
	ExitCode int
}

// NewState builds a State with n workspaces, each at its default layout.
func NewState(n int) *State {
	s := &State{
		Workspaces: make([]*Workspace, n+1),
		Current:    1,
		LastWS:     1,
		Register:   NewRegister(DefaultRegisterDepth),
		Running:    true,
	}
	for i := 1; i <= n; i++ {
		s.Workspaces[i] = NewWorkspace()
	}
	return s
}

// WS returns the workspace at index i, or an error if i is out of range.
func (s *State) WS(i int) (*Workspace, error) {
	if i < 1 || i >= len(s.Workspaces) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchWorkspace, i)
	}
	return s.Workspaces[i], nil
}

// CurrentWS returns the workspace the user is currently viewing.
func (s *State) CurrentWS() *Workspace {
	return s.Workspaces[s.Current]
}

// CorrectWS wraps a workspace index into [1, N], matching correct_ws in
// original_source/howm.c.
func (s *State) CorrectWS(ws int) int {
	n := len(s.Workspaces) - 1
	for ws > n {
		ws -= n
	}
	for ws < 1 {
		ws += n
	}
	return ws
}

// FindClientByWindow searches every workspace for the client that owns win,
// grounded on find_client_by_win in original_source/howm.c.
func (s *State) FindClientByWindow(win Window) *Client {
	for i := 1; i < len(s.Workspaces); i++ {
		for c := s.Workspaces[i].Head; c != nil; c = c.Next {
			if c.Win == win {
				return c
			}
		}
	}
	return nil
}
