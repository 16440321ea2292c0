package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	mapped, unmapped, closed []Window
}

func (f *fakeDriver) Map(w Window)   { f.mapped = append(f.mapped, w) }
func (f *fakeDriver) Unmap(w Window) { f.unmapped = append(f.unmapped, w) }
func (f *fakeDriver) Close(w Window) { f.closed = append(f.closed, w) }

type fakeSync struct {
	desktop  []int
	workarea []int
	active   []Window
}

func (f *fakeSync) CurrentDesktop(ws int) { f.desktop = append(f.desktop, ws) }
func (f *fakeSync) Workarea(ws int, barHeight uint16) { f.workarea = append(f.workarea, ws) }
func (f *fakeSync) ActiveWindow(w Window) { f.active = append(f.active, w) }

func TestClientListPrimitives(t *testing.T) {
	var head *Client
	a := &Client{Win: 1}
	b := &Client{Win: 2}
	c := &Client{Win: 3}

	head = Append(head, a)
	head = Append(head, b)
	head = Append(head, c)
	require.Equal(t, 3, Len(head))

	assert.Nil(t, Predecessor(head, a))
	assert.Equal(t, a, Predecessor(head, b))
	assert.Equal(t, b, Predecessor(head, c))
	assert.Nil(t, Predecessor(head, &Client{}))

	assert.Equal(t, b, NextWrap(head, a))
	assert.Equal(t, head, NextWrap(head, c))

	singleton := &Client{}
	assert.Nil(t, NextWrap(singleton, singleton))

	var ok bool
	head, ok = Unlink(head, b)
	require.True(t, ok)
	assert.Equal(t, 2, Len(head))
	assert.Equal(t, c, a.Next)
}

func TestWorkspaceInvariant(t *testing.T) {
	w := NewWorkspace()
	a := &Client{Win: 1}
	b := &Client{Win: 2}
	w.Append(a)
	w.Append(b)
	w.Current = a
	require.NoError(t, w.Invariant())

	foreign := &Client{Win: 99}
	w.Current = foreign
	assert.Error(t, w.Invariant())
}

func TestSetMasterRatioRejectsCollapse(t *testing.T) {
	w := NewWorkspace()
	assert.Error(t, w.SetMasterRatio(0.0))
	assert.Error(t, w.SetMasterRatio(1.0))
	assert.NoError(t, w.SetMasterRatio(0.5))
}

func TestSwitchIsIdempotentAndTracksLast(t *testing.T) {
	s := NewState(3)
	drv := &fakeDriver{}
	sync := &fakeSync{}

	require.NoError(t, s.Switch(s.Current, drv, sync))
	assert.Empty(t, sync.desktop, "switching to the current workspace must be a no-op")

	require.NoError(t, s.Switch(2, drv, sync))
	require.NoError(t, s.Switch(1, drv, sync))
	assert.Equal(t, 2, s.LastWS)
}

func TestSwitchIgnoresInvalidIndex(t *testing.T) {
	s := NewState(3)
	drv := &fakeDriver{}
	sync := &fakeSync{}
	require.NoError(t, s.Switch(99, drv, sync))
	assert.Equal(t, 1, s.Current)
}

func TestKillCurrentOnEmptyWorkspaceIsNoop(t *testing.T) {
	s := NewState(2)
	drv := &fakeDriver{}
	require.NoError(t, s.KillCurrent(1, drv))
	assert.Empty(t, drv.closed)
}

func TestCutAndPasteRoundTrip(t *testing.T) {
	s := NewState(2)
	drv := &fakeDriver{}
	ws1 := s.Workspaces[1]
	a, b, c := &Client{Win: 1}, &Client{Win: 2}, &Client{Win: 3}
	ws1.Append(a)
	ws1.Append(b)
	ws1.Append(c)
	ws1.Current = a

	require.NoError(t, s.Cut(MotionClient, 1, drv))
	assert.Equal(t, 2, ws1.ClientCnt)
	require.NoError(t, ws1.Invariant())

	require.NoError(t, s.Switch(2, drv, &fakeSync{}))
	require.NoError(t, s.Paste(drv))

	ws2 := s.Workspaces[2]
	assert.Equal(t, 1, ws2.ClientCnt)
	assert.Equal(t, Window(1), ws2.Current.Win)
	assert.Equal(t, 2, ws1.ClientCnt)
}

func TestCutPasteConservesMultiset(t *testing.T) {
	s := NewState(1)
	drv := &fakeDriver{}
	ws := s.Workspaces[1]
	wins := []Window{1, 2, 3, 4, 5}
	for _, w := range wins {
		ws.Append(&Client{Win: w})
	}
	ws.Current = ws.Head

	require.NoError(t, s.Cut(MotionClient, 2, drv))
	require.NoError(t, s.Cut(MotionClient, 1, drv))

	// Each cut pushed one sublist, so two pastes restore everything and a
	// third finds the register empty.
	for i := 0; i < 2; i++ {
		require.NoError(t, s.Paste(drv))
	}
	require.Error(t, s.Paste(drv))

	seen := map[Window]bool{}
	for c := ws.Head; c != nil; c = c.Next {
		seen[c.Win] = true
	}
	assert.Len(t, seen, len(wins))
	for _, w := range wins {
		assert.True(t, seen[w], "window %d missing after cut/paste round trip", w)
	}
}

func TestCutWorkspaceDegenerate(t *testing.T) {
	s := NewState(2)
	drv := &fakeDriver{}
	ws := s.Workspaces[1]
	ws.Append(&Client{Win: 1})
	ws.Append(&Client{Win: 2})
	ws.Current = ws.Head

	require.NoError(t, s.Cut(MotionClient, 10, drv))
	assert.Equal(t, 0, ws.ClientCnt)
	assert.Nil(t, ws.Head)
	assert.Equal(t, 1, s.Register.Len())
}

func TestRegisterRefusesOverflow(t *testing.T) {
	r := NewRegister(1)
	require.NoError(t, r.Push(&Client{Win: 1}))
	assert.Error(t, r.Push(&Client{Win: 2}))
}

func TestReplayInvokesLiveRecord(t *testing.T) {
	var r Replay
	calls := 0
	r.SaveCommand(func(arg Arg) { calls++ }, Arg{})
	r.Invoke()
	assert.Equal(t, 1, calls)

	tripleCalls := 0
	r.SaveTriple(func(t MotionType, cnt int) { tripleCalls++ }, MotionClient, 3)
	r.Invoke()
	assert.Equal(t, 1, tripleCalls)
	assert.Equal(t, 1, calls, "saving a triple must clear the saved command")
}
