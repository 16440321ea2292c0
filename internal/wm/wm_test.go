package wm

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuclearfall/howm/internal/config"
	"github.com/nuclearfall/howm/internal/core"
	"github.com/nuclearfall/howm/internal/fsa"
	"github.com/nuclearfall/howm/internal/rules"
)

// fakeDisplay implements wm.Display without touching X11 - the same
// dependency-injection pattern core_test.go and rules_test.go use for
// core.Driver.
type fakeDisplay struct {
	mapped, unmapped, closed []core.Window
	borders                  map[core.Window]uint32
	geom                     map[xproto.Window][4]int
	overrideRedirect         map[xproto.Window]bool
	class                    map[xproto.Window][2]string
	width, height            uint16
	atomNames                map[xproto.Atom]string
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		borders:          map[core.Window]uint32{},
		geom:             map[xproto.Window][4]int{},
		overrideRedirect: map[xproto.Window]bool{},
		class:            map[xproto.Window][2]string{},
		width:            1920, height: 1080,
		atomNames: map[xproto.Atom]string{},
	}
}

func (f *fakeDisplay) Map(w core.Window)   { f.mapped = append(f.mapped, w) }
func (f *fakeDisplay) Unmap(w core.Window) { f.unmapped = append(f.unmapped, w) }
func (f *fakeDisplay) Close(w core.Window) { f.closed = append(f.closed, w) }

func (f *fakeDisplay) RootWindow() core.Window      { return 0 }
func (f *fakeDisplay) ScreenSize() (uint16, uint16) { return f.width, f.height }

func (f *fakeDisplay) WindowAttributes(w xproto.Window) (bool, error) {
	return f.overrideRedirect[w], nil
}

func (f *fakeDisplay) GetGeometry(w core.Window) (int16, int16, uint16, uint16, error) {
	g, ok := f.geom[xproto.Window(w)]
	if !ok {
		return 0, 0, 0, 0, nil
	}
	return int16(g[0]), int16(g[1]), uint16(g[2]), uint16(g[3]), nil
}

func (f *fakeDisplay) WMClass(w xproto.Window) (string, string, error) {
	c := f.class[w]
	return c[0], c[1], nil
}

func (f *fakeDisplay) TransientFor(w xproto.Window) (xproto.Window, bool) { return 0, false }
func (f *fakeDisplay) AtomName(a xproto.Atom) (string, error)             { return f.atomNames[a], nil }
func (f *fakeDisplay) WindowTypeAtoms(w xproto.Window) ([]string, error)  { return nil, nil }

func (f *fakeDisplay) ConfigureMoveResize(w core.Window, x, y int16, width, height, border uint16) {}
func (f *fakeDisplay) ConfigureRaw(w xproto.Window, mask uint16, values []uint32)                  {}
func (f *fakeDisplay) SetBorderColor(w core.Window, pixel uint32)                                  { f.borders[w] = pixel }
func (f *fakeDisplay) GrabButtons(w xproto.Window, mod uint16)                                     {}

func (f *fakeDisplay) KeycodeToKeysym(code xproto.Keycode) fsa.Keysym { return fsa.Keysym(code) }
func (f *fakeDisplay) CleanMask(mod uint16) uint16                    { return mod }

func (f *fakeDisplay) WaitForEvent() (xgb.Event, error) { return nil, nil }
func (f *fakeDisplay) Flush()                           {}

type fakeSync struct {
	active  []core.Window
	current []int
	full    []core.Window
}

func (f *fakeSync) CurrentDesktop(ws int)                       { f.current = append(f.current, ws) }
func (f *fakeSync) Workarea(ws int, barHeight uint16)           {}
func (f *fakeSync) ActiveWindow(w core.Window)                  { f.active = append(f.active, w) }
func (f *fakeSync) SetFullscreenState(w core.Window, full bool) { f.full = append(f.full, w) }

func newTestMultiplexer() (*Multiplexer, *fakeDisplay, *fakeSync) {
	st := core.NewState(3)
	cfg := config.Default()
	disp := newFakeDisplay()
	sync := &fakeSync{}
	m := &Multiplexer{
		Conn:     disp,
		EWMH:     sync,
		State:    st,
		FSA:      fsa.NewMachine(&st.Replay),
		Cfg:      cfg,
		Colors:   Colors{Focused: 1, Unfocused: 2},
		Scratch:  rules.Scratchpad{},
	}
	return m, disp, sync
}

func appendClient(ws *core.Workspace, win core.Window) *core.Client {
	c := &core.Client{Win: win}
	ws.Append(c)
	return c
}

func TestMakeMasterPromotesCurrentInStack(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	ws.Layout = core.Vstack
	a := appendClient(ws, 1)
	b := appendClient(ws, 2)
	c := appendClient(ws, 3)
	ws.Current = c

	m.MakeMaster()

	require.Equal(t, c, ws.Head)
	assert.Equal(t, c, ws.Current)
	assert.Equal(t, a, ws.Head.Next)
	assert.Equal(t, b, ws.Head.Next.Next)
}

func TestMakeMasterNoopInZoom(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	a := appendClient(ws, 1)
	b := appendClient(ws, 2)
	ws.Current = b

	m.MakeMaster()

	assert.Equal(t, a, ws.Head)
}

func TestFocusUrgentSwitchesAndFocuses(t *testing.T) {
	m, _, sync := newTestMultiplexer()
	ws2, err := m.State.WS(2)
	require.NoError(t, err)
	urgent := appendClient(ws2, 42)
	urgent.Urgent = true

	m.FocusUrgent()

	assert.Equal(t, 2, m.State.Current)
	assert.Equal(t, urgent, m.State.CurrentWS().Current)
	assert.Contains(t, sync.active, core.Window(42))
}

func TestGapOperatorsClient(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	c := appendClient(ws, 1)
	ws.Current = c

	m.GrowGaps(core.MotionClient, 1)
	assert.Equal(t, uint16(opGapSize), c.Gap)

	m.ShrinkGaps(core.MotionClient, 1)
	assert.Equal(t, uint16(0), c.Gap)
}

func TestGapOperatorsWorkspaceClampsAtZero(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	ws.Gap = 1

	m.ShrinkGaps(core.MotionWorkspace, 1)

	assert.Equal(t, uint16(0), ws.Gap)
}

func TestResizeFloatWidthRefusesCollapse(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	c := appendClient(ws, 1)
	c.Floating = true
	c.W = 10
	ws.Current = c

	m.ResizeFloatWidth(-20)
	assert.Equal(t, uint16(10), c.W)

	m.ResizeFloatWidth(5)
	assert.Equal(t, uint16(15), c.W)
}

func TestMoveFloatIgnoresNonFloating(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	c := appendClient(ws, 1)
	c.X = 100
	ws.Current = c

	m.MoveFloatX(10)
	assert.Equal(t, int16(100), c.X)
}

func TestTeleportClientCenter(t *testing.T) {
	m, disp, _ := newTestMultiplexer()
	disp.width, disp.height = 1000, 800
	ws := m.State.CurrentWS()
	c := appendClient(ws, 1)
	c.Floating = true
	c.W, c.H = 200, 100
	ws.Current = c

	m.TeleportClient(Center)

	assert.Equal(t, int16(400), c.X)
	assert.Equal(t, int16(350), c.Y)
}

func TestTeleportClientRefusesTransient(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	c := appendClient(ws, 1)
	c.Floating = true
	c.Transient = true
	c.X, c.Y = 7, 7
	ws.Current = c

	m.TeleportClient(TopLeft)

	assert.Equal(t, int16(7), c.X)
}

func TestScratchpadSendAndGetRoundTrip(t *testing.T) {
	m, disp, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	c := appendClient(ws, 9)
	ws.Current = c

	m.SendToScratchpad()
	assert.Equal(t, 0, ws.ClientCnt)
	assert.True(t, m.Scratch.Occupied())
	assert.Contains(t, disp.unmapped, core.Window(9))

	m.GetFromScratchpad()
	assert.Equal(t, 1, ws.ClientCnt)
	assert.True(t, c.Floating)
	assert.Contains(t, disp.mapped, core.Window(9))
}

func TestQuitAndRestartHowm(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	m.QuitHowm(3)
	assert.False(t, m.State.Running)
	assert.Equal(t, 3, m.State.ExitCode)

	m2, _, _ := newTestMultiplexer()
	m2.RestartHowm()
	assert.False(t, m2.State.Running)
	assert.True(t, m2.State.Restart)
}

func TestOnUnmanageRefocusesWorkspace(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	a := appendClient(ws, 1)
	b := appendClient(ws, 2)
	ws.Current = b

	m.onUnmanage(xproto.Window(b.Win))

	assert.Equal(t, 1, ws.ClientCnt)
	assert.Equal(t, a, ws.Head)
	assert.Equal(t, a, ws.Current)
}

func TestOnUnmanageFallsBackToPrevFoc(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	ws := m.State.CurrentWS()
	a := appendClient(ws, 1)
	b := appendClient(ws, 2)
	c := appendClient(ws, 3)
	ws.PrevFoc = a
	ws.Current = c

	m.onUnmanage(xproto.Window(c.Win))

	assert.Equal(t, 2, ws.ClientCnt)
	assert.Equal(t, a, ws.Current)
	assert.Nil(t, m.State.FindClientByWindow(core.Window(3)))
	assert.NotNil(t, b)
}

func TestOnMapRequestAppliesRuleAndMoves(t *testing.T) {
	m, disp, _ := newTestMultiplexer()
	m.Rules = []rules.Rule{{Class: "Term", Workspace: 2, Follow: false}}
	disp.class[xproto.Window(99)] = [2]string{"term-instance", "Terminal"}
	disp.geom[xproto.Window(99)] = [4]int{0, 0, 800, 600}

	m.onMapRequest(xproto.MapRequestEvent{Window: xproto.Window(99)})

	target, err := m.State.WS(2)
	require.NoError(t, err)
	assert.NotNil(t, m.State.FindClientByWindow(core.Window(99)))
	assert.Equal(t, 1, target.ClientCnt)
	assert.Contains(t, disp.mapped, core.Window(99))
}

func TestCommandTableDispatchesQuitAndGaps(t *testing.T) {
	m, _, _ := newTestMultiplexer()
	m.Commands = m.BuildCommandTable()
	ws := m.State.CurrentWS()
	ws.Gap = 4

	status := m.Commands.Dispatch([]string{"quit", "7"})
	assert.Equal(t, 0, int(status))
	assert.False(t, m.State.Running)
	assert.Equal(t, 7, m.State.ExitCode)

	m2, _, _ := newTestMultiplexer()
	m2.Commands = m2.BuildCommandTable()
	m2.State.CurrentWS().Gap = 4
	status2 := m2.Commands.Dispatch([]string{"grow_gaps", "1", "w"})
	assert.Equal(t, 0, int(status2))
	assert.Equal(t, uint16(4+opGapSize), m2.State.CurrentWS().Gap)
}

func TestOnMapRequestIgnoresOverrideRedirect(t *testing.T) {
	m, disp, _ := newTestMultiplexer()
	disp.overrideRedirect[xproto.Window(5)] = true

	m.onMapRequest(xproto.MapRequestEvent{Window: xproto.Window(5)})

	assert.Nil(t, m.State.FindClientByWindow(core.Window(5)))
}
