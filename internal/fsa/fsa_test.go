package fsa

import (
	"testing"

	"github.com/nuclearfall/howm/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	modSuper uint16 = 1 << 6
	modCount uint16 = 1 << 7
	symQ     Keysym = 'q'
	symC     Keysym = 'c'
)

func newTestMachine() (*Machine, *int, *[]struct{ t core.MotionType; cnt int }) {
	var r core.Replay
	m := NewMachine(&r)
	m.CountMod = modCount
	calls := 0
	var invocations []struct {
		t   core.MotionType
		cnt int
	}
	m.Operators = []OperatorRow{
		{Sym: symQ, Mod: modSuper, Mode: core.Normal, Func: func(t core.MotionType, cnt int) {
			calls++
			invocations = append(invocations, struct {
				t   core.MotionType
				cnt int
			}{t, cnt})
		}},
	}
	m.Motions = []MotionRow{
		{Sym: symC, Mod: modSuper, Type: core.MotionClient},
	}
	return m, &calls, &invocations
}

func TestFSAFullTripleWithCount(t *testing.T) {
	m, calls, invocations := newTestMachine()

	m.HandleKey(KeyEvent{Sym: symQ, Mod: modSuper}) // operator
	assert.Equal(t, Count, m.State())
	m.HandleKey(KeyEvent{Sym: Keysym('3'), Mod: modCount}) // count
	assert.Equal(t, Motion, m.State())
	m.HandleKey(KeyEvent{Sym: symC, Mod: modSuper}) // motion -> invoke

	require.Equal(t, 1, *calls)
	assert.Equal(t, core.MotionClient, (*invocations)[0].t)
	assert.Equal(t, 3, (*invocations)[0].cnt)
	assert.Equal(t, Operator, m.State(), "automaton must reset to OPERATOR after a triple")
}

func TestFSANoCountDefaultsToOne(t *testing.T) {
	m, calls, invocations := newTestMachine()

	m.HandleKey(KeyEvent{Sym: symQ, Mod: modSuper})
	m.HandleKey(KeyEvent{Sym: symC, Mod: modSuper}) // no count key - falls through to MOTION

	require.Equal(t, 1, *calls)
	assert.Equal(t, 1, (*invocations)[0].cnt)
}

func TestFSAPrefixAloneDoesNotInvoke(t *testing.T) {
	m, calls, _ := newTestMachine()
	m.HandleKey(KeyEvent{Sym: symQ, Mod: modSuper})
	assert.Equal(t, 0, *calls)
	m.HandleKey(KeyEvent{Sym: Keysym('3'), Mod: modCount})
	assert.Equal(t, 0, *calls)
}

func TestFSACountCappedToNine(t *testing.T) {
	m, _, invocations := newTestMachine()
	m.HandleKey(KeyEvent{Sym: symQ, Mod: modSuper})
	m.HandleKey(KeyEvent{Sym: Keysym('9'), Mod: modCount})
	m.HandleKey(KeyEvent{Sym: symC, Mod: modSuper})
	assert.Equal(t, 9, (*invocations)[0].cnt)
}

func TestDirectBindSkipsReplaySelfReference(t *testing.T) {
	var r core.Replay
	m := NewMachine(&r)
	replayCalls := 0
	m.ReplayBindName = "replay"
	m.Binds = []DirectBind{
		{Sym: symQ, Mod: modSuper, Mode: core.Normal, Name: "replay", Func: func(core.Arg) { replayCalls++ }},
	}
	m.HandleKey(KeyEvent{Sym: symQ, Mod: modSuper})
	assert.Equal(t, 1, replayCalls)

	// Nothing was recorded, so invoking Replay directly must not recurse.
	r.Invoke()
	assert.Equal(t, 1, replayCalls)
}

func TestDirectBindRecordsForReplay(t *testing.T) {
	var r core.Replay
	m := NewMachine(&r)
	kills := 0
	m.Binds = []DirectBind{
		{Sym: symC, Mod: modSuper, Mode: core.Normal, Name: "kill", Func: func(core.Arg) { kills++ }},
	}
	m.HandleKey(KeyEvent{Sym: symC, Mod: modSuper})
	require.Equal(t, 1, kills)
	r.Invoke()
	assert.Equal(t, 2, kills)
}

func TestModeGatesOperators(t *testing.T) {
	m, calls, _ := newTestMachine()
	m.Mode = core.Floating // operators require core.Normal
	m.HandleKey(KeyEvent{Sym: symQ, Mod: modSuper})
	assert.Equal(t, Operator, m.State(), "operator valid only in its declared mode")
	assert.Equal(t, 0, *calls)
}
