package command

import (
	"testing"

	"github.com/nuclearfall/howm/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrame(t *testing.T) {
	argv, status := SplitFrame([]byte("change_ws\x002\x00"))
	require.Equal(t, StatusNone, status)
	assert.Equal(t, []string{"change_ws", "2"}, argv)

	_, status = SplitFrame([]byte{})
	assert.Equal(t, StatusTooFewArgs, status)
}

func TestDispatchUnknownCommand(t *testing.T) {
	tbl := Table{}
	assert.Equal(t, StatusNoCommand, tbl.Dispatch([]string{"nope"}))
}

func TestDispatchIntArg(t *testing.T) {
	var got int
	tbl := Table{{Name: "change_ws", Func: func(a core.Arg) { got = a.Int }, Argc: 1, ArgType: TypeInt}}
	assert.Equal(t, StatusNone, tbl.Dispatch([]string{"change_ws", "3"}))
	assert.Equal(t, 3, got)
}

func TestDispatchArgTooLarge(t *testing.T) {
	tbl := Table{{Name: "change_ws", Func: func(core.Arg) {}, Argc: 1, ArgType: TypeInt}}
	assert.Equal(t, StatusArgTooLarge, tbl.Dispatch([]string{"change_ws", "123"}))
}

func TestDispatchArgNotInt(t *testing.T) {
	tbl := Table{{Name: "change_ws", Func: func(core.Arg) {}, Argc: 1, ArgType: TypeInt}}
	assert.Equal(t, StatusArgNotInt, tbl.Dispatch([]string{"change_ws", "ab"}))
}

func TestDispatchOperatorMotionType(t *testing.T) {
	var gotType core.MotionType
	var gotCnt int
	tbl := Table{{Name: "op_kill", Operator: func(t core.MotionType, cnt int) {
		gotType, gotCnt = t, cnt
	}, Argc: 2, ArgType: TypeIgnore}}

	assert.Equal(t, StatusNone, tbl.Dispatch([]string{"op_kill", "3", "c"}))
	assert.Equal(t, core.MotionClient, gotType)
	assert.Equal(t, 3, gotCnt)

	assert.Equal(t, StatusNone, tbl.Dispatch([]string{"op_kill", "2", "w"}))
	assert.Equal(t, core.MotionWorkspace, gotType)
	assert.Equal(t, 2, gotCnt)

	assert.Equal(t, StatusSyntax, tbl.Dispatch([]string{"op_kill", "2", "x"}))
}

func TestDispatchTooFewArgs(t *testing.T) {
	tbl := Table{{Name: "change_ws", Func: func(core.Arg) {}, Argc: 1, ArgType: TypeInt}}
	assert.Equal(t, StatusTooFewArgs, tbl.Dispatch([]string{"change_ws"}))
}

func TestDispatchCmdArg(t *testing.T) {
	var got []string
	tbl := Table{{Name: "spawn", Func: func(a core.Arg) { got = a.Cmd }, Argc: 1, ArgType: TypeCmd}}
	assert.Equal(t, StatusNone, tbl.Dispatch([]string{"spawn", "dmenu_run", "-i"}))
	assert.Equal(t, []string{"dmenu_run", "-i"}, got)
}

func TestArgToIntNegative(t *testing.T) {
	v, status := argToInt("-9")
	require.Equal(t, StatusNone, status)
	assert.Equal(t, -9, v)
}
