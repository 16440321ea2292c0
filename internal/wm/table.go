package wm

import (
	"github.com/nuclearfall/howm/internal/command"
	"github.com/nuclearfall/howm/internal/core"
)

// BuildCommandTable returns the named command table the control socket
// dispatches against and the input FSA's direct binds and operators are
// resolved from, matching the `commands[]`/`operators[]` tables in
// original_source/howm.c collapsed into one Go slice.
func (m *Multiplexer) BuildCommandTable() command.Table {
	return command.Table{
		{Name: "focus_next_client", Func: func(core.Arg) { m.FocusNextClient() }},
		{Name: "focus_prev_client", Func: func(core.Arg) { m.FocusPrevClient() }},
		{Name: "change_ws", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.ChangeWorkspace(a.Int) }},
		{Name: "focus_next_ws", Func: func(core.Arg) { m.FocusNextWorkspace() }},
		{Name: "focus_prev_ws", Func: func(core.Arg) { m.FocusPrevWorkspace() }},
		{Name: "focus_last_ws", Func: func(core.Arg) { m.FocusLastWorkspace() }},
		{Name: "change_layout", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.ChangeLayout(core.Layout(a.Int)) }},
		{Name: "next_layout", Func: func(core.Arg) { m.NextLayout() }},
		{Name: "previous_layout", Func: func(core.Arg) { m.PreviousLayout() }},
		{Name: "last_layout", Func: func(core.Arg) { m.LastLayout() }},
		{Name: "change_mode", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.ChangeMode(core.Mode(a.Int)) }},
		{Name: "toggle_float", Func: func(core.Arg) { m.ToggleFloating() }},
		{Name: "toggle_fullscreen", Func: func(core.Arg) { m.ToggleFullscreen() }},
		{Name: "spawn", Argc: 1, ArgType: command.TypeCmd, Func: func(a core.Arg) { m.Spawn(a.Cmd) }},
		{Name: "replay", Func: func(core.Arg) { m.Replay() }},
		{Name: "paste", Func: func(core.Arg) { m.Paste() }},
		{Name: "cut", Argc: 2, ArgType: command.TypeIgnore, Operator: m.CutOperator},
		{Name: "kill", Argc: 2, ArgType: command.TypeIgnore, Operator: m.KillOperator},
		{Name: "grow_gaps", Argc: 2, ArgType: command.TypeIgnore, Operator: m.GrowGaps},
		{Name: "shrink_gaps", Argc: 2, ArgType: command.TypeIgnore, Operator: m.ShrinkGaps},
		{Name: "make_master", Func: func(core.Arg) { m.MakeMaster() }},
		{Name: "focus_urgent", Func: func(core.Arg) { m.FocusUrgent() }},
		{Name: "send_to_scratchpad", Func: func(core.Arg) { m.SendToScratchpad() }},
		{Name: "get_from_scratchpad", Func: func(core.Arg) { m.GetFromScratchpad() }},
		{Name: "resize_float_width", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.ResizeFloatWidth(a.Int) }},
		{Name: "resize_float_height", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.ResizeFloatHeight(a.Int) }},
		{Name: "move_float_x", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.MoveFloatX(a.Int) }},
		{Name: "move_float_y", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.MoveFloatY(a.Int) }},
		{Name: "teleport_client", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.TeleportClient(TeleportAnchor(a.Int)) }},
		{Name: "quit", Argc: 1, ArgType: command.TypeInt, Func: func(a core.Arg) { m.QuitHowm(a.Int) }},
		{Name: "restart", Func: func(core.Arg) { m.RestartHowm() }},
	}
}
