package main

import (
	"fmt"
	"strconv"

	"github.com/nuclearfall/howm/internal/command"
	"github.com/nuclearfall/howm/internal/config"
	"github.com/nuclearfall/howm/internal/core"
	"github.com/nuclearfall/howm/internal/fsa"
	"github.com/nuclearfall/howm/internal/xbind"
)

// resolvedBindings is the fsa.Machine tables plus the flat (keysym, mod)
// list xbind.GrabKeys needs, built once from the config-declared keybind
// rows and the Multiplexer's command table.
type resolvedBindings struct {
	Operators []fsa.OperatorRow
	Motions   []fsa.MotionRow
	Binds     []fsa.DirectBind
	Grabs     []xbind.Binding
}

func parseMode(s string) core.Mode {
	switch s {
	case "focus":
		return core.Focus
	case "floating":
		return core.Floating
	default:
		return core.Normal
	}
}

func parseMotionType(s string) (core.MotionType, error) {
	switch s {
	case "c", "client":
		return core.MotionClient, nil
	case "w", "workspace":
		return core.MotionWorkspace, nil
	default:
		return 0, fmt.Errorf("unknown motion type %q", s)
	}
}

func findCommand(table command.Table, name string) (command.Command, bool) {
	for _, c := range table {
		if c.Name == name {
			return c, true
		}
	}
	return command.Command{}, false
}

func buildArg(cmd command.Command, raw string) (core.Arg, error) {
	switch {
	case cmd.Argc == 0:
		return core.Arg{}, nil
	case cmd.ArgType == command.TypeInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return core.Arg{}, fmt.Errorf("bind arg %q is not an int: %w", raw, err)
		}
		return core.Arg{Kind: core.ArgInt, Int: n}, nil
	case cmd.ArgType == command.TypeCmd:
		argv, err := config.SplitCommand(raw)
		if err != nil {
			return core.Arg{}, err
		}
		return core.Arg{Kind: core.ArgCmd, Cmd: argv}, nil
	default:
		return core.Arg{}, nil
	}
}

// countDigits are the digit keys grab_keys() in original_source/howm.c
// grabs alongside COUNT_MOD (XK_1..XK_8), so a count prefix like `<op> 3
// <motion>` reaches fsa.Machine.HandleKey instead of the focused client.
const countDigits = "12345678"

// resolveBindings translates the config-declared keybind rows into the
// three fsa.Machine tables, matching `operators[]`/`motions[]`/`keys[]` in
// original_source/howm.c - those are static C arrays; here they are built
// at startup from the loaded config instead of compiled in. countMod is
// the modifier that must accompany a count digit, matching COUNT_MOD.
func resolveBindings(conn *xbind.Conn, table command.Table, decls []config.KeybindDecl, countMod uint16) (resolvedBindings, error) {
	var rb resolvedBindings

	for _, digit := range countDigits {
		sym, err := conn.KeyNameToKeysym(string(digit))
		if err != nil {
			return rb, fmt.Errorf("count digit %q: %w", digit, err)
		}
		rb.Grabs = append(rb.Grabs, xbind.Binding{Sym: sym, Mod: countMod})
	}

	for _, d := range decls {
		sym, err := conn.KeyNameToKeysym(d.Key)
		if err != nil {
			return rb, fmt.Errorf("keybind %+v: %w", d, err)
		}
		mod := xbind.ParseModifiers(d.Mod)
		rb.Grabs = append(rb.Grabs, xbind.Binding{Sym: sym, Mod: mod})

		switch d.Kind {
		case "operator":
			cmd, ok := findCommand(table, d.Command)
			if !ok || cmd.Operator == nil {
				return rb, fmt.Errorf("keybind %+v: no such operator %q", d, d.Command)
			}
			rb.Operators = append(rb.Operators, fsa.OperatorRow{
				Sym: sym, Mod: mod, Mode: parseMode(d.Mode), Func: cmd.Operator,
			})
		case "motion":
			t, err := parseMotionType(d.Motion)
			if err != nil {
				return rb, fmt.Errorf("keybind %+v: %w", d, err)
			}
			rb.Motions = append(rb.Motions, fsa.MotionRow{Sym: sym, Mod: mod, Type: t})
		case "bind":
			cmd, ok := findCommand(table, d.Command)
			if !ok || cmd.Func == nil {
				return rb, fmt.Errorf("keybind %+v: no such command %q", d, d.Command)
			}
			arg, err := buildArg(cmd, d.Arg)
			if err != nil {
				return rb, fmt.Errorf("keybind %+v: %w", d, err)
			}
			rb.Binds = append(rb.Binds, fsa.DirectBind{
				Sym: sym, Mod: mod, Mode: parseMode(d.Mode), Name: d.Command, Func: cmd.Func, Arg: arg,
			})
		default:
			return rb, fmt.Errorf("keybind %+v: unknown kind %q", d, d.Kind)
		}
	}
	return rb, nil
}
