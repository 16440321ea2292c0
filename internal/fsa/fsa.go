// Package fsa implements the operator/count/motion input grammar: a
// three-state automaton that assembles (operator, count, motion) triples
// from raw key events, plus the direct-bind scan that runs on every key
// press regardless of automaton state. Grounded on key_press_event in
// original_source/handler.c.
package fsa

import "github.com/nuclearfall/howm/internal/core"

// Keysym is an X11 keysym value, translated from a raw keycode by the
// xbind facade before it reaches the automaton.
type Keysym uint32

// State names the automaton's three states.
type State int

const (
	Operator State = iota
	Count
	Motion
)

func (s State) String() string {
	switch s {
	case Operator:
		return "operator"
	case Count:
		return "count"
	case Motion:
		return "motion"
	default:
		return "unknown"
	}
}

// KeyEvent is a key press reduced to the fields the automaton needs: a
// keysym (already translated from the raw keycode) and a modifier mask
// with numlock/caps-lock already stripped by the caller, matching
// CLEANMASK/EQUALMODS in original_source/howm.c.
type KeyEvent struct {
	Sym Keysym
	Mod uint16
}

// OperatorRow is one entry of the `operators[]` table: an operator key
// valid only in a particular mode.
type OperatorRow struct {
	Sym  Keysym
	Mod  uint16
	Mode core.Mode
	Func core.OperatorFunc
}

// MotionRow is one entry of the `motions[]` table.
type MotionRow struct {
	Sym  Keysym
	Mod  uint16
	Type core.MotionType
}

// DirectBind is a single-key command, scanned on every key press
// regardless of automaton state. Name identifies the bound command (e.g.
// "replay") so the machine can suppress self-referential replay recording
// without comparing func values, which Go disallows.
type DirectBind struct {
	Sym  Keysym
	Mod  uint16
	Mode core.Mode
	Name string
	Func core.CommandFunc
	Arg  core.Arg
}

// Machine is the operator/count/motion automaton plus its binding tables.
// Its CountMod field is the dedicated modifier that must accompany a count
// digit, matching COUNT_MOD in original_source/howm.c (kept as a field, not
// a package constant, so it can be reconfigured at startup).
type Machine struct {
	state State
	count int

	CountMod uint16
	Mode     core.Mode

	Operators []OperatorRow
	Motions   []MotionRow
	Binds     []DirectBind

	pendingOp core.OperatorFunc

	Replay *core.Replay
	// ReplayBindName identifies the direct bind that must never be
	// recorded for replay, preventing a self-reference loop (the replay
	// command replaying itself). Matches keys[i].func != replay in
	// original_source/handler.c.
	ReplayBindName string
}

// NewMachine returns a machine in the initial OPERATOR state with count 1.
func NewMachine(replay *core.Replay) *Machine {
	return &Machine{state: Operator, count: 1, Replay: replay}
}

// State reports the automaton's current state, for status emission.
func (m *Machine) State() State { return m.state }

func equalMods(a, b uint16) bool {
	// numlock/caps-lock stripping happens before a KeyEvent reaches the
	// machine (see KeyEvent's doc comment); here it's a plain compare.
	return a == b
}

// HandleKey feeds one key press through the automaton and then through the
// direct-bind scan, exactly mirroring key_press_event's structure: the
// switch on cur_state runs first (mutating state/pending operator or
// invoking the matched operator), then every direct bind is checked
// unconditionally.
func (m *Machine) HandleKey(ev KeyEvent) {
	switch m.state {
	case Operator:
		for _, op := range m.Operators {
			if ev.Sym == op.Sym && equalMods(op.Mod, ev.Mod) && op.Mode == m.Mode {
				m.pendingOp = op.Func
				m.state = Count
				break
			}
		}
	case Count:
		if equalMods(m.CountMod, ev.Mod) && isDigit(ev.Sym) {
			m.count = digitValue(ev.Sym)
			m.state = Motion
			break
		}
		fallthrough // no count means implicitly 1, vim-style
	case Motion:
		for _, mo := range m.Motions {
			if ev.Sym == mo.Sym && equalMods(mo.Mod, ev.Mod) {
				m.pendingOp(mo.Type, m.count)
				if m.Replay != nil {
					m.Replay.SaveTriple(m.pendingOp, mo.Type, m.count)
				}
				m.state = Operator
				m.count = 1
			}
		}
	}

	for _, b := range m.Binds {
		if ev.Sym == b.Sym && equalMods(b.Mod, ev.Mod) && b.Mode == m.Mode && b.Func != nil {
			b.Func(b.Arg)
			if m.Replay != nil && b.Name != m.ReplayBindName {
				m.Replay.SaveCommand(b.Func, b.Arg)
			}
		}
	}
}

// XK_0 mirrors X11/keysym.h's digit keysyms, which are numerically
// contiguous with ASCII '0'..'9'.
const xk0 = 0x30

func isDigit(sym Keysym) bool {
	return sym >= xk0+1 && sym <= xk0+9
}

func digitValue(sym Keysym) int {
	return int(sym) - xk0
}
