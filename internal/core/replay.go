package core

// CommandFunc is a unary command invoker, matching void (*func)(const Arg *)
// in original_source/howm.c.
type CommandFunc func(arg Arg)

// OperatorFunc is a binary operator invoker, matching
// void (*operator)(const unsigned int type, const int cnt).
type OperatorFunc func(t MotionType, cnt int)

// ArgKind tags which field of Arg is live.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgInt
	ArgCmd
)

// Arg is a tagged argument passed to a CommandFunc, matching the union Arg
// in original_source/howm.c.
type Arg struct {
	Kind ArgKind
	Int  int
	Cmd  []string
}

// lastCommand is a saved (command, argument) pair.
type lastCommand struct {
	fn  CommandFunc
	arg Arg
}

// lastTriple is a saved (operator, motion type, count) triple.
type lastTriple struct {
	fn   OperatorFunc
	t    MotionType
	cnt  int
}

// Replay holds either the last command or the last operator triple -
// exactly one is live at a time, matching struct replay_state in
// original_source/howm.c.
type Replay struct {
	haveCommand bool
	cmd         lastCommand
	haveTriple  bool
	triple      lastTriple
}

// SaveCommand records a command invocation as the thing replay will repeat,
// clearing any saved triple.
func (r *Replay) SaveCommand(fn CommandFunc, arg Arg) {
	r.cmd = lastCommand{fn: fn, arg: arg}
	r.haveCommand = true
	r.haveTriple = false
}

// SaveTriple records an operator/motion/count invocation as the thing
// replay will repeat, clearing any saved command.
func (r *Replay) SaveTriple(fn OperatorFunc, t MotionType, cnt int) {
	r.triple = lastTriple{fn: fn, t: t, cnt: cnt}
	r.haveTriple = true
	r.haveCommand = false
}

// Invoke calls whichever of the last command or last triple is live. It
// is a no-op if nothing has been saved yet.
func (r *Replay) Invoke() {
	switch {
	case r.haveCommand:
		r.cmd.fn(r.cmd.arg)
	case r.haveTriple:
		r.triple.fn(r.triple.t, r.triple.cnt)
	}
}
