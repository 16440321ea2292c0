package wm

import (
	"fmt"
	"os"
)

// emitStatus writes one line per spec.md §6: "mode:layout:workspace:
// fsa-state:client-count" for the current workspace, flushed immediately.
// Grounded on howm_info in original_source/howm.c; this module always
// takes the non-debug branch (one line for the current workspace only).
func (m *Multiplexer) emitStatus() {
	ws := m.State.CurrentWS()
	fmt.Fprintf(os.Stdout, "%d:%d:%d:%d:%d\n",
		m.FSA.Mode, ws.Layout, m.State.Current, m.FSA.State(), ws.ClientCnt)
}
