package core

import "fmt"

// Cut detaches a segment of the client list (or one or more whole
// workspaces) and pushes it onto the delete register, grounded on op_cut in
// original_source/howm.c and spec.md §4.7.
func (s *State) Cut(t MotionType, cnt int, drv Driver) error {
	cw := s.CurrentWS()

	switch {
	case t == MotionWorkspace:
		return s.cutWorkspaces(cnt, drv)
	case t == MotionClient && cnt >= cw.ClientCnt:
		// Degenerate to the workspace case for the current workspace alone.
		return s.cutWorkspaces(1, drv)
	default:
		return s.cutClients(cnt, drv)
	}
}

func (s *State) cutWorkspaces(cnt int, drv Driver) error {
	if s.Register.Len()+cnt > s.Register.depth {
		return fmt.Errorf("cut: would overflow delete register")
	}
	for i := 0; i < cnt; i++ {
		idx := s.CorrectWS(s.Current + i)
		w := s.Workspaces[idx]
		if w.Head == nil {
			continue
		}
		for c := w.Head; c != nil; c = c.Next {
			drv.Unmap(c.Win)
		}
		if err := s.Register.Push(w.Head); err != nil {
			return err
		}
		w.Head = nil
		w.Current = nil
		w.PrevFoc = nil
		w.ClientCnt = 0
	}
	return nil
}

// cutClients detaches [current ... current+cnt-1] (wrapping through the
// circular next-walker to cover the single-element edge case) from the
// current workspace and pushes it as one sublist.
func (s *State) cutClients(cnt int, drv Driver) error {
	cw := s.CurrentWS()
	head := cw.Current
	if head == nil {
		return nil
	}
	if s.Register.Full() {
		return fmt.Errorf("cut: delete register is full")
	}

	headPrev := Predecessor(cw.Head, head)
	tail := head
	drv.Unmap(head.Win)
	cw.ClientCnt--

	wrapped := false
	remaining := cnt
	for remaining > 1 {
		nxt := NextWrap(cw.Head, tail)
		if nxt == nil {
			break
		}
		if tail.Next == nil && nxt != nil {
			// Temporarily close the list into a ring to simplify
			// wrap counting; broken below before returning, per
			// DESIGN NOTES §9.
			wrapped = true
			tail.Next = nxt
		}
		if tail == cw.PrevFoc {
			cw.PrevFoc = nil
		}
		tail = nxt
		drv.Unmap(tail.Win)
		remaining--
		cw.ClientCnt--
	}

	switch {
	case head == cw.Head:
		if wrapped && NextWrap(cw.Head, tail) == head {
			cw.Head = nil
		} else {
			cw.Head = tail.Next
		}
	case wrapped:
		cw.Head = tail.Next
		if headPrev != nil {
			headPrev.Next = nil
		}
	case tail.Next != headPrev:
		if headPrev != nil {
			headPrev.Next = tail.Next
		}
	}

	cw.Current = headPrev
	if cw.Current == nil {
		cw.Current = cw.Head
	}
	tail.Next = nil // break the ring before returning, per DESIGN NOTES §9

	return s.Register.Push(head)
}

// Paste pops the most recently cut sublist and splices it in after the
// current client (or as head on an empty workspace, or at the tail if
// current is the last client), mapping every window and focusing the last
// pasted element. Grounded on paste in original_source/howm.c.
func (s *State) Paste(drv Driver) error {
	head := s.Register.Pop()
	if head == nil {
		return fmt.Errorf("paste: delete register is empty")
	}
	cw := s.CurrentWS()
	if cw.Current == nil {
		cw.Current = cw.Head
	}

	c := head
	switch {
	case cw.Current == nil:
		cw.Head = head
		for c != nil {
			drv.Map(c.Win)
			cw.Current = c
			cw.ClientCnt++
			c = c.Next
		}
	case cw.Current.Next == nil:
		cw.Current.Next = head
		for c != nil {
			drv.Map(c.Win)
			cw.Current = c
			cw.ClientCnt++
			c = c.Next
		}
	default:
		after := cw.Current.Next
		cw.Current.Next = head
		for c != nil {
			drv.Map(c.Win)
			cw.ClientCnt++
			if c.Next == nil {
				c.Next = after
				cw.Current = c
				break
			}
			cw.Current = c
			c = c.Next
		}
	}
	return nil
}
