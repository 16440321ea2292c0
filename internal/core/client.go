// Package core holds the managed-window model: clients, workspaces, the
// delete register and the replay record. None of it depends on X11 so it
// can be exercised without a display.
package core

// Window is an opaque handle to a managed top-level window. The xbind
// package supplies the concrete X11 window id; core never dereferences it.
type Window uint32

// Client is one managed top-level window.
type Client struct {
	Next *Client

	Win Window

	X, Y int16
	W, H uint16
	Gap  uint16

	Floating   bool
	Fullscreen bool
	Transient  bool
	Urgent     bool
}

// FFT reports whether c is floating, fullscreen or transient - the set of
// clients every tiling layout skips.
func (c *Client) FFT() bool {
	return c.Floating || c.Fullscreen || c.Transient
}

// Append adds c to the tail of the list headed by head and returns the
// (possibly unchanged) head.
func Append(head *Client, c *Client) *Client {
	if head == nil {
		return c
	}
	tail := head
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = c
	return head
}

// Predecessor returns the client immediately before target in the list
// headed by head, or nil if target is the head, absent, or head is nil.
func Predecessor(head *Client, target *Client) *Client {
	if target == nil || head == nil || head == target {
		return nil
	}
	for p := head; p.Next != nil; p = p.Next {
		if p.Next == target {
			return p
		}
	}
	return nil
}

// NextWrap returns the client that follows c in the list headed by head,
// wrapping to head when c is the tail. It returns nil when c is nil or the
// list has fewer than two clients.
func NextWrap(head *Client, c *Client) *Client {
	if c == nil || head == nil || head.Next == nil {
		return nil
	}
	if c.Next != nil {
		return c.Next
	}
	return head
}

// Unlink removes target from the list headed by head and returns the new
// head. It reports whether target was found.
func Unlink(head *Client, target *Client) (*Client, bool) {
	if head == nil || target == nil {
		return head, false
	}
	if head == target {
		return head.Next, true
	}
	for p := head; p.Next != nil; p = p.Next {
		if p.Next == target {
			p.Next = target.Next
			target.Next = nil
			return head, true
		}
	}
	return head, false
}

// Len counts the clients in the list headed by head.
func Len(head *Client) int {
	n := 0
	for c := head; c != nil; c = c.Next {
		n++
	}
	return n
}

// FirstNonFFT returns the first client in the list that is not floating,
// fullscreen or transient, or nil if there is none.
func FirstNonFFT(head *Client) *Client {
	for c := head; c != nil; c = c.Next {
		if !c.FFT() {
			return c
		}
	}
	return nil
}

// CountNonFFT counts the tilable (non-FFT) clients in the list.
func CountNonFFT(head *Client) int {
	n := 0
	for c := head; c != nil; c = c.Next {
		if !c.FFT() {
			n++
		}
	}
	return n
}
