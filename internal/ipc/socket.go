// Package ipc implements the control-socket wire framing described in
// spec.md §4.5/§6: a Unix-domain stream socket, single connection at a
// time, one NUL-delimited argv per connection, replied to with a single
// machine-order native int status and then closed. Grounded on ipc_init
// and ipc_process_cmd in original_source/howm.c.
package ipc

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/google/uuid"
	"github.com/nuclearfall/howm/internal/command"
)

// bufSize mirrors the fixed-size read buffer the source uses for one
// socket datagram.
const bufSize = 4096

// Request is handed from the accept loop to whatever owns the command
// table (the event multiplexer) and blocks on Reply until the status is
// decided.
type Request struct {
	ID    string
	Argv  []string
	Reply chan command.Status
}

// Server listens on a single Unix-domain socket and forwards one
// fully-framed Request at a time onto Requests. Grounded on ipc_init's
// listen(sock_fd, 1) - single connection at a time.
type Server struct {
	path string
	ln   net.Listener

	Requests chan Request
}

// Listen creates the control socket at path, removing a stale socket file
// left behind by an unclean previous shutdown.
func Listen(path string) (*Server, error) {
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: couldn't set up control socket at %s: %w", path, err)
	}
	return &Server{path: path, ln: ln, Requests: make(chan Request)}, nil
}

// Close stops listening and removes the socket file.
func (s *Server) Close() error {
	err := s.ln.Close()
	_ = os.Remove(s.path)
	return err
}

// Serve accepts connections one at a time until ctx is cancelled. Each
// connection is read once (up to bufSize bytes), split into a command argv, forwarded on
// Requests, and closed after writing back the resulting status - matching
// "the socket connection is closed after each reply" in spec.md §4.5.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("ipc: accept failed: %w", err)
			}
		}
		s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	id := uuid.NewString()

	buf := make([]byte, bufSize)
	n, err := conn.Read(buf)
	if err != nil {
		slog.Warn("ipc: read failed", "id", id, "error", err)
		return
	}

	argv, status := command.SplitFrame(buf[:n])
	if status == command.StatusNone {
		reply := make(chan command.Status, 1)
		select {
		case s.Requests <- Request{ID: id, Argv: argv, Reply: reply}:
			select {
			case status = <-reply:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}

	if err := writeStatus(conn, status); err != nil {
		slog.Warn("ipc: write reply failed", "id", id, "error", err)
	}
}

// writeStatus replies with one machine-order native int, matching the C
// server's `write(fd, &retval, sizeof(int))`.
func writeStatus(conn net.Conn, status command.Status) error {
	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], uint32(int32(status)))
	_, err := conn.Write(buf[:])
	return err
}
