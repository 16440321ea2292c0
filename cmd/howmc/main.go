// Command howmc is the control-socket client: it joins its arguments into
// the NUL-delimited wire frame internal/command.SplitFrame expects, sends
// it to a running howm's control socket, and reports back the native-int
// status reply. Grounded on the IPC CLI pattern in
// mj1618-desktop-cli/cmd/root.go, speaking the wire protocol
// internal/ipc.Server implements.
package main

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nuclearfall/howm/internal/command"
)

var (
	sockPath string
	timeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "howmc <command> [args...]",
	Short: "Send a command to a running howm over its control socket",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&sockPath, "sock", "s", defaultSocketPath(), "control socket path")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Second, "socket dial/round-trip timeout")
}

func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir + "/howm.sock"
	}
	return "/tmp/howm.sock"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	status, err := send(sockPath, args, timeout)
	if err != nil {
		return fmt.Errorf("howmc: %w", err)
	}
	if status != command.StatusNone {
		fmt.Fprintf(os.Stderr, "howmc: %s\n", status)
		os.Exit(int(status))
	}
	return nil
}

// send dials sockPath, writes argv as one NUL-delimited frame, and reads
// back the four-byte native-endian status reply, matching the wire
// contract in internal/ipc.Server.handleConn.
func send(sockPath string, argv []string, timeout time.Duration) (command.Status, error) {
	conn, err := net.DialTimeout("unix", sockPath, timeout)
	if err != nil {
		return 0, fmt.Errorf("couldn't connect to %s: %w", sockPath, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	_ = conn.SetDeadline(deadline)

	frame := strings.Join(argv, "\x00") + "\x00"
	if _, err := conn.Write([]byte(frame)); err != nil {
		return 0, fmt.Errorf("write failed: %w", err)
	}

	var buf [4]byte
	if _, err := conn.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read reply failed: %w", err)
	}
	return command.Status(int32(binary.NativeEndian.Uint32(buf[:]))), nil
}
