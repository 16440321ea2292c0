// Command howm is the window manager entrypoint: it wires the X facade,
// the config loader, the managed-window model and the event multiplexer
// together and runs them until a quit command or a termination signal
// arrives. Grounded on main()/Create()/Run() in
// moukhtar22-doWM/main.go and moukhtar22-doWM/wm/window_manager.go, with
// startup flag parsing lifted onto github.com/spf13/cobra per DESIGN.md.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nuclearfall/howm/internal/config"
	"github.com/nuclearfall/howm/internal/core"
	"github.com/nuclearfall/howm/internal/ewmh"
	"github.com/nuclearfall/howm/internal/fsa"
	"github.com/nuclearfall/howm/internal/ipc"
	"github.com/nuclearfall/howm/internal/wm"
	"github.com/nuclearfall/howm/internal/xbind"
)

var (
	configPath string
	sockPath   string
)

var rootCmd = &cobra.Command{
	Use:   "howm",
	Short: "A tiling X11 window manager",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to the YAML config file")
	rootCmd.Flags().StringVarP(&sockPath, "sock", "s", "", "control socket path (overrides the config file's socket_path)")
}

func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "howm", "howm.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "howm.yaml"
	}
	return filepath.Join(home, ".config", "howm", "howm.yaml")
}

func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "howm.sock")
	}
	return "/tmp/howm.sock"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run wires every package together and blocks until the multiplexer stops,
// matching main()'s Create/Run/Close sequence in moukhtar22-doWM/main.go.
func run(cmd *cobra.Command, args []string) error {
	loader, cfg := loadConfig(configPath)
	if sockPath != "" {
		cfg.SocketPath = sockPath
	} else if cfg.SocketPath == "" {
		cfg.SocketPath = defaultSocketPath()
	}

	conn, err := xbind.Connect()
	if err != nil {
		return fmt.Errorf("howm: %w", err)
	}
	defer conn.Disconnect()

	if err := conn.BecomeWM(); err != nil {
		return fmt.Errorf("howm: %w", err)
	}

	sync := ewmh.New(conn.XU)
	sync.Setup(cfg.Workspaces, conn.ScreenWidth, conn.ScreenHeight, cfg.BarBottom)

	state := core.NewState(cfg.Workspaces)
	for i := 1; i < len(state.Workspaces); i++ {
		ws := state.Workspaces[i]
		ws.Gap = uint16(cfg.Gap)
		ws.BarHeight = uint16(cfg.BarHeight)
		if err := ws.SetMasterRatio(cfg.MasterRatio); err != nil {
			slog.Warn("howm: invalid master_ratio, keeping default", "error", err)
		}
	}

	srv, err := ipc.Listen(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("howm: %w", err)
	}
	defer srv.Close()

	machine := fsa.NewMachine(&state.Replay)
	machine.CountMod = xbind.ParseModifiers(cfg.CountMod)
	machine.ReplayBindName = "replay"

	mp := wm.New(conn, sync, srv, state, nil, machine, cfg)
	mp.Commands = mp.BuildCommandTable()

	rb, err := resolveBindings(conn, mp.Commands, cfg.Keybinds, machine.CountMod)
	if err != nil {
		slog.Warn("howm: keybind config rejected, running with no key bindings", "error", err)
	} else {
		machine.Operators = rb.Operators
		machine.Motions = rb.Motions
		machine.Binds = rb.Binds
		if err := conn.GrabKeys(rb.Grabs); err != nil {
			slog.Warn("howm: key grab failed", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if loader != nil {
		_ = loader.Watch(func(newCfg *config.Config) {
			mp.Rules = newCfg.ToRules()
			slog.Info("howm: config reloaded")
		})
		defer loader.Stop()
	}

	if err := mp.Run(ctx); err != nil {
		slog.Error("howm: event loop exited", "error", err)
		conn.Cleanup()
		os.Exit(1)
	}

	conn.Cleanup()
	if state.Restart {
		slog.Warn("howm: restart requested, but the restart-exec mechanism is out of scope; exiting instead")
	}
	os.Exit(state.ExitCode)
	return nil
}

// loadConfig loads path, falling back to defaults (and a nil loader, so no
// watch is started) if the file can't be read. Grounded on
// apply_rules/config parsing being warn-and-default, never fatal, per
// spec.md §7.
func loadConfig(path string) (*config.Loader, *config.Config) {
	loader, err := config.NewLoader(path)
	if err != nil {
		slog.Warn("howm: couldn't load config, using defaults", "path", path, "error", err)
		return nil, config.Default()
	}
	return loader, loader.Current()
}
