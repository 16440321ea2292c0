// Package config loads the user-editable keymap/rule/layout declarations
// that spec.md §1 describes only by shape. It is built on
// github.com/knadh/koanf (the teacher's config stack) reading a YAML file,
// with github.com/fsnotify/fsnotify watching that file for live reload and
// github.com/mattn/go-shellwords splitting spawn command strings into argv.
package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	shellwords "github.com/mattn/go-shellwords"

	"github.com/nuclearfall/howm/internal/rules"
)

// RuleDecl is the YAML shape of one spawn rule row.
type RuleDecl struct {
	Class      string `koanf:"class"`
	Workspace  int    `koanf:"workspace"`
	Follow     bool   `koanf:"follow"`
	Floating   bool   `koanf:"floating"`
	Fullscreen bool   `koanf:"fullscreen"`
}

// KeybindDecl is the YAML shape of one operator, motion, or direct bind.
// Kind is one of "operator", "motion", "bind".
type KeybindDecl struct {
	Kind    string   `koanf:"kind"`
	Key     string   `koanf:"key"`
	Mod     []string `koanf:"mod"`
	Mode    string   `koanf:"mode"`
	Command string   `koanf:"command"`
	Motion  string   `koanf:"motion"`
	Arg     string   `koanf:"arg"`
}

// Config is the fully decoded configuration file.
type Config struct {
	Workspaces   int           `koanf:"workspaces"`
	MasterRatio  float64       `koanf:"master_ratio"`
	Gap          int           `koanf:"gap"`
	BorderWidth  int           `koanf:"border_width"`
	BarHeight    int           `koanf:"bar_height"`
	BarBottom    bool          `koanf:"bar_bottom"`
	CenterFloat  bool          `koanf:"center_floating"`
	ZoomGap      bool          `koanf:"zoom_gap"`
	SocketPath   string        `koanf:"socket_path"`
	SpawnWidth   uint16        `koanf:"spawn_width"`
	SpawnHeight  uint16        `koanf:"spawn_height"`
	CountMod     []string      `koanf:"count_mod"`
	Rules        []RuleDecl    `koanf:"rules"`
	Keybinds     []KeybindDecl `koanf:"keybinds"`
}

// Default returns the configuration howm starts with before any file is
// loaded, matching the defaults implied by original_source/howm.c's
// config.h-style constants.
func Default() *Config {
	return &Config{
		Workspaces:  5,
		MasterRatio: 0.6,
		Gap:         6,
		BorderWidth: 2,
		BarHeight:   20,
		CenterFloat: true,
		SocketPath:  "",
		SpawnWidth:  800,
		SpawnHeight: 600,
		CountMod:    []string{"mod1"},
	}
}

// ToRules converts the declared rule rows into rules.Rule values.
func (c *Config) ToRules() []rules.Rule {
	out := make([]rules.Rule, 0, len(c.Rules))
	for _, r := range c.Rules {
		out = append(out, rules.Rule{
			Class:      r.Class,
			Workspace:  r.Workspace,
			Follow:     r.Follow,
			Floating:   r.Floating,
			Fullscreen: r.Fullscreen,
		})
	}
	return out
}

// SplitCommand splits a shell-style command string into argv, used for the
// argument of config-declared `spawn` direct binds. Grounded
// on spawn()'s execvp(argv) in original_source/howm.c, with argv produced
// by shellwords instead of a pre-split literal array.
func SplitCommand(s string) ([]string, error) {
	p := shellwords.NewParser()
	argv, err := p.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("config: couldn't parse command %q: %w", s, err)
	}
	return argv, nil
}

// Loader loads a YAML config file via koanf and can watch it for changes.
type Loader struct {
	path string

	mu  sync.RWMutex
	cur *Config

	watcher *fsnotify.Watcher
}

// NewLoader loads path once, starting from Default() for any field the
// file omits.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	if err := l.reload(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loader) reload() error {
	k := koanf.New(".")
	cfg := Default()
	if err := k.Load(file.Provider(l.path), yaml.Parser()); err != nil {
		return fmt.Errorf("config: couldn't read %s: %w", l.path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("config: couldn't decode %s: %w", l.path, err)
	}
	l.mu.Lock()
	l.cur = cfg
	l.mu.Unlock()
	return nil
}

// Current returns the most recently loaded configuration.
func (l *Loader) Current() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cur
}

// Watch starts an fsnotify watch on the config file; each write event
// triggers a reload. onChange, if non-nil, is called after every
// successful reload. Watch returns once the watcher is installed; the
// watch itself runs in a background goroutine until Stop is called.
func (l *Loader) Watch(onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: couldn't start watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return fmt.Errorf("config: couldn't watch %s: %w", l.path, err)
	}
	l.watcher = w

	go func() {
		for event := range w.Events {
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := l.reload(); err != nil {
				continue
			}
			if onChange != nil {
				onChange(l.Current())
			}
		}
	}()
	return nil
}

// Stop closes the underlying fsnotify watcher, if any.
func (l *Loader) Stop() error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}
