package xbind

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/nuclearfall/howm/internal/fsa"
)

// numlockMask would strip numlock from a modifier state the same way
// xproto.ModMaskLock strips caps-lock below, but nothing in
// original_source/howm.c ever assigns its own numlockmask either (it's
// declared and never set) - this is a known no-op inherited from the
// original rather than a real modifier-mapping lookup.
var numlockMask uint16

// CleanMask strips numlock and caps-lock from a modifier state, matching
// CLEANMASK in original_source/howm.c so that mod-mask comparison ignores
// them. A method on Conn (rather than a free function) so it can be part
// of the wm.Display interface callers test against.
func (c *Conn) CleanMask(mod uint16) uint16 {
	return mod &^ (numlockMask | xproto.ModMaskLock)
}

// KeycodeToKeysym translates a raw keycode into an X keysym via xgbutil's
// key-symbols table.
func (c *Conn) KeycodeToKeysym(code xproto.Keycode) fsa.Keysym {
	sym := keybind.KeysymGet(c.XU, code, 0)
	return fsa.Keysym(sym)
}

// KeysymToKeycodes returns every keycode that produces the given keysym,
// used by the grab scheme below. xgbutil/keybind does not export its
// keysym->keycode lookup, so this mirrors it using the exported KeyMapGet
// and KeysymGet building blocks from the same package.
func (c *Conn) KeysymToKeycodes(sym fsa.Keysym) []xproto.Keycode {
	keysym := xproto.Keysym(sym)
	min, max := c.XU.Setup().MinKeycode, c.XU.Setup().MaxKeycode
	keyMap := keybind.KeyMapGet(c.XU)

	var keycodes []xproto.Keycode
	seen := make(map[xproto.Keycode]bool)
	for kc := int(min); kc <= int(max); kc++ {
		keycode := xproto.Keycode(kc)
		for col := byte(0); col < keyMap.KeysymsPerKeycode; col++ {
			if keysym == keybind.KeysymGet(c.XU, keycode, col) && !seen[keycode] {
				keycodes = append(keycodes, keycode)
				seen[keycode] = true
			}
		}
	}
	return keycodes
}

// KeyNameToKeysym resolves a config-declared key name (e.g. "j", "f1") to
// the keysym the rest of the binding tables operate on, going through
// xgbutil/keybind's string-to-keycode lookup and then the same
// keycode->keysym path WaitForEvent-delivered key presses use, so a config
// binding and a live key press of the same key always compare equal.
// Grounded on keybind.StrToKeycodes' use in
// moukhtar22-doWM/wm/window_manager.go.
func (c *Conn) KeyNameToKeysym(name string) (fsa.Keysym, error) {
	codes := keybind.StrToKeycodes(c.XU, name)
	if len(codes) == 0 {
		return 0, fmt.Errorf("xbind: unknown key name %q", name)
	}
	return c.KeycodeToKeysym(codes[0]), nil
}

// modMasks maps the modifier names a config file declares to their X11
// mask bits, matching the Mod1/Mod4/Shift/Control naming xgbutil itself
// uses for modifier strings.
var modMasks = map[string]uint16{
	"shift":   xproto.ModMaskShift,
	"lock":    xproto.ModMaskLock,
	"control": xproto.ModMaskControl,
	"ctrl":    xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"alt":     xproto.ModMask1,
	"mod2":    xproto.ModMask2,
	"mod3":    xproto.ModMask3,
	"mod4":    xproto.ModMask4,
	"super":   xproto.ModMask4,
	"mod5":    xproto.ModMask5,
}

// ParseModifiers ORs together the mask bits named by mods (case
// insensitive), ignoring names it doesn't recognise.
func ParseModifiers(mods []string) uint16 {
	var mask uint16
	for _, name := range mods {
		if m, ok := modMasks[strings.ToLower(name)]; ok {
			mask |= m
		}
	}
	return mask
}

// Binding is one (keysym, modifier) pair to grab, drawn from the
// operator/motion/direct-bind tables plus the count digits.
type Binding struct {
	Sym fsa.Keysym
	Mod uint16
}

// GrabKeys ungrabs everything on the root and then grabs each binding,
// doubled to also match with caps-lock held, so caps-lock doesn't suppress
// commands - matching grab_keys in original_source/howm.c.
func (c *Conn) GrabKeys(bindings []Binding) error {
	if err := xproto.UngrabKeyChecked(c.X, xproto.GrabAny, c.Root, xproto.ModMaskAny).Check(); err != nil {
		return err
	}
	for _, b := range bindings {
		for _, code := range c.KeysymToKeycodes(b.Sym) {
			if err := c.grabKeycode(code, b.Mod); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Conn) grabKeycode(code xproto.Keycode, mod uint16) error {
	for _, extra := range []uint16{0, xproto.ModMaskLock} {
		err := xproto.GrabKeyChecked(
			c.X, true, c.Root, mod|extra, code,
			xproto.GrabModeAsync, xproto.GrabModeAsync,
		).Check()
		if err != nil {
			return err
		}
	}
	return nil
}

// UngrabAllKeys releases every key grab on the root, part of the cleanup
// sequence described in spec.md §5.
func (c *Conn) UngrabAllKeys() error {
	return xproto.UngrabKeyChecked(c.X, xproto.GrabAny, c.Root, xproto.ModMaskAny).Check()
}

// GrabButtons grabs the buttons a client needs for focus-follows-click and
// floating drag/resize, matching grab_buttons in original_source/howm.c.
func (c *Conn) GrabButtons(w xproto.Window, mod uint16) {
	mask := uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion)
	xproto.GrabButton(c.X, true, w, mask, xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.AtomNone, xproto.ButtonIndex1, mod)
	xproto.GrabButton(c.X, true, w, mask, xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.AtomNone, xproto.ButtonIndex3, mod)
}
