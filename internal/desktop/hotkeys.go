// Package desktop holds the narrow interfaces to the window, global hotkey and
// autostart services, plus in-process implementations used by the CLI host.
package desktop

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

var ErrShortcutTaken = errors.New("desktop: shortcut already taken")

type Hotkeys interface {
	Register(accel Accelerator, onPress func()) error
	UnregisterAll() error
}

// Binder keeps exactly one global shortcut registered. When the requested one cannot
// be registered it falls back to the default shortcut.
type Binder struct {
	mu       sync.Mutex
	hotkeys  Hotkeys
	onPress  func()
	fallback string
}

func NewBinder(hotkeys Hotkeys, onPress func()) *Binder {
	return &Binder{hotkeys: hotkeys, onPress: onPress, fallback: model.DefaultGlobalShortcut}
}

// Apply returns the accelerator left registered. On fallback it also returns an
// ErrRegisterShortcut error; an empty result means nothing could be registered.
func (b *Binder) Apply(spec string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.hotkeys.UnregisterAll(); err != nil {
		return "", fmt.Errorf("unregister shortcuts: %w", err)
	}

	accel, err := ParseShortcut(spec)
	if err == nil {
		err = b.hotkeys.Register(accel, b.onPress)
		if err == nil {
			return accel.String(), nil
		}
	}
	cause := fmt.Errorf("%w: %q: %w", ErrRegisterShortcut, spec, err)

	def, parseErr := ParseShortcut(b.fallback)
	if parseErr != nil {
		return "", errors.Join(cause, parseErr)
	}
	if regErr := b.hotkeys.Register(def, b.onPress); regErr != nil {
		return "", errors.Join(cause, fmt.Errorf("register fallback %q: %w", b.fallback, regErr))
	}
	return def.String(), cause
}

// ManualHotkeys is an in-process registry. Press stands in for the OS delivering a
// key event; reserved accelerators refuse registration.
type ManualHotkeys struct {
	mu       sync.Mutex
	bound    map[string]func()
	reserved map[string]bool
}

func NewManualHotkeys(reserved ...string) *ManualHotkeys {
	h := &ManualHotkeys{bound: make(map[string]func()), reserved: make(map[string]bool)}
	for _, spec := range reserved {
		if accel, err := ParseShortcut(spec); err == nil {
			h.reserved[accel.String()] = true
		}
	}
	return h
}

func (h *ManualHotkeys) Register(accel Accelerator, onPress func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := accel.String()
	if h.reserved[key] {
		return fmt.Errorf("%w: %s", ErrShortcutTaken, key)
	}
	h.bound[key] = onPress
	return nil
}

func (h *ManualHotkeys) UnregisterAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.bound)
	return nil
}

// Press fires the callback bound to spec and reports whether one was bound.
func (h *ManualHotkeys) Press(spec string) bool {
	accel, err := ParseShortcut(spec)
	if err != nil {
		return false
	}
	h.mu.Lock()
	fn, ok := h.bound[accel.String()]
	h.mu.Unlock()
	if ok && fn != nil {
		fn()
	}
	return ok
}

func (h *ManualHotkeys) Bound() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.bound))
	for k := range h.bound {
		out = append(out, k)
	}
	return out
}
