package desktop

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidShortcut  = errors.New("desktop: invalid shortcut")
	ErrRegisterShortcut = errors.New("desktop: shortcut registration failed")
)

// Modifier names in the order they are printed.
const (
	ModCmdOrCtrl = "CmdOrCtrl"
	ModSuper     = "Super"
	ModCtrl      = "Ctrl"
	ModAlt       = "Alt"
	ModShift     = "Shift"
)

var modifierOrder = []string{ModCmdOrCtrl, ModSuper, ModCtrl, ModAlt, ModShift}

var modifierAliases = map[string]string{
	"cmdorctrl":        ModCmdOrCtrl,
	"commandorcontrol": ModCmdOrCtrl,
	"super":            ModSuper,
	"cmd":              ModSuper,
	"command":          ModSuper,
	"meta":             ModSuper,
	"ctrl":             ModCtrl,
	"control":          ModCtrl,
	"alt":              ModAlt,
	"option":           ModAlt,
	"shift":            ModShift,
}

var namedKeys = map[string]string{
	"space":     "Space",
	"enter":     "Enter",
	"return":    "Enter",
	"tab":       "Tab",
	"esc":       "Escape",
	"escape":    "Escape",
	"backspace": "Backspace",
	"delete":    "Delete",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"pageup":    "PageUp",
	"pagedown":  "PageDown",
}

// Accelerator is a parsed key combination such as Ctrl+Shift+K.
type Accelerator struct {
	Modifiers []string
	Key       string
}

func (a Accelerator) String() string {
	parts := append(append([]string(nil), a.Modifiers...), a.Key)
	return strings.Join(parts, "+")
}

// ParseShortcut accepts "+"-separated parts in any case and order with exactly one
// non-modifier key. The result prints modifiers in a fixed order.
func ParseShortcut(spec string) (Accelerator, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return Accelerator{}, fmt.Errorf("%w: empty", ErrInvalidShortcut)
	}

	mods := make(map[string]bool)
	var key string
	for _, raw := range strings.Split(trimmed, "+") {
		part := strings.ToLower(strings.TrimSpace(raw))
		if part == "" {
			return Accelerator{}, fmt.Errorf("%w: empty part in %q", ErrInvalidShortcut, spec)
		}
		if mod, ok := modifierAliases[part]; ok {
			mods[mod] = true
			continue
		}
		k, ok := keyName(part)
		if !ok {
			return Accelerator{}, fmt.Errorf("%w: unknown key %q", ErrInvalidShortcut, raw)
		}
		if key != "" {
			return Accelerator{}, fmt.Errorf("%w: more than one key in %q", ErrInvalidShortcut, spec)
		}
		key = k
	}
	if key == "" {
		return Accelerator{}, fmt.Errorf("%w: no key in %q", ErrInvalidShortcut, spec)
	}

	out := Accelerator{Key: key}
	for _, mod := range modifierOrder {
		if mods[mod] {
			out.Modifiers = append(out.Modifiers, mod)
		}
	}
	return out, nil
}

func keyName(part string) (string, bool) {
	if named, ok := namedKeys[part]; ok {
		return named, true
	}
	if len(part) == 1 {
		c := part[0]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			return strings.ToUpper(part), true
		}
		return "", false
	}
	if part[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(part, "f%d", &n); err == nil && n >= 1 && n <= 24 && fmt.Sprintf("f%d", n) == part {
			return strings.ToUpper(part), true
		}
	}
	return "", false
}
