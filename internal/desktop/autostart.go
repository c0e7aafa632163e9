package desktop

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
)

// AutostartArg is passed to the binary when launched at login.
const AutostartArg = "--autostart"

// XDGAutostart manages a freedesktop autostart entry.
type XDGAutostart struct {
	path string
	exec string
	name string
}

// NewXDGAutostart targets ~/.config/autostart/<name>.desktop.
func NewXDGAutostart(name, execPath string) (*XDGAutostart, error) {
	dir, err := homedir.Expand("~/.config/autostart")
	if err != nil {
		return nil, fmt.Errorf("resolve autostart dir: %w", err)
	}
	return NewXDGAutostartAt(dir, name, execPath), nil
}

func NewXDGAutostartAt(dir, name, execPath string) *XDGAutostart {
	return &XDGAutostart{path: filepath.Join(dir, name+".desktop"), exec: execPath, name: name}
}

func (a *XDGAutostart) Path() string {
	return a.path
}

func (a *XDGAutostart) SetEnabled(enabled bool) error {
	if !enabled {
		if err := os.Remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove autostart entry: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := atomic.WriteFile(a.path, strings.NewReader(a.entry())); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	return nil
}

func (a *XDGAutostart) entry() string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	fmt.Fprintf(&b, "Name=%s\n", a.name)
	fmt.Fprintf(&b, "Exec=%s run %s\n", execQuote(a.exec), AutostartArg)
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return b.String()
}

// execQuote quotes one Exec argument. Reserved characters get a backslash,
// and every backslash is doubled again because the key holds an escaped
// string. Percent signs are doubled so they are not read as field codes.
func execQuote(arg string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range arg {
		switch r {
		case '"', '`', '$':
			b.WriteString(`\\`)
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\\\\`)
		case '%':
			b.WriteString("%%")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
