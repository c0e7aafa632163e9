package desktop

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"
)

func TestParseShortcutNormalizes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "Shift+Space", want: "Shift+Space"},
		{in: " space + SHIFT ", want: "Shift+Space"},
		{in: "control+alt+k", want: "Ctrl+Alt+K"},
		{in: "Cmd+Option+Shift+F12", want: "Super+Alt+Shift+F12"},
		{in: "CommandOrControl+Shift+T", want: "CmdOrCtrl+Shift+T"},
		{in: "esc", want: "Escape"},
	}
	for _, tc := range cases {
		got, err := ParseShortcut(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got.String(), tc.want)
		}
	}
}

func TestParseShortcutRejects(t *testing.T) {
	for _, in := range []string{"", "Shift", "Shift+", "Ctrl+A+B", "Ctrl+Banana", "F25", "Ctrl+!"} {
		if _, err := ParseShortcut(in); !errors.Is(err, ErrInvalidShortcut) {
			t.Fatalf("%q: expected ErrInvalidShortcut, got %v", in, err)
		}
	}
}

func TestBinderRegistersRequestedShortcut(t *testing.T) {
	hotkeys := NewManualHotkeys()
	pressed := 0
	binder := NewBinder(hotkeys, func() { pressed++ })

	bound, err := binder.Apply("ctrl+shift+k")
	if err != nil || bound != "Ctrl+Shift+K" {
		t.Fatalf("unexpected apply result: %q %v", bound, err)
	}
	if !hotkeys.Press("Shift+Ctrl+K") || pressed != 1 {
		t.Fatalf("expected bound callback to fire, pressed=%d", pressed)
	}

	if _, err := binder.Apply("Alt+J"); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if hotkeys.Press("Ctrl+Shift+K") {
		t.Fatal("previous shortcut must be unregistered")
	}
}

func TestBinderFallsBackToDefault(t *testing.T) {
	hotkeys := NewManualHotkeys("Ctrl+Space")
	binder := NewBinder(hotkeys, func() {})

	bound, err := binder.Apply("Ctrl+Space")
	if !errors.Is(err, ErrRegisterShortcut) || !errors.Is(err, ErrShortcutTaken) {
		t.Fatalf("expected registration error, got %v", err)
	}
	if bound != "Shift+Space" {
		t.Fatalf("expected fallback shortcut, got %q", bound)
	}

	bound, err = binder.Apply("not a shortcut")
	if !errors.Is(err, ErrInvalidShortcut) || bound != "Shift+Space" {
		t.Fatalf("invalid spec must fall back: %q %v", bound, err)
	}
}

func TestBinderReportsWhenNothingBinds(t *testing.T) {
	hotkeys := NewManualHotkeys("Ctrl+Space", "Shift+Space")
	bound, err := NewBinder(hotkeys, func() {}).Apply("Ctrl+Space")
	if bound != "" || err == nil {
		t.Fatalf("expected no binding, got %q %v", bound, err)
	}
	if len(hotkeys.Bound()) != 0 {
		t.Fatalf("expected nothing registered, got %v", hotkeys.Bound())
	}
}

func TestMemoryWindowToggle(t *testing.T) {
	var transitions []bool
	w := &MemoryWindow{OnChange: func(v bool) { transitions = append(transitions, v) }}
	_ = w.Toggle()
	_ = w.Show()
	_ = w.Toggle()
	_ = w.Hide()
	if w.Visible() {
		t.Fatal("expected hidden window")
	}
	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
}

func TestXDGAutostartToggle(t *testing.T) {
	a := NewXDGAutostartAt(t.TempDir(), "blinkdo", "/usr/bin/blinkdo")
	if err := a.SetEnabled(true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	raw, err := os.ReadFile(a.Path())
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !strings.Contains(string(raw), AutostartArg) {
		t.Fatalf("entry missing autostart arg:\n%s", raw)
	}
	if err := a.SetEnabled(false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := os.Stat(a.Path()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected entry removed, stat err=%v", err)
	}
	if err := a.SetEnabled(false); err != nil {
		t.Fatalf("disable twice: %v", err)
	}
}

func TestXDGAutostartQuotesExec(t *testing.T) {
	a := NewXDGAutostartAt(t.TempDir(), "blinkdo", `/opt/my "apps"/blinkdö 100%`)
	if err := a.SetEnabled(true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	raw, err := os.ReadFile(a.Path())
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	want := `Exec="/opt/my \\"apps\\"/blinkdö 100%%" run --autostart`
	if !strings.Contains(string(raw), want+"\n") {
		t.Fatalf("expected %s in entry:\n%s", want, raw)
	}
	if got := execQuote(`C:\bin\$x`); got != `"C:\\\\bin\\\\\\$x"` {
		t.Fatalf("unexpected quoting: %s", got)
	}
}
