// Package notify delivers reminder alerts to the user.
package notify

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

var ErrUnsupportedPlatform = errors.New("notify: no desktop notifier for this platform")

type Notification struct {
	TaskID string
	Title  string
	Body   string
}

type Notifier interface {
	Send(Notification) error
}

// LogNotifier prints reminders through the logger. Used when desktop notifications
// are turned off.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Send(msg Notification) error {
	n.Logger.Info(msg.Title, "task", msg.TaskID, "body", msg.Body)
	return nil
}

// ExecNotifier shells out to notify-send on Linux and osascript on macOS.
type ExecNotifier struct {
	// Run executes a command; nil means os/exec.
	Run func(name string, args ...string) error
	GOOS string
}

func (n ExecNotifier) Send(msg Notification) error {
	run := n.Run
	if run == nil {
		run = func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		}
	}
	goos := n.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var err error
	switch goos {
	case "linux", "freebsd", "openbsd":
		err = run("notify-send", "--app-name=blinkdo", msg.Title, msg.Body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(msg.Body), escapeAppleScript(msg.Title))
		err = run("osascript", "-e", script)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
	if err != nil {
		return fmt.Errorf("notify %s: %w", msg.TaskID, err)
	}
	return nil
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
