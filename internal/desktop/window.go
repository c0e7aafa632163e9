package desktop

import "sync"

// Window is the main window service. All methods are idempotent.
type Window interface {
	Show() error
	Hide() error
	Toggle() error
}

var _ Window = (*MemoryWindow)(nil)

// MemoryWindow tracks visibility only. OnChange, when set, observes every transition.
type MemoryWindow struct {
	mu       sync.Mutex
	visible  bool
	OnChange func(visible bool)
}

func (w *MemoryWindow) Show() error {
	w.set(func(bool) bool { return true })
	return nil
}

func (w *MemoryWindow) Hide() error {
	w.set(func(bool) bool { return false })
	return nil
}

func (w *MemoryWindow) Toggle() error {
	w.set(func(visible bool) bool { return !visible })
	return nil
}

func (w *MemoryWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *MemoryWindow) set(next func(visible bool) bool) {
	w.mu.Lock()
	visible := next(w.visible)
	changed := w.visible != visible
	w.visible = visible
	onChange := w.OnChange
	w.mu.Unlock()
	if changed && onChange != nil {
		onChange(visible)
	}
}
