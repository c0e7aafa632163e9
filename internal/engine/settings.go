package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/sanitize"
)

// CreateList appends a list and makes it active.
func (e *Engine) CreateList(ctx context.Context, name string) (model.AppData, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = model.NewListName
	}
	return e.apply(ctx, "create list", func(data *model.AppData) effect {
		id := e.newID()
		data.Settings.Lists = append(data.Settings.Lists, model.TodoList{ID: id, Name: name, CreatedAt: e.now()})
		data.Settings.ActiveListID = id
		return effect{}
	})
}

func (e *Engine) RenameList(ctx context.Context, id, name string) (model.AppData, error) {
	name = strings.TrimSpace(name)
	return e.apply(ctx, "rename list", func(data *model.AppData) effect {
		if l := findList(data, id); l != nil && name != "" {
			l.Name = name
		}
		return effect{}
	})
}

// SetListIcon sets or, for a blank icon, clears the icon of a list.
func (e *Engine) SetListIcon(ctx context.Context, id string, icon *string) (model.AppData, error) {
	return e.apply(ctx, "set list icon", func(data *model.AppData) effect {
		if l := findList(data, id); l != nil {
			l.Icon = model.TrimmedOrNil(icon)
		}
		return effect{}
	})
}

func (e *Engine) SetActiveList(ctx context.Context, id string) (model.AppData, error) {
	return e.apply(ctx, "set active list", func(data *model.AppData) effect {
		if data.Settings.HasList(id) {
			data.Settings.ActiveListID = id
		}
		return effect{}
	})
}

// UpdateSettings stores sanitized settings and repairs task references against them.
// A changed autostart flag goes to the collaborator first and is kept at its previous
// value when that fails. A changed shortcut is re-registered after the commit. Both
// collaborator errors are returned together.
func (e *Engine) UpdateSettings(ctx context.Context, settings model.Settings) (model.AppData, error) {
	next := sanitize.SettingsAt(settings, e.now())

	current, err := e.store.Snapshot()
	if err != nil {
		return current, fmt.Errorf("update settings: %w", err)
	}
	var autostartErr error
	if current.Settings.EnableAutostart != next.EnableAutostart && e.autostart != nil {
		if err := e.autostart.SetEnabled(next.EnableAutostart); err != nil {
			e.logger.Error("autostart update failed", "enabled", next.EnableAutostart, "err", err)
			autostartErr = fmt.Errorf("update settings: autostart: %w", err)
		}
	}

	var shortcutChanged bool
	snap, err := e.apply(ctx, "update settings", func(data *model.AppData) effect {
		if autostartErr != nil {
			next.EnableAutostart = data.Settings.EnableAutostart
		}
		shortcutChanged = data.Settings.GlobalShortcut != next.GlobalShortcut
		data.Settings = next.Clone()
		data.Todos = sanitize.Tasks(data.Settings, data.Todos)
		return effect{}
	})
	if err != nil {
		return snap, errors.Join(autostartErr, err)
	}

	if shortcutChanged {
		var bindErr error
		snap, bindErr = e.bindShortcut(ctx, next.GlobalShortcut)
		return snap, errors.Join(autostartErr, bindErr)
	}
	return snap, autostartErr
}

// SetGlobalShortcut stores spec, blank meaning the default, and registers it. When
// registration fails the fallback shortcut is stored instead and the registration
// error is returned alongside the snapshot.
func (e *Engine) SetGlobalShortcut(ctx context.Context, spec string) (model.AppData, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = model.DefaultGlobalShortcut
	}
	if _, err := e.apply(ctx, "set shortcut", func(data *model.AppData) effect {
		data.Settings.GlobalShortcut = spec
		return effect{}
	}); err != nil {
		return model.AppData{}, err
	}
	return e.bindShortcut(ctx, spec)
}

// BindSavedShortcut registers the stored shortcut at startup, with the same fallback
// as SetGlobalShortcut.
func (e *Engine) BindSavedShortcut(ctx context.Context) (model.AppData, error) {
	snap, err := e.store.Snapshot()
	if err != nil {
		return model.AppData{}, fmt.Errorf("bind shortcut: %w", err)
	}
	return e.bindShortcut(ctx, snap.Settings.GlobalShortcut)
}

func (e *Engine) bindShortcut(ctx context.Context, spec string) (model.AppData, error) {
	if e.shortcuts == nil {
		return e.store.Snapshot()
	}
	bound, bindErr := e.shortcuts.Apply(spec)
	if bindErr != nil {
		e.logger.Error("shortcut registration failed", "shortcut", spec, "bound", bound, "err", bindErr)
	}
	current, err := e.store.Snapshot()
	if err != nil {
		return current, err
	}
	if bound == "" || bound == current.Settings.GlobalShortcut {
		return current, bindErr
	}

	snap, err := e.apply(ctx, "store bound shortcut", func(data *model.AppData) effect {
		data.Settings.GlobalShortcut = bound
		return effect{}
	})
	if err != nil {
		return snap, err
	}
	if bound != spec {
		e.logger.Info("using fallback shortcut", "requested", spec, "shortcut", bound)
	}
	return snap, bindErr
}

// SetAutostartEnabled toggles launch at login. The flag is only stored when the
// collaborator accepted the change.
func (e *Engine) SetAutostartEnabled(ctx context.Context, enabled bool) (model.AppData, error) {
	if e.autostart != nil {
		if err := e.autostart.SetEnabled(enabled); err != nil {
			e.logger.Error("autostart update failed", "enabled", enabled, "err", err)
			snap, snapErr := e.store.Snapshot()
			if snapErr != nil {
				return snap, snapErr
			}
			return snap, fmt.Errorf("set autostart: %w", err)
		}
	}
	return e.apply(ctx, "set autostart", func(data *model.AppData) effect {
		data.Settings.EnableAutostart = enabled
		return effect{}
	})
}

// ResetAllData replaces everything with fresh defaults and forgets every reminder.
func (e *Engine) ResetAllData(ctx context.Context) (model.AppData, error) {
	var previousShortcut string
	snap, err := e.apply(ctx, "reset data", func(data *model.AppData) effect {
		previousShortcut = data.Settings.GlobalShortcut
		*data = model.FreshAppData(e.now())
		return effect{rearmAll: true}
	})
	if err != nil {
		return snap, err
	}
	if previousShortcut != snap.Settings.GlobalShortcut {
		return e.bindShortcut(ctx, snap.Settings.GlobalShortcut)
	}
	return snap, nil
}
