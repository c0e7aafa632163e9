// Package engine is the mutation API over the shared state. Every operation mutates
// the AppData under its lock, re-arms reminders in the notified set after releasing
// it, and then writes the resulting snapshot through the gateway.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/state"
)

// ErrPersist marks an operation whose in-memory change was kept but could not be
// written. The returned snapshot is still the new state.
var ErrPersist = errors.New("engine: persist failed")

type Persister interface {
	Persist(ctx context.Context, data model.AppData) error
	Path() string
}

// ShortcutBinder registers a global shortcut and returns the accelerator actually
// bound, which differs from spec when a fallback was used.
type ShortcutBinder interface {
	Apply(spec string) (string, error)
}

type Autostarter interface {
	SetEnabled(enabled bool) error
}

type Deps struct {
	Store     *state.Store
	Gateway   Persister
	Logger    *log.Logger
	Shortcuts ShortcutBinder
	Autostart Autostarter
	Now       func() int64
	NewID     func() string
}

type Engine struct {
	store     *state.Store
	gateway   Persister
	logger    *log.Logger
	shortcuts ShortcutBinder
	autostart Autostarter
	now       func() int64
	newID     func() string

	// writeMu keeps snapshots reaching the gateway in mutation order.
	writeMu sync.Mutex
}

func New(deps Deps) (*Engine, error) {
	if deps.Store == nil {
		return nil, errors.New("engine: nil store")
	}
	if deps.Gateway == nil {
		return nil, errors.New("engine: nil gateway")
	}
	e := &Engine{
		store:     deps.Store,
		gateway:   deps.Gateway,
		logger:    deps.Logger,
		shortcuts: deps.Shortcuts,
		autostart: deps.Autostart,
		now:       deps.Now,
		newID:     deps.NewID,
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.now == nil {
		e.now = model.NowMillis
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e, nil
}

// effect lists the notified-set cleanup a mutation requires.
type effect struct {
	rearm    []string
	rearmAll bool
}

func rearm(ids map[string]bool) effect {
	out := effect{rearm: make([]string, 0, len(ids))}
	for id := range ids {
		out.rearm = append(out.rearm, id)
	}
	return out
}

func (e *Engine) apply(ctx context.Context, op string, fn func(data *model.AppData) effect) (model.AppData, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	var eff effect
	var snap model.AppData
	if err := e.store.Update(func(data *model.AppData) {
		eff = fn(data)
		snap = data.Clone()
	}); err != nil {
		return model.AppData{}, fmt.Errorf("%s: %w", op, err)
	}

	var err error
	switch {
	case eff.rearmAll:
		err = e.store.ForgetAll()
	case len(eff.rearm) > 0:
		err = e.store.Forget(eff.rearm...)
	}
	if err != nil {
		return snap, fmt.Errorf("%s: %w", op, err)
	}

	return e.persist(ctx, op, snap)
}

func (e *Engine) persist(ctx context.Context, op string, snap model.AppData) (model.AppData, error) {
	if err := e.gateway.Persist(ctx, snap); err != nil {
		e.logger.Error("persist failed, keeping in-memory state", "op", op, "path", e.gateway.Path(), "err", err)
		return snap, fmt.Errorf("%s: %w: %w", op, ErrPersist, err)
	}
	return snap, nil
}

// Snapshot returns a copy of the current state without writing anything.
func (e *Engine) Snapshot() (model.AppData, error) {
	return e.store.Snapshot()
}

func (e *Engine) DataFilePath() string {
	return e.gateway.Path()
}

func findTask(data *model.AppData, id string) *model.Task {
	for i := range data.Todos {
		if data.Todos[i].ID == id {
			return &data.Todos[i]
		}
	}
	return nil
}

func findList(data *model.AppData, id string) *model.TodoList {
	for i := range data.Settings.Lists {
		if data.Settings.Lists[i].ID == id {
			return &data.Settings.Lists[i]
		}
	}
	return nil
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	return model.Int64Ptr(*v)
}

func sameInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
