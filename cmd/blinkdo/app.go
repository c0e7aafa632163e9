package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/blinkdo/internal/config"
	"github.com/sandeepkv93/blinkdo/internal/desktop"
	"github.com/sandeepkv93/blinkdo/internal/engine"
	"github.com/sandeepkv93/blinkdo/internal/logging"
	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/state"
	"github.com/sandeepkv93/blinkdo/internal/storage"
)

var (
	errTaskNotFound  = errors.New("no task matches")
	errAmbiguousTask = errors.New("task id prefix is ambiguous")
	errListNotFound  = errors.New("no list matches")
)

type app struct {
	cfg     config.Runtime
	logger  *log.Logger
	gateway storage.Gateway
	store   *state.Store
	engine  *engine.Engine
	hotkeys *desktop.ManualHotkeys
	window  *desktop.MemoryWindow
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.viper, opts.configFile)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	gateway, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	data, err := storage.LoadOrCreate(ctx, gateway, logger)
	if err != nil {
		_ = gateway.Close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		gateway: gateway,
		store:   state.New(data),
		hotkeys: desktop.NewManualHotkeys(),
		window:  &desktop.MemoryWindow{},
	}
	deps := engine.Deps{
		Store:     a.store,
		Gateway:   gateway,
		Logger:    logger,
		Shortcuts: desktop.NewBinder(a.hotkeys, func() { _ = a.window.Toggle() }),
	}
	if exe, err := os.Executable(); err == nil {
		if autostart, err := desktop.NewXDGAutostart(config.AppName, exe); err == nil {
			deps.Autostart = autostart
		} else {
			logger.Warn("autostart unavailable", "err", err)
		}
	}

	a.engine, err = engine.New(deps)
	if err != nil {
		_ = gateway.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	return a.gateway.Close()
}

// resolveTask accepts a full id or a unique prefix of one.
func resolveTask(data model.AppData, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if _, ok := data.Task(ref); ok {
		return ref, nil
	}
	match := ""
	for _, t := range data.Todos {
		if ref == "" || !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s", errAmbiguousTask, ref)
		}
		match = t.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", errTaskNotFound, ref)
	}
	return match, nil
}

// resolveList accepts a list id, a unique id prefix or a case-insensitive name.
func resolveList(data model.AppData, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if data.Settings.HasList(ref) {
		return ref, nil
	}
	var matches []string
	for _, l := range data.Settings.Lists {
		if strings.EqualFold(l.Name, ref) || (ref != "" && strings.HasPrefix(l.ID, ref)) {
			matches = append(matches, l.ID)
		}
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("%w: %s", errListNotFound, ref)
	}
	return matches[0], nil
}

// parseWhen reads a reminder time as +duration, RFC 3339, or local
// "2006-01-02 15:04" / "15:04" (today).
func parseWhen(now time.Time, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "+") {
		d, err := time.ParseDuration(raw[1:])
		if err != nil {
			return 0, fmt.Errorf("parse reminder offset: %w", err)
		}
		return now.Add(d).UnixMilli(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", raw, now.Location()); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.ParseInLocation("15:04", raw, now.Location()); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()).UnixMilli(), nil
	}
	return 0, fmt.Errorf("unrecognized reminder time %q", raw)
}
