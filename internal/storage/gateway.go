package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/sanitize"
)

var (
	ErrNotFound       = errors.New("storage: snapshot not found")
	ErrCorrupt        = errors.New("storage: snapshot corrupt")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Gateway reads and writes the whole AppData as one snapshot. Load reports a
// missing snapshot as ErrNotFound and an unreadable one as ErrCorrupt.
type Gateway interface {
	Load(ctx context.Context) (model.AppData, error)
	Persist(ctx context.Context, data model.AppData) error
	Path() string
	Close() error
}

// Open creates dataDir if needed and returns the gateway for backend.
func Open(backend, dataDir string) (Gateway, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewJSONFile(dataDir), nil
	case BackendSQLite:
		return OpenSQLite(dataDir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// LoadOrCreate always yields usable, sanitized data. A missing or unreadable snapshot
// is replaced by defaults, which are written back; the returned error only reports
// that this write failed.
func LoadOrCreate(ctx context.Context, g Gateway, logger *log.Logger) (model.AppData, error) {
	data, err := g.Load(ctx)
	if err == nil {
		return sanitize.Data(data), nil
	}

	switch {
	case errors.Is(err, ErrNotFound):
		logger.Info("no snapshot found, creating defaults", "path", g.Path())
	case errors.Is(err, ErrCorrupt):
		logger.Warn("snapshot unreadable, resetting to defaults", "path", g.Path(), "err", err)
	default:
		logger.Error("snapshot load failed, resetting to defaults", "path", g.Path(), "err", err)
	}

	fresh := model.FreshAppData(model.NowMillis())
	if persistErr := g.Persist(ctx, fresh); persistErr != nil {
		logger.Error("writing default snapshot failed", "path", g.Path(), "err", persistErr)
		return fresh, fmt.Errorf("write defaults: %w", persistErr)
	}
	return fresh, nil
}
