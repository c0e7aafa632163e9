package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

const (
	JSONFileName  = "todos.json"
	lockRetryWait = 25 * time.Millisecond
)

// JSONFile stores the snapshot as one pretty-printed document. Access from other
// processes is serialized through a sibling lock file.
type JSONFile struct {
	path string
	lock *flock.Flock
}

func NewJSONFile(dir string) *JSONFile {
	path := filepath.Join(dir, JSONFileName)
	return &JSONFile{path: path, lock: flock.New(path + ".lock")}
}

func (f *JSONFile) Path() string {
	return f.path
}

func (f *JSONFile) Load(ctx context.Context) (model.AppData, error) {
	locked, err := f.lock.TryRLockContext(ctx, lockRetryWait)
	if err != nil {
		return model.AppData{}, fmt.Errorf("lock snapshot: %w", err)
	}
	if locked {
		defer f.lock.Unlock()
	}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.AppData{}, ErrNotFound
		}
		return model.AppData{}, fmt.Errorf("read snapshot: %w", err)
	}

	var data model.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.AppData{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return data, nil
}

func (f *JSONFile) Persist(ctx context.Context, data model.AppData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	locked, err := f.lock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return fmt.Errorf("lock snapshot: %w", err)
	}
	if locked {
		defer f.lock.Unlock()
	}

	if err := atomic.WriteFile(f.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (f *JSONFile) Close() error {
	return f.lock.Close()
}
