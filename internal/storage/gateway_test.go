package storage

import (
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func sampleData() model.AppData {
	data := model.FreshAppData(1_770_000_000_000)
	data.Settings.Lists = append(data.Settings.Lists, model.TodoList{ID: "work", Name: "Work", Icon: model.StringPtr("briefcase"), CreatedAt: 1_770_000_000_500})
	data.Settings.Labels = append(data.Settings.Labels, model.Label{ID: "urgent", Name: "Urgent", Color: model.ColorRose})
	data.Settings.SortMode = model.SortManual
	data.Settings.EnableAutostart = false
	data.Settings.SoundSettings.OnDelete = false
	data.Todos = []model.Task{
		{
			ID:         "a",
			Title:      "Ship release",
			Details:    model.StringPtr("notes"),
			ListID:     model.StringPtr("work"),
			Starred:    true,
			Priority:   model.PriorityUrgent,
			LabelID:    model.StringPtr("urgent"),
			SortIndex:  model.IntPtr(0),
			CreatedAt:  1_770_000_001_000,
			ReminderAt: model.Int64Ptr(1_770_000_100_000),
		},
		{
			ID:          "b",
			Title:       "Write notes",
			ParentID:    model.StringPtr("a"),
			ListID:      model.StringPtr("work"),
			Priority:    model.PriorityNone,
			CreatedAt:   1_770_000_002_000,
			CompletedAt: model.Int64Ptr(1_770_000_003_000),
		},
	}
	return data
}

func openBackends(t *testing.T) map[string]Gateway {
	t.Helper()
	out := map[string]Gateway{}
	for _, backend := range []string{BackendJSON, BackendSQLite} {
		gw, err := Open(backend, t.TempDir())
		if err != nil {
			t.Fatalf("open %s: %v", backend, err)
		}
		t.Cleanup(func() { _ = gw.Close() })
		out[backend] = gw
	}
	return out
}

func TestPersistLoadRoundTrip(t *testing.T) {
	for name, gw := range openBackends(t) {
		want := sampleData()
		if err := gw.Persist(t.Context(), want); err != nil {
			t.Fatalf("%s: persist: %v", name, err)
		}
		got, err := gw.Load(t.Context())
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: round trip mismatch\ngot:  %+v\nwant: %+v", name, got, want)
		}
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	for name, gw := range openBackends(t) {
		if _, err := gw.Load(t.Context()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	for name, gw := range openBackends(t) {
		data, err := LoadOrCreate(t.Context(), gw, discardLogger())
		if err != nil {
			t.Fatalf("%s: load or create: %v", name, err)
		}
		if len(data.Todos) != 0 || data.Settings.ActiveListID != model.DefaultListID {
			t.Fatalf("%s: expected defaults, got %+v", name, data)
		}
		if _, err := os.Stat(gw.Path()); err != nil {
			t.Fatalf("%s: defaults not written: %v", name, err)
		}
		again, err := gw.Load(t.Context())
		if err != nil {
			t.Fatalf("%s: reload: %v", name, err)
		}
		if !reflect.DeepEqual(again, data) {
			t.Fatalf("%s: written defaults differ from returned data", name)
		}
	}
}

func TestCorruptJSONResetsToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, JSONFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	gw, err := Open(BackendJSON, dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer gw.Close()

	if _, err := gw.Load(t.Context()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	data, err := LoadOrCreate(t.Context(), gw, discardLogger())
	if err != nil {
		t.Fatalf("load or create must recover: %v", err)
	}
	if len(data.Settings.Lists) != 1 || len(data.Todos) != 0 {
		t.Fatalf("expected fresh defaults, got %+v", data)
	}
	if _, err := gw.Load(t.Context()); err != nil {
		t.Fatalf("corrupt file must be overwritten: %v", err)
	}
}

func TestDamagedSQLiteSchemaResetsToDefaults(t *testing.T) {
	dir := t.TempDir()
	gw, err := OpenSQLite(dir)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer gw.Close()
	if err := gw.Persist(t.Context(), sampleData()); err != nil {
		t.Fatalf("persist: %v", err)
	}

	db, err := sql.Open("sqlite3", gw.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec(`DROP TABLE todos`); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	_ = db.Close()

	if _, err := gw.Load(t.Context()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	data, err := LoadOrCreate(t.Context(), gw, discardLogger())
	if err != nil {
		t.Fatalf("load or create must recover: %v", err)
	}
	if len(data.Todos) != 0 {
		t.Fatalf("expected defaults, got %d todos", len(data.Todos))
	}
}

func TestLoadOrCreateSanitizes(t *testing.T) {
	gw := NewJSONFile(t.TempDir())
	data := sampleData()
	data.Todos[0].ListID = model.StringPtr("deleted-list")
	data.Todos[0].LabelID = model.StringPtr("deleted-label")
	if err := gw.Persist(t.Context(), data); err != nil {
		t.Fatalf("persist: %v", err)
	}

	got, err := LoadOrCreate(t.Context(), gw, discardLogger())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Todos[0].InList(got.Settings.ActiveListID) || got.Todos[0].LabelID != nil {
		t.Fatalf("expected references repaired on load: %+v", got.Todos[0])
	}
}

func TestJSONSnapshotIsPrettyPrinted(t *testing.T) {
	gw := NewJSONFile(t.TempDir())
	if err := gw.Persist(t.Context(), model.DefaultAppData()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	raw, err := os.ReadFile(gw.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(raw) < 4 || string(raw[:4]) != "{\n  " {
		t.Fatalf("expected two-space indented document, got %q", raw[:min(len(raw), 20)])
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("csv", t.TempDir()); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}
