package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("replayed migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	gw, err := NewSQLite(db, dbPath)
	if err != nil {
		t.Fatalf("new sqlite gateway: %v", err)
	}
	data := model.FreshAppData(1_770_000_000_000)
	data.Todos = append(data.Todos, model.Task{ID: "task-rt-1", Title: "Roundtrip task", Priority: model.PriorityMedium, CreatedAt: 1})
	if err := gw.Persist(t.Context(), data); err != nil {
		t.Fatalf("persist after roundtrip failed: %v", err)
	}

	got, err := gw.Load(t.Context())
	if err != nil {
		t.Fatalf("load after roundtrip failed: %v", err)
	}
	if len(got.Todos) != 1 || got.Todos[0].Title != "Roundtrip task" {
		t.Fatalf("unexpected todos after roundtrip: %+v", got.Todos)
	}
}
