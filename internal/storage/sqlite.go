package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

const SQLiteFileName = "todos.db"

// SQLite keeps the snapshot in normalized tables. Row order is preserved through a
// position column and every Persist replaces all rows in one transaction.
type SQLite struct {
	db   *sql.DB
	path string
}

func NewSQLite(db *sql.DB, path string) (*SQLite, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if err := MigrateUp(db); err != nil {
		return nil, err
	}
	return &SQLite{db: db, path: path}, nil
}

func OpenSQLite(dir string) (*SQLite, error) {
	path := filepath.Join(dir, SQLiteFileName)
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s, err := NewSQLite(db, path)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context) (model.AppData, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return model.AppData{}, err
	}
	if settings.Lists, err = s.loadLists(ctx); err != nil {
		return model.AppData{}, fmt.Errorf("%w: lists: %v", ErrCorrupt, err)
	}
	if settings.Labels, err = s.loadLabels(ctx); err != nil {
		return model.AppData{}, fmt.Errorf("%w: labels: %v", ErrCorrupt, err)
	}
	todos, err := s.loadTodos(ctx)
	if err != nil {
		return model.AppData{}, fmt.Errorf("%w: todos: %v", ErrCorrupt, err)
	}
	return model.AppData{Settings: settings, Todos: todos}, nil
}

func (s *SQLite) loadSettings(ctx context.Context) (model.Settings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT sort_mode, sort_order, auto_close_on_blur, active_list_id, global_shortcut,
		       theme_mode, enable_autostart, sound_settings, language
		FROM settings WHERE id = 1`)

	var out model.Settings
	var autoClose, autostart int
	var sound string
	err := row.Scan(&out.SortMode, &out.SortOrder, &autoClose, &out.ActiveListID, &out.GlobalShortcut,
		&out.ThemeMode, &autostart, &sound, &out.Language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Settings{}, ErrNotFound
		}
		return model.Settings{}, fmt.Errorf("%w: settings: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal([]byte(sound), &out.SoundSettings); err != nil {
		return model.Settings{}, fmt.Errorf("%w: sound settings: %v", ErrCorrupt, err)
	}
	out.AutoCloseOnBlur = autoClose != 0
	out.EnableAutostart = autostart != 0
	return out, nil
}

func (s *SQLite) loadLists(ctx context.Context) ([]model.TodoList, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, icon, created_at FROM lists ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TodoList, 0)
	for rows.Next() {
		var l model.TodoList
		var icon sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &icon, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Icon = stringOrNil(icon)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLite) loadLabels(ctx context.Context) ([]model.Label, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM labels ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Label, 0)
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLite) loadTodos(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, details, parent_id, list_id, starred, priority, label_id,
		       sort_index, created_at, completed_at, reminder_at
		FROM todos ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLite) Persist(ctx context.Context, data model.AppData) (err error) {
	if err := MigrateUp(s.db); err != nil {
		return err
	}
	sound, err := json.Marshal(data.Settings.SoundSettings)
	if err != nil {
		return fmt.Errorf("encode sound settings: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"settings", "lists", "labels", "todos"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	st := data.Settings
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO settings (id, sort_mode, sort_order, auto_close_on_blur, active_list_id, global_shortcut,
		                      theme_mode, enable_autostart, sound_settings, language)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(st.SortMode), string(st.SortOrder), boolInt(st.AutoCloseOnBlur), st.ActiveListID, st.GlobalShortcut,
		string(st.ThemeMode), boolInt(st.EnableAutostart), string(sound), st.Language,
	); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}

	for i, l := range st.Lists {
		if _, err = tx.ExecContext(ctx, `INSERT INTO lists (position, id, name, icon, created_at) VALUES (?, ?, ?, ?, ?)`,
			i, l.ID, l.Name, nullString(l.Icon), l.CreatedAt); err != nil {
			return fmt.Errorf("insert list %s: %w", l.ID, err)
		}
	}
	for i, l := range st.Labels {
		if _, err = tx.ExecContext(ctx, `INSERT INTO labels (position, id, name, color) VALUES (?, ?, ?, ?)`,
			i, l.ID, l.Name, string(l.Color)); err != nil {
			return fmt.Errorf("insert label %s: %w", l.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO todos (position, id, title, details, parent_id, list_id, starred, priority, label_id,
		                   sort_index, created_at, completed_at, reminder_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare todo insert: %w", err)
	}
	defer stmt.Close()
	for i, t := range data.Todos {
		var sortIndex any
		if t.SortIndex != nil {
			sortIndex = *t.SortIndex
		}
		if _, err = stmt.ExecContext(ctx, i, t.ID, t.Title, nullString(t.Details), nullString(t.ParentID),
			nullString(t.ListID), boolInt(t.Starred), string(t.Priority), nullString(t.LabelID),
			sortIndex, t.CreatedAt, nullInt64(t.CompletedAt), nullInt64(t.ReminderAt)); err != nil {
			return fmt.Errorf("insert todo %s: %w", t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var details, parent, list, label sql.NullString
	var starred int
	var sortIndex, completed, reminder sql.NullInt64
	if err := s.Scan(&out.ID, &out.Title, &details, &parent, &list, &starred, &out.Priority, &label,
		&sortIndex, &out.CreatedAt, &completed, &reminder); err != nil {
		return model.Task{}, err
	}
	if !out.Priority.IsValid() {
		out.Priority = model.PriorityNone
	}
	out.Details = stringOrNil(details)
	out.ParentID = stringOrNil(parent)
	out.ListID = stringOrNil(list)
	out.LabelID = stringOrNil(label)
	out.Starred = starred != 0
	if sortIndex.Valid {
		out.SortIndex = model.IntPtr(int(sortIndex.Int64))
	}
	out.CompletedAt = int64OrNil(completed)
	out.ReminderAt = int64OrNil(reminder)
	return out, nil
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNil(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return model.StringPtr(v.String)
}

func int64OrNil(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return model.Int64Ptr(v.Int64)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
