package engine

import (
	"context"
	"strings"

	"github.com/sandeepkv93/blinkdo/internal/forest"
	"github.com/sandeepkv93/blinkdo/internal/model"
)

type NewTask struct {
	Title      string
	Details    *string
	ReminderAt *int64
	ParentID   *string
	ListID     *string
}

type TaskEdit struct {
	Title      string
	Details    *string
	ReminderAt *int64
}

// CreateTask appends a task. Unknown lists fall back to the active list and a parent
// outside the target list is ignored. A blank title changes nothing.
func (e *Engine) CreateTask(ctx context.Context, in NewTask) (model.AppData, error) {
	title := strings.TrimSpace(in.Title)
	return e.apply(ctx, "create task", func(data *model.AppData) effect {
		if title == "" {
			return effect{}
		}

		listID := data.Settings.ActiveListID
		if in.ListID != nil {
			if candidate := strings.TrimSpace(*in.ListID); data.Settings.HasList(candidate) {
				listID = candidate
			}
		}

		var parentID *string
		if in.ParentID != nil {
			candidate := strings.TrimSpace(*in.ParentID)
			if parent := findTask(data, candidate); parent != nil && parent.InList(listID) {
				parentID = model.StringPtr(candidate)
			}
		}

		data.Todos = append(data.Todos, model.Task{
			ID:         e.newID(),
			Title:      title,
			Details:    model.TrimmedOrNil(in.Details),
			ParentID:   parentID,
			ListID:     model.StringPtr(listID),
			Priority:   model.PriorityNone,
			SortIndex:  forest.NextSortIndex(data.Todos, listID, parentID, false, nil),
			CreatedAt:  e.now(),
			ReminderAt: copyInt64(in.ReminderAt),
		})
		return effect{}
	})
}

// UpdateTask replaces title, details and reminder together. Changing the reminder
// re-arms it.
func (e *Engine) UpdateTask(ctx context.Context, id string, in TaskEdit) (model.AppData, error) {
	title := strings.TrimSpace(in.Title)
	return e.apply(ctx, "update task", func(data *model.AppData) effect {
		t := findTask(data, id)
		if title == "" || t == nil {
			return effect{}
		}
		changed := !sameInt64(t.ReminderAt, in.ReminderAt)
		t.Title = title
		t.Details = model.TrimmedOrNil(in.Details)
		t.ReminderAt = copyInt64(in.ReminderAt)
		if changed {
			return effect{rearm: []string{id}}
		}
		return effect{}
	})
}

func (e *Engine) SetReminder(ctx context.Context, id string, reminderAt *int64) (model.AppData, error) {
	return e.apply(ctx, "set reminder", func(data *model.AppData) effect {
		t := findTask(data, id)
		if t == nil {
			return effect{}
		}
		changed := !sameInt64(t.ReminderAt, reminderAt)
		t.ReminderAt = copyInt64(reminderAt)
		if changed {
			return effect{rearm: []string{id}}
		}
		return effect{}
	})
}

// SetCompleted stamps or clears completion on the whole subtree of id. Completing
// also drops the subtree from the notified set.
func (e *Engine) SetCompleted(ctx context.Context, id string, completed bool) (model.AppData, error) {
	return e.apply(ctx, "set completed", func(data *model.AppData) effect {
		var stamp *int64
		if completed {
			stamp = model.Int64Ptr(e.now())
		}
		ids := forest.SetCompleted(data.Todos, id, stamp)
		if !completed {
			return effect{}
		}
		return rearm(ids)
	})
}

func (e *Engine) SetStarred(ctx context.Context, id string, starred bool) (model.AppData, error) {
	return e.apply(ctx, "set starred", func(data *model.AppData) effect {
		if t := findTask(data, id); t != nil {
			t.Starred = starred
		}
		return effect{}
	})
}

func (e *Engine) SetPriority(ctx context.Context, id string, priority model.Priority) (model.AppData, error) {
	return e.apply(ctx, "set priority", func(data *model.AppData) effect {
		if t := findTask(data, id); t != nil && priority.IsValid() {
			t.Priority = priority
		}
		return effect{}
	})
}

// SetLabel assigns labelID, or clears the label when labelID is nil or unknown.
func (e *Engine) SetLabel(ctx context.Context, id string, labelID *string) (model.AppData, error) {
	return e.apply(ctx, "set label", func(data *model.AppData) effect {
		t := findTask(data, id)
		if t == nil {
			return effect{}
		}
		t.LabelID = nil
		if labelID != nil && data.Settings.HasLabel(*labelID) {
			t.LabelID = model.StringPtr(*labelID)
		}
		return effect{}
	})
}

// DeleteTask removes id and every descendant.
func (e *Engine) DeleteTask(ctx context.Context, id string) (model.AppData, error) {
	return e.apply(ctx, "delete task", func(data *model.AppData) effect {
		kept, removed := forest.Delete(data.Todos, id)
		data.Todos = kept
		return rearm(removed)
	})
}

func (e *Engine) MoveToList(ctx context.Context, id, listID string) (model.AppData, error) {
	return e.apply(ctx, "move task", func(data *model.AppData) effect {
		if data.Settings.HasList(listID) {
			forest.Move(data.Todos, id, listID)
		}
		return effect{}
	})
}

// Reorder ranks the given siblings in order. Siblings left out keep their index.
func (e *Engine) Reorder(ctx context.Context, listID string, parentID *string, completed bool, ordered []string) (model.AppData, error) {
	return e.apply(ctx, "reorder", func(data *model.AppData) effect {
		forest.Reorder(data.Todos, listID, parentID, completed, ordered)
		return effect{}
	})
}

func (e *Engine) ClearCompletedInList(ctx context.Context, listID string) (model.AppData, error) {
	return e.clearCompleted(ctx, &listID)
}

func (e *Engine) ClearHistory(ctx context.Context) (model.AppData, error) {
	return e.clearCompleted(ctx, nil)
}

func (e *Engine) clearCompleted(ctx context.Context, listID *string) (model.AppData, error) {
	return e.apply(ctx, "clear completed", func(data *model.AppData) effect {
		kept, removed := forest.ClearCompleted(data.Todos, listID)
		data.Todos = kept
		return rearm(removed)
	})
}
