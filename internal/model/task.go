package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidColor    = errors.New("model: invalid label color")
)

type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// ParsePriority accepts any casing and surrounding whitespace.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityNone, nil
	}
	if !p.IsValid() {
		return PriorityNone, fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		*p = PriorityNone
		return nil
	}
	parsed, err := ParsePriority(raw)
	if err != nil {
		parsed = PriorityNone
	}
	*p = parsed
	return nil
}

// Task is one todo. Timestamps are epoch milliseconds.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Details     *string  `json:"details,omitempty"`
	ParentID    *string  `json:"parentId,omitempty"`
	ListID      *string  `json:"listId,omitempty"`
	Starred     bool     `json:"starred"`
	Priority    Priority `json:"priority"`
	LabelID     *string  `json:"labelId,omitempty"`
	SortIndex   *int     `json:"sortIndex,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	CompletedAt *int64   `json:"completedAt,omitempty"`
	ReminderAt  *int64   `json:"reminderAt,omitempty"`
}

// UnmarshalJSON accepts the legacy "text" key for the title and defaults the priority.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	aux := struct {
		*plain
		Text string `json:"text"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if t.Title == "" && aux.Text != "" {
		t.Title = aux.Text
	}
	if t.Priority == "" {
		t.Priority = PriorityNone
	}
	return nil
}

func (t Task) Completed() bool {
	return t.CompletedAt != nil
}

// Active reports whether the task still counts for reminders.
func (t Task) Active() bool {
	return t.CompletedAt == nil
}

func (t Task) InList(listID string) bool {
	return t.ListID != nil && *t.ListID == listID
}

func (t Task) HasParent(parentID *string) bool {
	if t.ParentID == nil || parentID == nil {
		return t.ParentID == nil && parentID == nil
	}
	return *t.ParentID == *parentID
}

// Due reports whether the reminder condition holds at now.
func (t Task) Due(now int64) bool {
	return t.Active() && t.ReminderAt != nil && *t.ReminderAt <= now
}

func (t Task) Clone() Task {
	out := t
	out.Details = cloneString(t.Details)
	out.ParentID = cloneString(t.ParentID)
	out.ListID = cloneString(t.ListID)
	out.LabelID = cloneString(t.LabelID)
	out.CompletedAt = cloneInt64(t.CompletedAt)
	out.ReminderAt = cloneInt64(t.ReminderAt)
	if t.SortIndex != nil {
		v := *t.SortIndex
		out.SortIndex = &v
	}
	return out
}
