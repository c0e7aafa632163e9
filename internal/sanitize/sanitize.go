// Package sanitize repairs settings and tasks into a referentially valid
// configuration. Every function here is pure and idempotent.
package sanitize

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

// Apply repairs settings first, then re-validates every task against the repaired settings.
func Apply(settings model.Settings, tasks []model.Task) (model.Settings, []model.Task) {
	return ApplyAt(settings, tasks, model.NowMillis())
}

func ApplyAt(settings model.Settings, tasks []model.Task, now int64) (model.Settings, []model.Task) {
	repaired := SettingsAt(settings, now)
	return repaired, Tasks(repaired, tasks)
}

// Data is Apply over a whole snapshot.
func Data(data model.AppData) model.AppData {
	settings, tasks := Apply(data.Settings, data.Todos)
	return model.AppData{Settings: settings, Todos: tasks}
}

// SettingsAt uses now for synthesized creation timestamps and label id disambiguators.
func SettingsAt(settings model.Settings, now int64) model.Settings {
	out := settings.Clone()

	if len(out.Lists) == 0 {
		out.Lists = []model.TodoList{model.DefaultList(now)}
	}
	for i := range out.Lists {
		fallback := model.NewListName
		if i == 0 {
			fallback = model.DefaultListName
		}
		out.Lists[i].Name = nameOr(out.Lists[i].Name, fallback)
		out.Lists[i].Icon = model.TrimmedOrNil(out.Lists[i].Icon)
	}
	if !out.HasList(out.ActiveListID) {
		out.ActiveListID = out.Lists[0].ID
	}

	out.Labels = labels(out.Labels, now)

	out.GlobalShortcut = strings.TrimSpace(out.GlobalShortcut)
	if out.GlobalShortcut == "" {
		out.GlobalShortcut = model.DefaultGlobalShortcut
	}

	if !out.SortMode.IsValid() {
		out.SortMode = model.SortRecent
	}
	if !out.SortOrder.IsValid() {
		out.SortOrder = model.SortDesc
	}
	if !out.ThemeMode.IsValid() {
		out.ThemeMode = model.ThemeSystem
	}
	if !model.IsSupportedLanguage(out.Language) {
		out.Language = model.DefaultLanguage
	}
	return out
}

func labels(in []model.Label, now int64) []model.Label {
	if len(in) == 0 {
		return []model.Label{model.DefaultLabel()}
	}
	out := make([]model.Label, len(in))
	seen := make(map[string]bool, len(in))
	for i, l := range in {
		l.Name = nameOr(l.Name, model.FallbackLabelName(i))
		l.Color = l.Color.Coerce()
		l.ID = strings.TrimSpace(l.ID)
		if l.ID == "" || seen[l.ID] {
			l.ID = disambiguate(l.ID, now+int64(i), seen)
		}
		seen[l.ID] = true
		out[i] = l
	}
	return out
}

func disambiguate(id string, stamp int64, taken map[string]bool) string {
	base := id
	if base == "" {
		base = "label"
	}
	for {
		candidate := fmt.Sprintf("%s-%d", base, stamp)
		if !taken[candidate] {
			return candidate
		}
		stamp++
	}
}

// Tasks points invalid list references at the active list, drops unknown labels,
// and detaches parents that are missing or live in another list.
func Tasks(settings model.Settings, tasks []model.Task) []model.Task {
	if tasks == nil {
		return nil
	}
	lists := settings.ListIDs()
	labelIDs := settings.LabelIDs()

	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		t = t.Clone()
		if t.ListID == nil || !lists[*t.ListID] {
			t.ListID = model.StringPtr(settings.ActiveListID)
		}
		if t.LabelID != nil && !labelIDs[*t.LabelID] {
			t.LabelID = nil
		}
		if !t.Priority.IsValid() {
			t.Priority = model.PriorityNone
		}
		out[i] = t
	}

	listOf := make(map[string]string, len(out))
	for _, t := range out {
		listOf[t.ID] = *t.ListID
	}
	for i := range out {
		p := out[i].ParentID
		if p == nil {
			continue
		}
		parentList, ok := listOf[*p]
		if !ok || *p == out[i].ID || parentList != *out[i].ListID {
			out[i].ParentID = nil
		}
	}
	return out
}

func nameOr(name, fallback string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
