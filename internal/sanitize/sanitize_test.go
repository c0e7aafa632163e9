package sanitize

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

const now = int64(1_770_000_000_000)

func TestSettingsSynthesizesDefaults(t *testing.T) {
	in := model.Settings{ActiveListID: "missing"}
	out := SettingsAt(in, now)

	if len(out.Lists) != 1 || out.Lists[0].ID != model.DefaultListID || out.Lists[0].CreatedAt != now {
		t.Fatalf("expected synthesized default list, got %+v", out.Lists)
	}
	if out.ActiveListID != model.DefaultListID {
		t.Fatalf("expected active list reassigned, got %q", out.ActiveListID)
	}
	if len(out.Labels) != 1 || out.Labels[0] != model.DefaultLabel() {
		t.Fatalf("expected default label, got %+v", out.Labels)
	}
	if out.GlobalShortcut != model.DefaultGlobalShortcut {
		t.Fatalf("expected default shortcut, got %q", out.GlobalShortcut)
	}
	if out.SortMode != model.SortRecent || out.SortOrder != model.SortDesc || out.ThemeMode != model.ThemeSystem || out.Language != "auto" {
		t.Fatalf("expected enum defaults, got %+v", out)
	}
}

func TestSettingsPositionalListNames(t *testing.T) {
	in := model.DefaultSettings()
	in.Lists = []model.TodoList{{ID: "a", Name: "  "}, {ID: "b", Name: ""}, {ID: "c", Name: " Work "}}
	in.ActiveListID = "b"

	out := SettingsAt(in, now)
	got := []string{out.Lists[0].Name, out.Lists[1].Name, out.Lists[2].Name}
	want := []string{model.DefaultListName, model.NewListName, "Work"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list names got %v want %v", got, want)
	}
	if out.ActiveListID != "b" {
		t.Fatalf("valid active list must be kept, got %q", out.ActiveListID)
	}
}

func TestSettingsLabelRepair(t *testing.T) {
	in := model.DefaultSettings()
	in.Labels = []model.Label{
		{ID: "x", Name: "Home", Color: "teal"},
		{ID: "x", Name: " ", Color: model.ColorRose},
		{ID: "", Name: "Work", Color: model.ColorBlue},
	}

	out := SettingsAt(in, now)
	if out.Labels[0].Color != model.DefaultLabelColor {
		t.Fatalf("expected color coerced, got %q", out.Labels[0].Color)
	}
	if out.Labels[1].Name != "Label 2" {
		t.Fatalf("expected fallback name, got %q", out.Labels[1].Name)
	}
	seen := map[string]bool{}
	for _, l := range out.Labels {
		if l.ID == "" || seen[l.ID] {
			t.Fatalf("label ids not unique: %+v", out.Labels)
		}
		seen[l.ID] = true
	}
	if out.Labels[0].ID != "x" {
		t.Fatalf("first occurrence keeps its id, got %q", out.Labels[0].ID)
	}
}

func TestShortcutTrimmed(t *testing.T) {
	in := model.DefaultSettings()
	in.GlobalShortcut = "  CmdOrCtrl+Shift+T  "
	if got := SettingsAt(in, now).GlobalShortcut; got != "CmdOrCtrl+Shift+T" {
		t.Fatalf("unexpected shortcut %q", got)
	}
}

func TestTasksReferentialRepair(t *testing.T) {
	settings := model.DefaultSettings()
	settings.Lists = append(settings.Lists, model.TodoList{ID: "work", Name: "Work"})
	settings.ActiveListID = "work"

	tasks := []model.Task{
		{ID: "a", Title: "a", ListID: model.StringPtr("deleted"), LabelID: model.StringPtr("gone")},
		{ID: "b", Title: "b", ListID: model.StringPtr("default"), LabelID: model.StringPtr(model.DefaultLabelID), ParentID: model.StringPtr("a")},
		{ID: "c", Title: "c", ParentID: model.StringPtr("c")},
		{ID: "d", Title: "d", ListID: model.StringPtr("work"), ParentID: model.StringPtr("nope")},
		{ID: "e", Title: "e", ListID: model.StringPtr("work"), ParentID: model.StringPtr("a")},
	}

	out := Tasks(settings, tasks)
	if *out[0].ListID != "work" || out[0].LabelID != nil {
		t.Fatalf("orphaned list/label not repaired: %+v", out[0])
	}
	if out[1].LabelID == nil || *out[1].LabelID != model.DefaultLabelID {
		t.Fatalf("valid label dropped: %+v", out[1])
	}
	if out[1].ParentID != nil {
		t.Fatalf("cross-list parent must be detached: %+v", out[1])
	}
	if out[2].ParentID != nil || *out[2].ListID != "work" {
		t.Fatalf("self parent must be detached: %+v", out[2])
	}
	if out[3].ParentID != nil {
		t.Fatalf("missing parent must be detached: %+v", out[3])
	}
	if out[4].ParentID == nil || *out[4].ParentID != "a" {
		t.Fatalf("same-list parent must be kept: %+v", out[4])
	}
	if tasks[0].ListID == nil || *tasks[0].ListID != "deleted" {
		t.Fatal("input tasks must not be mutated")
	}
}

func TestApplyIdempotentFixedCases(t *testing.T) {
	cases := []struct {
		name     string
		settings model.Settings
		tasks    []model.Task
	}{
		{name: "zero", settings: model.Settings{}},
		{name: "defaults", settings: model.DefaultSettings(), tasks: []model.Task{}},
		{
			name: "colliding disambiguator",
			settings: model.Settings{
				Labels: []model.Label{{ID: "a"}, {ID: "a"}, {ID: fmt.Sprintf("a-%d", now+1)}},
			},
			tasks: []model.Task{{ID: "t", Title: "t", LabelID: model.StringPtr("a")}},
		},
	}
	for _, tc := range cases {
		s1, t1 := ApplyAt(tc.settings, tc.tasks, now)
		s2, t2 := ApplyAt(s1, t1, now+500)
		if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(t1, t2) {
			t.Fatalf("%s: sanitize not idempotent\nfirst:  %+v %+v\nsecond: %+v %+v", tc.name, s1, t1, s2, t2)
		}
	}
}

func TestApplyIdempotentRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"", "a", "b", "c", "default", "general"}
	pick := func() string { return ids[rng.Intn(len(ids))] }
	names := []string{"", " ", "Home", "Work"}
	colors := []model.LabelColor{"", "teal", model.ColorBlue, model.ColorSlate}

	for round := 0; round < 200; round++ {
		var s model.Settings
		s.ActiveListID = pick()
		s.GlobalShortcut = names[rng.Intn(len(names))]
		for i := rng.Intn(4); i > 0; i-- {
			s.Lists = append(s.Lists, model.TodoList{ID: pick(), Name: names[rng.Intn(len(names))]})
		}
		for i := rng.Intn(4); i > 0; i-- {
			s.Labels = append(s.Labels, model.Label{ID: pick(), Name: names[rng.Intn(len(names))], Color: colors[rng.Intn(len(colors))]})
		}
		var tasks []model.Task
		for i := rng.Intn(6); i > 0; i-- {
			task := model.Task{ID: fmt.Sprintf("t%d", i), Title: "x", Priority: model.PriorityNone}
			if rng.Intn(2) == 0 {
				task.ListID = model.StringPtr(pick())
			}
			if rng.Intn(2) == 0 {
				task.LabelID = model.StringPtr(pick())
			}
			if rng.Intn(2) == 0 {
				task.ParentID = model.StringPtr(fmt.Sprintf("t%d", rng.Intn(6)))
			}
			tasks = append(tasks, task)
		}

		s1, t1 := ApplyAt(s, tasks, now)
		s2, t2 := ApplyAt(s1, t1, now+1000)
		if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(t1, t2) {
			t.Fatalf("round %d: sanitize not idempotent\nfirst:  %+v %+v\nsecond: %+v %+v", round, s1, t1, s2, t2)
		}
	}
}
