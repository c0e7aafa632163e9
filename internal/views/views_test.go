package views

import (
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/stats"
)

func sampleData() model.AppData {
	data := model.FreshAppData(1)
	data.Settings.SortMode = model.SortManual
	data.Todos = []model.Task{
		{ID: "b", Title: "Second", ListID: model.StringPtr("default"), Priority: model.PriorityNone, SortIndex: model.IntPtr(1), CreatedAt: 2},
		{ID: "a", Title: "First", ListID: model.StringPtr("default"), Priority: model.PriorityHigh, SortIndex: model.IntPtr(0), CreatedAt: 1, Starred: true, LabelID: model.StringPtr(model.DefaultLabelID)},
		{ID: "c", Title: "Child", ListID: model.StringPtr("default"), ParentID: model.StringPtr("a"), Priority: model.PriorityNone, CreatedAt: 3},
		{ID: "d", Title: "Done", ListID: model.StringPtr("default"), Priority: model.PriorityNone, CreatedAt: 4, CompletedAt: model.Int64Ptr(5)},
	}
	return data
}

func TestSortTasksModes(t *testing.T) {
	tasks := []model.Task{
		{ID: "x", Title: "beta", CreatedAt: 1, ReminderAt: model.Int64Ptr(30)},
		{ID: "y", Title: "Alpha", CreatedAt: 3},
		{ID: "z", Title: "gamma", CreatedAt: 2, ReminderAt: model.Int64Ptr(10), SortIndex: model.IntPtr(0)},
	}
	cases := []struct {
		mode  model.SortMode
		order model.SortOrder
		want  string
	}{
		{mode: model.SortRecent, order: model.SortDesc, want: "yzx"},
		{mode: model.SortOldest, order: model.SortDesc, want: "xzy"},
		{mode: model.SortTitle, order: model.SortAsc, want: "yxz"},
		{mode: model.SortTitle, order: model.SortDesc, want: "zxy"},
		{mode: model.SortDueDate, order: model.SortAsc, want: "zxy"},
		{mode: model.SortManual, order: model.SortAsc, want: "zxy"},
	}
	for _, tc := range cases {
		got := append([]model.Task(nil), tasks...)
		SortTasks(got, tc.mode, tc.order)
		ids := got[0].ID + got[1].ID + got[2].ID
		if ids != tc.want {
			t.Fatalf("%s/%s: got %s want %s", tc.mode, tc.order, ids, tc.want)
		}
	}
}

func TestRenderTreeNestsChildren(t *testing.T) {
	out := RenderTree(sampleData(), model.DefaultListID, TreeOptions{ShowIDs: true})
	first := strings.Index(out, "First")
	child := strings.Index(out, "Child")
	second := strings.Index(out, "Second")
	if first < 0 || child < first || second < child {
		t.Fatalf("unexpected tree order:\n%s", out)
	}
	if strings.Contains(out, "Done") {
		t.Fatalf("completed tasks must be hidden by default:\n%s", out)
	}
	if !strings.Contains(out, "!high") || !strings.Contains(out, "#General") || !strings.Contains(out, "(a)") {
		t.Fatalf("expected priority, label and id markers:\n%s", out)
	}

	all := RenderTree(sampleData(), model.DefaultListID, TreeOptions{ShowCompleted: true})
	if !strings.Contains(all, "completed") || !strings.Contains(all, "[x]") {
		t.Fatalf("expected completed section:\n%s", all)
	}
}

func TestRenderTreeKeepsSliceOrderOnTies(t *testing.T) {
	data := model.FreshAppData(1)
	for _, title := range []string{"alpha", "bravo", "charlie", "delta", "echo"} {
		data.Todos = append(data.Todos, model.Task{ID: title, Title: title, ListID: model.StringPtr("default"), Priority: model.PriorityNone, CreatedAt: 7})
	}
	for range 20 {
		out := RenderTree(data, model.DefaultListID, TreeOptions{})
		last := -1
		for _, task := range data.Todos {
			at := strings.Index(out, task.Title)
			if at < last {
				t.Fatalf("expected slice order for equal timestamps:\n%s", out)
			}
			last = at
		}
	}
}

func TestRenderTreePrintsParentCycles(t *testing.T) {
	data := model.FreshAppData(1)
	data.Todos = []model.Task{
		{ID: "a", Title: "Loop A", ListID: model.StringPtr("default"), ParentID: model.StringPtr("b"), Priority: model.PriorityNone, CreatedAt: 1},
		{ID: "b", Title: "Loop B", ListID: model.StringPtr("default"), ParentID: model.StringPtr("a"), Priority: model.PriorityNone, CreatedAt: 2},
		{ID: "c", Title: "Under B", ListID: model.StringPtr("default"), ParentID: model.StringPtr("b"), Priority: model.PriorityNone, CreatedAt: 3},
	}
	out := RenderTree(data, model.DefaultListID, TreeOptions{})
	a, b, c := strings.Index(out, "Loop A"), strings.Index(out, "Loop B"), strings.Index(out, "Under B")
	if a < 0 || b < a || c < b {
		t.Fatalf("expected cycle rendered from its first member:\n%s", out)
	}
	if strings.Count(out, "Loop") != 2 || strings.Contains(out, "nothing here") {
		t.Fatalf("expected each cycle member once:\n%s", out)
	}
}

func TestRenderDetails(t *testing.T) {
	data := sampleData()
	data.Todos[0].Details = model.StringPtr("some **notes**")
	out, ok := RenderDetails(data, "b")
	if !ok || !strings.Contains(out, "Second") || !strings.Contains(out, "notes") {
		t.Fatalf("unexpected details:\n%s", out)
	}
	if _, ok := RenderDetails(data, "missing"); ok {
		t.Fatal("unknown id must report not found")
	}
}

func TestRenderListsAndStats(t *testing.T) {
	lists := RenderLists(sampleData())
	if !strings.Contains(lists, model.DefaultListName) || !strings.Contains(lists, "(3 open)") {
		t.Fatalf("unexpected lists output:\n%s", lists)
	}
	now := time.Now()
	summary := stats.Compute([]model.Task{{ID: "a", CreatedAt: now.UnixMilli()}}, now, 7)
	if out := RenderStats(summary); !strings.Contains(out, "total 1") {
		t.Fatalf("unexpected stats output:\n%s", out)
	}
}
