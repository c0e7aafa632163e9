package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/blinkdo/internal/forest"
	"github.com/sandeepkv93/blinkdo/internal/model"
)

type TreeOptions struct {
	ShowCompleted bool
	ShowIDs       bool
}

// SortTasks orders siblings for display. Recent and oldest carry their own
// direction; order flips title and due date; manual follows the sort index.
// Unset sort indices and reminders go last.
func SortTasks(tasks []model.Task, mode model.SortMode, order model.SortOrder) {
	less := func(a, b model.Task) bool {
		switch mode {
		case model.SortOldest:
			return a.CreatedAt < b.CreatedAt
		case model.SortTitle:
			at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if order == model.SortDesc {
				return at > bt
			}
			return at < bt
		case model.SortDueDate:
			if a.ReminderAt == nil || b.ReminderAt == nil {
				return a.ReminderAt != nil
			}
			if order == model.SortDesc {
				return *a.ReminderAt > *b.ReminderAt
			}
			return *a.ReminderAt < *b.ReminderAt
		case model.SortManual:
			if a.SortIndex == nil || b.SortIndex == nil {
				if a.SortIndex == nil && b.SortIndex == nil {
					return a.CreatedAt < b.CreatedAt
				}
				return a.SortIndex != nil
			}
			return *a.SortIndex < *b.SortIndex
		default:
			return a.CreatedAt > b.CreatedAt
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}

// RenderTree prints one list as an indented forest, open roots first. A task
// whose parent is outside the list is a root; so is the first member of a
// parent cycle, in slice order.
func RenderTree(data model.AppData, listID string, opts TreeOptions) string {
	byID := make(map[string]model.Task)
	var inList []model.Task
	for _, t := range data.Todos {
		if !t.InList(listID) {
			continue
		}
		byID[t.ID] = t
		inList = append(inList, t)
	}
	children := forest.Children(data.Todos)

	reached := make(map[string]bool, len(inList))
	reach := func(id string) {
		stack := []string{id}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reached[current] {
				continue
			}
			reached[current] = true
			stack = append(stack, children[current]...)
		}
	}
	var roots []model.Task
	for _, t := range inList {
		if t.ParentID != nil {
			if _, ok := byID[*t.ParentID]; ok {
				continue
			}
		}
		roots = append(roots, t)
		reach(t.ID)
	}
	for _, t := range inList {
		if !reached[t.ID] {
			roots = append(roots, t)
			reach(t.ID)
		}
	}
	SortTasks(roots, data.Settings.SortMode, data.Settings.SortOrder)

	var b strings.Builder
	title := listID
	if l, ok := data.Settings.List(listID); ok {
		title = l.Name
		if l.Icon != nil {
			title = *l.Icon + " " + title
		}
	}
	b.WriteString(headerStyle.Render(title) + "\n")

	visited := make(map[string]bool)
	var walk func(t model.Task, depth int)
	walk = func(t model.Task, depth int) {
		if visited[t.ID] {
			return
		}
		visited[t.ID] = true
		b.WriteString(renderLine(data.Settings, t, depth, opts) + "\n")

		kids := make([]model.Task, 0, len(children[t.ID]))
		for _, id := range children[t.ID] {
			if kid, ok := byID[id]; ok && (opts.ShowCompleted || kid.Active()) {
				kids = append(kids, kid)
			}
		}
		SortTasks(kids, data.Settings.SortMode, data.Settings.SortOrder)
		for _, kid := range kids {
			walk(kid, depth+1)
		}
	}

	open, done := 0, 0
	for _, r := range roots {
		if r.Active() {
			walk(r, 0)
			open++
		}
	}
	if opts.ShowCompleted {
		for _, r := range roots {
			if !r.Active() {
				if done == 0 {
					b.WriteString(mutedStyle.Render("completed") + "\n")
				}
				walk(r, 0)
				done++
			}
		}
	}
	if open == 0 && done == 0 {
		b.WriteString(mutedStyle.Render("  nothing here") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderLine(s model.Settings, t model.Task, depth int, opts TreeOptions) string {
	box := "[ ]"
	title := t.Title
	if t.Completed() {
		box = "[x]"
		title = doneStyle.Render(title)
	}
	parts := []string{strings.Repeat("  ", depth+1) + box}
	if t.Starred {
		parts = append(parts, starStyle.Render("★"))
	}
	parts = append(parts, title)
	if t.Priority != model.PriorityNone && t.Priority.IsValid() {
		parts = append(parts, lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render("!"+string(t.Priority)))
	}
	if t.LabelID != nil {
		for _, l := range s.Labels {
			if l.ID == *t.LabelID {
				parts = append(parts, lipgloss.NewStyle().Foreground(labelColors[l.Color.Coerce()]).Render("#"+l.Name))
			}
		}
	}
	if t.ReminderAt != nil && t.Active() {
		parts = append(parts, mutedStyle.Render("⏰ "+formatMillis(*t.ReminderAt)))
	}
	if opts.ShowIDs {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("(%s)", t.ID)))
	}
	return strings.Join(parts, " ")
}
