// Package forest holds the pure parent/child algorithms over a flat task slice.
// Tasks only store parent ids; the child adjacency is rebuilt on every call.
package forest

import (
	"github.com/sandeepkv93/blinkdo/internal/model"
)

// Children maps a parent id to its direct children, in slice order. A child in a
// different list than its parent is not linked.
func Children(tasks []model.Task) map[string][]string {
	listOf := make(map[string]string, len(tasks))
	for _, t := range tasks {
		listOf[t.ID] = listKey(t)
	}
	out := make(map[string][]string)
	for _, t := range tasks {
		if t.ParentID == nil {
			continue
		}
		parentList, ok := listOf[*t.ParentID]
		if !ok || parentList != listKey(t) {
			continue
		}
		out[*t.ParentID] = append(out[*t.ParentID], t.ID)
	}
	return out
}

// Closure returns rootID and all of its transitive descendants. It is empty when
// rootID names no task. Parent cycles terminate.
func Closure(tasks []model.Task, rootID string) map[string]bool {
	closure := make(map[string]bool)
	found := false
	for _, t := range tasks {
		if t.ID == rootID {
			found = true
			break
		}
	}
	if !found {
		return closure
	}

	children := Children(tasks)
	stack := []string{rootID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if closure[current] {
			continue
		}
		closure[current] = true
		stack = append(stack, children[current]...)
	}
	return closure
}

// Siblings reports whether t sits in the sibling group (list, parent, completion state).
func Siblings(t model.Task, listID string, parentID *string, completed bool) bool {
	return t.InList(listID) && t.HasParent(parentID) && t.Completed() == completed
}

// NextSortIndex is one past the highest index in the sibling group, ignoring ids in
// exclude. Siblings without an explicit index count as zero. A group with no members
// yields nil.
func NextSortIndex(tasks []model.Task, listID string, parentID *string, completed bool, exclude map[string]bool) *int {
	maxIndex := -1
	for _, t := range tasks {
		if exclude[t.ID] || !Siblings(t, listID, parentID, completed) {
			continue
		}
		idx := 0
		if t.SortIndex != nil {
			idx = *t.SortIndex
		}
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	if maxIndex < 0 {
		return nil
	}
	return model.IntPtr(maxIndex + 1)
}

// SetCompleted stamps completedAt (nil to reopen) on the whole subtree of id and
// returns the affected ids.
func SetCompleted(tasks []model.Task, id string, completedAt *int64) map[string]bool {
	ids := Closure(tasks, id)
	for i := range tasks {
		if !ids[tasks[i].ID] {
			continue
		}
		if completedAt == nil {
			tasks[i].CompletedAt = nil
		} else {
			tasks[i].CompletedAt = model.Int64Ptr(*completedAt)
		}
	}
	return ids
}

// Delete removes the subtree of id. When id names no task the literal id is still
// reported as removed.
func Delete(tasks []model.Task, id string) ([]model.Task, map[string]bool) {
	ids := Closure(tasks, id)
	if len(ids) == 0 {
		ids[id] = true
	}
	return removeWhere(tasks, func(t model.Task) bool { return ids[t.ID] }), ids
}

// ClearCompleted drops every completed task, optionally only within one list.
func ClearCompleted(tasks []model.Task, listID *string) ([]model.Task, map[string]bool) {
	ids := make(map[string]bool)
	kept := removeWhere(tasks, func(t model.Task) bool {
		if !t.Completed() {
			return false
		}
		if listID != nil && !t.InList(*listID) {
			return false
		}
		ids[t.ID] = true
		return true
	})
	return kept, ids
}

// Move relocates the subtree of id into listID. The subtree root becomes a root task
// placed after the destination roots sharing its completion state; members whose
// parent stayed behind become roots too.
func Move(tasks []model.Task, id, listID string) bool {
	ids := Closure(tasks, id)
	if len(ids) == 0 {
		return false
	}
	var root model.Task
	for _, t := range tasks {
		if t.ID == id {
			root = t
			break
		}
	}
	index := NextSortIndex(tasks, listID, nil, root.Completed(), ids)

	for i := range tasks {
		t := &tasks[i]
		if !ids[t.ID] {
			continue
		}
		switch {
		case t.ID == id:
			t.ParentID = nil
			t.SortIndex = nil
			if index != nil {
				t.SortIndex = model.IntPtr(*index)
			}
		case t.ParentID == nil || !ids[*t.ParentID]:
			t.ParentID = nil
		}
		t.ListID = model.StringPtr(listID)
	}
	return true
}

// Reorder ranks the mentioned members of a sibling group by their position in
// ordered. Unknown and repeated ids are skipped; siblings not mentioned keep their
// previous index. Fewer than two usable ids is a no-op.
func Reorder(tasks []model.Task, listID string, parentID *string, completed bool, ordered []string) bool {
	if len(ordered) < 2 {
		return false
	}
	members := make(map[string]bool)
	for _, t := range tasks {
		if Siblings(t, listID, parentID, completed) {
			members[t.ID] = true
		}
	}

	rank := make(map[string]int, len(ordered))
	for _, id := range ordered {
		if !members[id] {
			continue
		}
		if _, dup := rank[id]; dup {
			continue
		}
		rank[id] = len(rank)
	}
	if len(rank) < 2 {
		return false
	}

	for i := range tasks {
		if r, ok := rank[tasks[i].ID]; ok && members[tasks[i].ID] {
			tasks[i].SortIndex = model.IntPtr(r)
		}
	}
	return true
}

func removeWhere(tasks []model.Task, drop func(model.Task) bool) []model.Task {
	kept := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !drop(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

func listKey(t model.Task) string {
	if t.ListID == nil {
		return ""
	}
	return *t.ListID
}
